package report

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// In-memory fakes shared by the report service tests. They mirror the
// ordering and error contracts of the PostgreSQL repositories.

// ──────────────────────────────────────────────────────────────────────────────
// Snapshot repository fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeSnapshotRepo struct {
	rows []*entity.ReportSnapshot
	// insertHook runs before each insert, letting tests inject a racing
	// writer between the dedup check and the insert.
	insertHook func()
}

func (f *fakeSnapshotRepo) Insert(ctx context.Context, s *entity.ReportSnapshot) error {
	if f.insertHook != nil {
		f.insertHook()
	}
	for _, r := range f.rows {
		if r.UserID == s.UserID && r.SourceHash == s.SourceHash {
			return domain.ErrDuplicate
		}
	}
	f.rows = append(f.rows, s)
	return nil
}

func (f *fakeSnapshotRepo) GetByHash(ctx context.Context, userID, sourceHash string) (*entity.ReportSnapshot, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.SourceHash == sourceHash {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapshotRepo) GetByID(ctx context.Context, userID, id string) (*entity.ReportSnapshot, error) {
	for _, r := range f.rows {
		if r.UserID == userID && r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeSnapshotRepo) List(ctx context.Context, userID string, limit int) ([]*entity.ReportSnapshot, error) {
	var out []*entity.ReportSnapshot
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeRangeStart > out[j].TimeRangeStart
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSnapshotRepo) PreviousBefore(ctx context.Context, userID string, beforeMillis int64) (*entity.ReportSnapshot, error) {
	var best *entity.ReportSnapshot
	for _, r := range f.rows {
		if r.UserID != userID || r.TimeRangeEnd >= beforeMillis {
			continue
		}
		if best == nil || r.TimeRangeEnd > best.TimeRangeEnd {
			best = r
		}
	}
	return best, nil
}

var _ repository.SnapshotRepository = (*fakeSnapshotRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// User repository fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) IncrementFreeSnapshots(ctx context.Context, userID string) error {
	if u, ok := f.users[userID]; ok {
		u.FreeSnapshotsUsed++
	}
	return nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Product repository fake (rows pre-ordered by recency)
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	rows []*entity.Product
}

func (f *fakeProductRepo) Upsert(ctx context.Context, p *entity.Product) error { return nil }

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	for _, p := range f.rows {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByExternalID(ctx context.Context, userID, externalID string) (*entity.Product, error) {
	for _, p := range f.rows {
		if p.UserID == userID && p.ExternalID == externalID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	rows, _ := f.ListByUser(ctx, userID)
	return int64(len(rows)), nil
}

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Cost repository fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeCostRepo struct {
	byProduct map[string]*entity.ProductCost
}

func (f *fakeCostRepo) GetByProductID(ctx context.Context, productID string) (*entity.ProductCost, error) {
	return f.byProduct[productID], nil
}

func (f *fakeCostRepo) Upsert(ctx context.Context, c *entity.ProductCost) error {
	if f.byProduct == nil {
		f.byProduct = make(map[string]*entity.ProductCost)
	}
	f.byProduct[c.ProductID] = c
	return nil
}

var _ repository.CostRepository = (*fakeCostRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Order repository fake (canned aggregates)
// ──────────────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	counted     repository.OrderTotals
	excluded    repository.OrderTotals
	soldRows    []entity.SoldRow
	windowRows  []entity.SoldRow
	windowCount int64
}

func (f *fakeOrderRepo) Insert(ctx context.Context, o *entity.Order) error          { return nil }
func (f *fakeOrderRepo) InsertItem(ctx context.Context, it *entity.OrderItem) error { return nil }

func (f *fakeOrderRepo) TotalsByReport(ctx context.Context, userID, reportID string, excludedStatuses []string) (repository.OrderTotals, repository.OrderTotals, error) {
	return f.counted, f.excluded, nil
}

func (f *fakeOrderRepo) TotalsByUser(ctx context.Context, userID string, excludedStatuses []string) (repository.OrderTotals, repository.OrderTotals, error) {
	return f.counted, f.excluded, nil
}

func (f *fakeOrderRepo) SoldRowsByReport(ctx context.Context, userID, reportID string, excludedStatuses []string) ([]entity.SoldRow, error) {
	return f.soldRows, nil
}

func (f *fakeOrderRepo) SoldRowsByWindow(ctx context.Context, userID string, startMillis, endMillis int64, excludedStatuses []string) ([]entity.SoldRow, error) {
	return f.windowRows, nil
}

func (f *fakeOrderRepo) CountOrdersByWindow(ctx context.Context, userID string, startMillis, endMillis int64, excludedStatuses []string) (int64, error) {
	return f.windowCount, nil
}

var _ repository.OrderRepository = (*fakeOrderRepo)(nil)

// ──────────────────────────────────────────────────────────────────────────────
// Report repository fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeReportRepo struct {
	rows []*entity.Report
}

func (f *fakeReportRepo) Create(ctx context.Context, r *entity.Report) error {
	f.rows = append(f.rows, r)
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	for _, r := range f.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) Latest(ctx context.Context, userID string) (*entity.Report, error) {
	var best *entity.Report
	for _, r := range f.rows {
		if r.UserID != userID {
			continue
		}
		if best == nil || r.CreatedAt > best.CreatedAt {
			best = r
		}
	}
	return best, nil
}

func (f *fakeReportRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Report, error) {
	var out []*entity.Report
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (f *fakeReportRepo) UpdateJSON(ctx context.Context, id string, payload json.RawMessage) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.ReportJSON = payload
			return nil
		}
	}
	return domain.ErrNotFound
}

var _ repository.ReportRepository = (*fakeReportRepo)(nil)
