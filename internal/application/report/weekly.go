package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
	"github.com/qaydhub/qayd-api/internal/domain/timewindow"
)

// WeeklyService produces window-scoped snapshots independent of any single
// ingestion batch: figures come from every order placed inside the current
// business week. Idempotency uses the same content hash as report
// generation, so rerunning inside an unchanged week returns the existing
// snapshot.
type WeeklyService struct {
	reports repository.ReportRepository
	orders  repository.OrderRepository
	users   repository.UserRepository
	calc    *Calculator
	snaps   *SnapshotService
	now     func() int64
}

// NewWeeklyService wires the weekly pipeline.
func NewWeeklyService(
	reports repository.ReportRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	calc *Calculator,
	snaps *SnapshotService,
) *WeeklyService {
	return &WeeklyService{
		reports: reports,
		orders:  orders,
		users:   users,
		calc:    calc,
		snaps:   snaps,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Generate computes or returns the current week's snapshot for the user.
// A latest report must exist to anchor the snapshot's payload; otherwise
// domain.ErrNoReportContext.
func (s *WeeklyService) Generate(ctx context.Context, userID string) (*dto.SnapshotDTO, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	latest, err := s.reports.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, domain.ErrNoReportContext
	}

	nowMs := s.now()
	window := timewindow.CurrentWeek(nowMs)
	excluded := domain.ExcludedOrderStatuses

	sold, err := s.orders.SoldRowsByWindow(ctx, userID, window.Start, window.End, excluded)
	if err != nil {
		return nil, err
	}
	ordersCount, err := s.orders.CountOrdersByWindow(ctx, userID, window.Start, window.End, excluded)
	if err != nil {
		return nil, err
	}

	gross := decimal.Zero
	for _, r := range sold {
		gross = gross.Add(r.RevenueSAR)
	}
	grossHalala := money.DecimalToHalala(gross)

	totals, err := s.calc.ForWindow(ctx, userID, sold)
	if err != nil {
		return nil, err
	}
	var marginX100 int64
	if grossHalala > 0 {
		marginX100 = money.RoundDiv(totals.TotalProfitHalala*10000, grossHalala)
	}

	candidate := &entity.ReportSnapshot{
		ID:                       uuid.New().String(),
		UserID:                   userID,
		CreatedAt:                nowMs,
		SourceHash:               SourceHash(excluded, window, sold),
		TimeRangeStart:           window.Start,
		TimeRangeEnd:             window.End,
		ReportID:                 latest.ID,
		GrossSalesHalala:         grossHalala,
		OrdersCount:              ordersCount,
		TotalProfitHalala:        totals.TotalProfitHalala,
		MarginPctX100:            marginX100,
		MissingCostProductsCount: totals.MissingCostProductsCount,
		MissingCostSalesHalala:   totals.MissingCostSalesHalala,
		ReportJSON:               latest.ReportJSON,
	}
	snap, deduped, err := s.snaps.DedupOrCreate(ctx, user, candidate)
	if err != nil {
		return nil, err
	}
	return toSnapshotDTO(snap, deduped), nil
}

// SnapshotQueries serves the read side of the snapshot history.
type SnapshotQueries struct {
	snapshots repository.SnapshotRepository
}

// NewSnapshotQueries builds the read service.
func NewSnapshotQueries(snapshots repository.SnapshotRepository) *SnapshotQueries {
	return &SnapshotQueries{snapshots: snapshots}
}

// List returns the newest snapshots, capped at 52 (one year of weeks);
// limit<=0 defaults to 12.
func (q *SnapshotQueries) List(ctx context.Context, userID string, limit int) ([]dto.SnapshotDTO, error) {
	if limit <= 0 {
		limit = 12
	}
	if limit > 52 {
		limit = 52
	}
	rows, err := q.snapshots.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SnapshotDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, *toSnapshotDTO(r, false))
	}
	return out, nil
}

// Get returns one snapshot by id, or domain.ErrNotFound.
func (q *SnapshotQueries) Get(ctx context.Context, userID, id string) (*dto.SnapshotDTO, error) {
	s, err := q.snapshots.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSnapshotDTO(s, false), nil
}

func toSnapshotDTO(s *entity.ReportSnapshot, deduped bool) *dto.SnapshotDTO {
	return &dto.SnapshotDTO{
		ID:                       s.ID,
		CreatedAt:                s.CreatedAt,
		TimeRangeStart:           s.TimeRangeStart,
		TimeRangeEnd:             s.TimeRangeEnd,
		GrossSales:               float64(s.GrossSalesHalala) / 100,
		OrdersCount:              s.OrdersCount,
		TotalProfit:              float64(s.TotalProfitHalala) / 100,
		MarginPct:                float64(s.MarginPctX100) / 100,
		MissingCostProductsCount: s.MissingCostProductsCount,
		MissingCostSales:         float64(s.MissingCostSalesHalala) / 100,
		Deduped:                  deduped,
		SourceHash:               s.SourceHash,
	}
}
