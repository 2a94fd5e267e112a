// Package report is the analytics core: report generation, weekly
// profitability snapshots with content-hash deduplication, week-over-week
// comparison and rule-based insights.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/qaydhub/qayd-api/internal/application/identity"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/timewindow"
)

// canonicalRow is one sold-row entry of the hash input. Field order is part
// of the hash contract: reordering fields changes every stored source_hash.
type canonicalRow struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Qty           int64  `json:"qty"`
	RevenueHalala int64  `json:"revenueHalala"`
}

type canonicalInput struct {
	NotCountedStatuses []string       `json:"notCountedStatuses"`
	Window             [2]int64       `json:"window"`
	Items              []canonicalRow `json:"items"`
}

// SourceHash computes the canonical content hash of a snapshot: SHA-256 over
// the JSON of {excluded statuses, window, sold rows}. Rows are normalized
// (trimmed SKU, collapsed lowercase name, revenue in halala) and sorted by
// "sku|name" so the hash is independent of database row order. Two runs over
// the same data in the same window always produce the same hash; that
// equality is the snapshot dedup key.
func SourceHash(excludedStatuses []string, w timewindow.Window, rows []entity.SoldRow) string {
	items := make([]canonicalRow, 0, len(rows))
	for _, r := range rows {
		items = append(items, canonicalRow{
			SKU:           strings.TrimSpace(r.SKU),
			Name:          strings.ToLower(identity.NormalizeName(r.Name)),
			Qty:           r.Qty,
			RevenueHalala: money.DecimalToHalala(r.RevenueSAR),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SKU+"|"+items[i].Name < items[j].SKU+"|"+items[j].Name
	})

	payload, _ := json.Marshal(canonicalInput{
		NotCountedStatuses: excludedStatuses,
		Window:             [2]int64{w.Start, w.End},
		Items:              items,
	})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
