package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/qaydhub/qayd-api/internal/domain"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/timewindow"
)

func soldRow(sku, name string, qty int64, revenueSAR string) entity.SoldRow {
	return entity.SoldRow{
		SKU:        sku,
		Name:       name,
		Qty:        qty,
		RevenueSAR: decimal.RequireFromString(revenueSAR),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Canonical source hash
// ──────────────────────────────────────────────────────────────────────────────

func TestSourceHash_IndependentOfRowOrder(t *testing.T) {
	w := timewindow.Window{Start: 1000, End: 2000}
	a := []entity.SoldRow{
		soldRow("S1", "Blue Mug", 2, "50.00"),
		soldRow("S2", "Red Mug", 1, "25.00"),
	}
	b := []entity.SoldRow{a[1], a[0]}

	assert.Equal(t,
		SourceHash(domain.ExcludedOrderStatuses, w, a),
		SourceHash(domain.ExcludedOrderStatuses, w, b),
		"database row order must not change the hash")
}

func TestSourceHash_NormalizesNamesAndSKUs(t *testing.T) {
	w := timewindow.Window{Start: 1000, End: 2000}
	a := []entity.SoldRow{soldRow(" S1 ", "Blue   Mug", 2, "50.00")}
	b := []entity.SoldRow{soldRow("S1", "blue mug", 2, "50.00")}

	assert.Equal(t,
		SourceHash(domain.ExcludedOrderStatuses, w, a),
		SourceHash(domain.ExcludedOrderStatuses, w, b))
}

func TestSourceHash_WindowChangesTheHash(t *testing.T) {
	rows := []entity.SoldRow{soldRow("S1", "Mug", 1, "10.00")}
	h1 := SourceHash(domain.ExcludedOrderStatuses, timewindow.Window{Start: 1000, End: 2000}, rows)
	h2 := SourceHash(domain.ExcludedOrderStatuses, timewindow.Window{Start: 2001, End: 3000}, rows)
	assert.NotEqual(t, h1, h2, "same data in a different week is a different snapshot")
}

func TestSourceHash_DataChangesTheHash(t *testing.T) {
	w := timewindow.Window{Start: 1000, End: 2000}
	h1 := SourceHash(domain.ExcludedOrderStatuses, w, []entity.SoldRow{soldRow("S1", "Mug", 1, "10.00")})
	h2 := SourceHash(domain.ExcludedOrderStatuses, w, []entity.SoldRow{soldRow("S1", "Mug", 2, "10.00")})
	h3 := SourceHash(domain.ExcludedOrderStatuses, w, []entity.SoldRow{soldRow("S1", "Mug", 1, "10.01")})
	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestSourceHash_StableAcrossRuns(t *testing.T) {
	w := timewindow.Window{Start: 1000, End: 2000}
	rows := []entity.SoldRow{
		soldRow("S1", "Blue Mug", 2, "50.00"),
		soldRow("", "قهوة عربية", 3, "75.50"),
	}
	first := SourceHash(domain.ExcludedOrderStatuses, w, rows)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, SourceHash(domain.ExcludedOrderStatuses, w, rows))
	}
	assert.Len(t, first, 64, "hex-encoded SHA-256")
}

func TestSourceHash_EmptyRows(t *testing.T) {
	w := timewindow.Window{Start: 1000, End: 2000}
	h := SourceHash(domain.ExcludedOrderStatuses, w, nil)
	assert.Len(t, h, 64)
	assert.Equal(t, h, SourceHash(domain.ExcludedOrderStatuses, w, []entity.SoldRow{}))
}
