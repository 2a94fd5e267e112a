package identity

import (
	"strings"

	"github.com/qaydhub/qayd-api/internal/domain/entity"
)

// Group is the distinct-product view the costs page works with: one entry per
// identity key, collecting every catalog row that maps to it.
type Group struct {
	Key               string
	SKU               string
	ExternalID        string
	Name              string
	LatestPriceHalala *int64
	ProductIDs        []string
}

// GroupProducts folds recency-ordered catalog rows into identity groups.
// The first row seen for a key (the most recent one) supplies the display
// fields; later rows only fill gaps and extend ProductIDs.
func GroupProducts(rows []*entity.Product) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0, len(rows))

	for _, p := range rows {
		sku := strings.TrimSpace(p.SKU)
		ext := strings.TrimSpace(p.ExternalID)
		name := NormalizeName(p.Title)
		key := KeyFor(p.SKU, p.ExternalID, p.Title)

		i, seen := index[key]
		if !seen {
			price := p.PriceHalala
			groups = append(groups, Group{
				Key:               key,
				SKU:               sku,
				ExternalID:        ext,
				Name:              name,
				LatestPriceHalala: &price,
				ProductIDs:        []string{p.ID},
			})
			index[key] = len(groups) - 1
			continue
		}
		g := &groups[i]
		g.ProductIDs = append(g.ProductIDs, p.ID)
		if g.SKU == "" {
			g.SKU = sku
		}
		if g.ExternalID == "" {
			g.ExternalID = ext
		}
		if g.Name == "" {
			g.Name = name
		}
	}
	return groups
}
