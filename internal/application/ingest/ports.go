package ingest

import (
	"context"

	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

// TxRunner executes an ingestion batch inside one storage transaction, with
// repositories bound to it. A failed batch leaves nothing behind.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reports repository.ReportRepository,
		products repository.ProductRepository,
		costs repository.CostRepository,
		orders repository.OrderRepository,
	) error) error
}
