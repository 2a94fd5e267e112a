package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qaydhub/qayd-api/internal/application/ingest"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

var _ ingest.TxRunner = (*TxRunner)(nil)

// TxRunner executes callbacks inside one PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, hands fn repositories bound to it, and commits on
// success or rolls back on any error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	reports repository.ReportRepository,
	products repository.ProductRepository,
	costs repository.CostRepository,
	orders repository.OrderRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	reports := NewReportRepository(tx)
	products := NewProductRepository(tx)
	costs := NewCostRepository(tx)
	orders := NewOrderRepository(tx)

	if err := fn(reports, products, costs, orders); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
