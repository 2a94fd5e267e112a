// Package ingest persists one already-parsed upload batch: catalog rows,
// orders and their line items, with revenue allocated across items. File
// parsing and column detection happen upstream; by the time rows reach this
// use case they are plain structured data.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qaydhub/qayd-api/internal/application/dto"
	"github.com/qaydhub/qayd-api/internal/domain/entity"
	"github.com/qaydhub/qayd-api/internal/domain/money"
	"github.com/qaydhub/qayd-api/internal/domain/repository"
)

const maxWarningExamples = 5

// UseCase ingests parsed batches transactionally.
type UseCase struct {
	tx  TxRunner
	now func() int64
}

// NewUseCase builds the ingestion use case.
func NewUseCase(tx TxRunner) *UseCase {
	return &UseCase{tx: tx, now: func() int64 { return time.Now().UnixMilli() }}
}

// Ingest persists the batch under a fresh report id and returns counts plus
// row-level warnings. Bad rows are skipped with a warning; only storage
// failures abort the batch.
func (uc *UseCase) Ingest(ctx context.Context, userID string, req dto.IngestRequest) (*dto.IngestResponse, error) {
	platform := req.Platform
	if platform == "" {
		platform = "csv"
	}
	now := uc.now()
	reportID := uuid.New().String()

	resp := &dto.IngestResponse{
		Success:  true,
		ReportID: reportID,
		Warnings: []string{},
	}

	err := uc.tx.Run(ctx, func(
		reports repository.ReportRepository,
		products repository.ProductRepository,
		costs repository.CostRepository,
		orders repository.OrderRepository,
	) error {
		pending, _ := json.Marshal(map[string]string{"status": "pending"})
		if err := reports.Create(ctx, &entity.Report{
			ID:         reportID,
			UserID:     userID,
			ReportJSON: pending,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("create report: %w", err)
		}

		skippedProducts := 0
		var skippedExamples []int
		for i, row := range req.Products {
			if strings.TrimSpace(row.Title) == "" || row.PriceSAR.IsZero() {
				skippedProducts++
				if len(skippedExamples) < maxWarningExamples {
					skippedExamples = append(skippedExamples, i+1)
				}
				continue
			}
			externalID := strings.TrimSpace(row.ExternalID)
			if externalID == "" {
				externalID = "csv-" + uuid.New().String()
			}
			category := row.Category
			if category == "" {
				category = "General"
			}
			if err := products.Upsert(ctx, &entity.Product{
				ID:          uuid.New().String(),
				UserID:      userID,
				Platform:    platform,
				ExternalID:  externalID,
				Title:       row.Title,
				SKU:         row.SKU,
				PriceHalala: money.DecimalToHalala(row.PriceSAR),
				Inventory:   row.Inventory,
				Category:    category,
				ReportID:    reportID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return fmt.Errorf("upsert product: %w", err)
			}
			resp.Counts.Products++

			if err := uc.seedCost(ctx, products, costs, userID, externalID, row.CostSAR, now); err != nil {
				return err
			}
		}
		if skippedProducts > 0 {
			examples := make([]string, len(skippedExamples))
			for i, n := range skippedExamples {
				examples[i] = fmt.Sprintf("صف %d", n)
			}
			resp.Warnings = append(resp.Warnings, fmt.Sprintf(
				"تم تخطي %d صف من المنتجات بسبب نقص (الاسم/السعر). أمثلة: %s",
				skippedProducts, strings.Join(examples, ", ")))
		}

		orderWarnings := 0
		for _, row := range req.Orders {
			if row.TotalSAR.IsZero() {
				if orderWarnings < maxWarningExamples {
					resp.Warnings = append(resp.Warnings, "Skipped order row due to missing total")
					orderWarnings++
				}
				continue
			}
			orderID := uuid.New().String()
			totalHalala := money.DecimalToHalala(row.TotalSAR)
			createdAt := row.CreatedAt
			if createdAt == 0 {
				createdAt = now
			}
			status := row.Status
			if status == "" {
				status = "completed"
			}
			items := filterItems(row.Items)
			itemsCount := len(items)
			if itemsCount == 0 {
				itemsCount = 1
			}
			externalID := strings.TrimSpace(row.ExternalID)
			if externalID == "" {
				externalID = "csv-" + uuid.New().String()
			}

			if err := orders.Insert(ctx, &entity.Order{
				ID:          orderID,
				UserID:      userID,
				Platform:    platform,
				ExternalID:  externalID,
				ReportID:    reportID,
				TotalHalala: totalHalala,
				Status:      status,
				ItemsCount:  itemsCount,
				CreatedAt:   createdAt,
			}); err != nil {
				return fmt.Errorf("insert order: %w", err)
			}
			resp.Counts.Orders++

			if len(items) == 0 {
				// The order still counts toward sales; it just contributes
				// nothing to per-product profitability.
				if orderWarnings < maxWarningExamples {
					resp.Warnings = append(resp.Warnings,
						fmt.Sprintf("Order %s has no parsed items", externalID))
					orderWarnings++
				}
				continue
			}

			qtys := make([]int64, len(items))
			for i, it := range items {
				qtys[i] = it.Qty
			}
			allocations := AllocateRevenue(totalHalala, qtys)
			for i, it := range items {
				if err := orders.InsertItem(ctx, &entity.OrderItem{
					ID:               uuid.New().String(),
					ReportID:         reportID,
					OrderID:          orderID,
					SKU:              it.SKU,
					ProductName:      it.Name,
					Qty:              it.Qty,
					AllocatedRevenue: money.HalalaToSAR(allocations[i]),
					CreatedAt:        now,
				}); err != nil {
					return fmt.Errorf("insert order item: %w", err)
				}
				resp.Counts.OrderItems++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// seedCost seeds a purchase cost from the upload's cost column when the
// product has no cost record yet. An existing record, configured or not, is
// never overwritten by ingestion.
func (uc *UseCase) seedCost(
	ctx context.Context,
	products repository.ProductRepository,
	costs repository.CostRepository,
	userID, externalID string,
	costSAR decimal.Decimal,
	now int64,
) error {
	if !costSAR.IsPositive() {
		return nil
	}
	p, err := products.GetByExternalID(ctx, userID, externalID)
	if err != nil {
		return fmt.Errorf("lookup product for cost seed: %w", err)
	}
	if p == nil {
		return nil
	}
	existing, err := costs.GetByProductID(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("lookup existing cost: %w", err)
	}
	if existing != nil {
		return nil
	}
	if err := costs.Upsert(ctx, &entity.ProductCost{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		PurchaseHalala: money.DecimalToHalala(costSAR),
		IsConfigured:   true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		return fmt.Errorf("seed product cost: %w", err)
	}
	return nil
}

func filterItems(items []dto.IngestItemDTO) []dto.IngestItemDTO {
	out := items[:0:0]
	for _, it := range items {
		if it.Qty > 0 {
			out = append(out, it)
		}
	}
	return out
}
