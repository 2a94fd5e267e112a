package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qaydhub/qayd-api/internal/application/costs"
	"github.com/qaydhub/qayd-api/internal/application/ingest"
	"github.com/qaydhub/qayd-api/internal/application/report"
	"github.com/qaydhub/qayd-api/internal/application/stats"
)

// RouterDeps carries the wired use cases for the router.
type RouterDeps struct {
	Generator  *report.Generator
	Queries    *report.Queries
	Weekly     *report.WeeklyService
	Snapshots  *report.SnapshotQueries
	Comparator *report.Comparator
	Insights   *report.InsightService
	CostsUC    *costs.UseCase
	IngestUC   *ingest.UseCase
	StatsUC    *stats.UseCase
	JWTSecret  string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// All routes require a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Premium routes (weekly snapshots, comparison, insights).
	premium := protected.Group("/", RequirePremium())

	// Ingestion
	ingestHandler := NewIngestHandler(deps.IngestUC)
	protected.Post("/ingest/orders", ingestHandler.Ingest)

	// Comparison and insights go before /reports/:id so the literal paths
	// are matched ahead of the id parameter.
	compareHandler := NewCompareHandler(deps.Comparator, deps.Insights)
	premium.Get("/reports/compare", compareHandler.Compare)
	premium.Get("/reports/insights", compareHandler.Insights)

	// Reports
	reports := protected.Group("/reports")
	reportsHandler := NewReportsHandler(deps.Generator, deps.Queries)
	reports.Post("/generate", reportsHandler.Generate)
	reports.Get("/", reportsHandler.List)
	reports.Get("/:id", reportsHandler.GetByID)

	// Costs
	costsGroup := protected.Group("/costs")
	costsHandler := NewCostsHandler(deps.CostsUC)
	costsGroup.Get("/", costsHandler.List)
	costsGroup.Post("/", costsHandler.Upsert)

	// Stats
	statsHandler := NewStatsHandler(deps.StatsUC)
	protected.Get("/stats", statsHandler.Overview)

	// Weekly snapshots (premium)
	snapshots := premium.Group("/snapshots")
	snapshotsHandler := NewSnapshotsHandler(deps.Weekly, deps.Snapshots)
	snapshots.Post("/generate-weekly", snapshotsHandler.GenerateWeekly)
	snapshots.Get("/", snapshotsHandler.List)
	snapshots.Get("/:id", snapshotsHandler.GetByID)
}
