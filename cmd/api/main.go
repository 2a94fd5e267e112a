package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/qaydhub/qayd-api/internal/application/costs"
	"github.com/qaydhub/qayd-api/internal/application/identity"
	"github.com/qaydhub/qayd-api/internal/application/ingest"
	"github.com/qaydhub/qayd-api/internal/application/ports"
	"github.com/qaydhub/qayd-api/internal/application/report"
	"github.com/qaydhub/qayd-api/internal/application/stats"
	infraai "github.com/qaydhub/qayd-api/internal/infrastructure/ai"
	"github.com/qaydhub/qayd-api/internal/infrastructure/postgres"
	httpRouter "github.com/qaydhub/qayd-api/internal/interfaces/http"
	"github.com/qaydhub/qayd-api/pkg/config"
	"github.com/qaydhub/qayd-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	costRepo := postgres.NewCostRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	snapshotRepo := postgres.NewSnapshotRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := identity.NewResolver(productRepo)
	calc := report.NewCalculator(resolver, costRepo)
	snapSvc := report.NewSnapshotService(snapshotRepo, userRepo, cfg.Plan.FreeSnapshotLimit)

	// Narrative generation is optional. Without an API key reports carry the
	// static disabled-narrative text instead.
	var narrative ports.NarrativeService
	if cfg.AI.APIKey != "" {
		narrative = infraai.NewOpenAIService(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, narrative generation disabled")
	}

	generator := report.NewGenerator(reportRepo, orderRepo, userRepo, calc, snapSvc, narrative)
	weeklySvc := report.NewWeeklyService(reportRepo, orderRepo, userRepo, calc, snapSvc)
	reportQueries := report.NewQueries(reportRepo)
	snapshotQueries := report.NewSnapshotQueries(snapshotRepo)
	comparator := report.NewComparator(snapshotRepo)
	insightSvc := report.NewInsightService(comparator, orderRepo, calc)
	costsUC := costs.NewUseCase(productRepo, costRepo, resolver)
	ingestUC := ingest.NewUseCase(txRunner)
	statsUC := stats.NewUseCase(productRepo, orderRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI in local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Qayd API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Generator:  generator,
		Queries:    reportQueries,
		Weekly:     weeklySvc,
		Snapshots:  snapshotQueries,
		Comparator: comparator,
		Insights:   insightSvc,
		CostsUC:    costsUC,
		IngestUC:   ingestUC,
		StatsUC:    statsUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
