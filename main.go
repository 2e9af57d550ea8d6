package main

import (
	"log"
	"math/rand"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/ipowatch/ipo-analyzer/config"
	"github.com/ipowatch/ipo-analyzer/database"
	"github.com/ipowatch/ipo-analyzer/handlers"
	"github.com/ipowatch/ipo-analyzer/jobs"
	"github.com/ipowatch/ipo-analyzer/services"
	"github.com/ipowatch/ipo-analyzer/shared"
)

func main() {
	cfg := config.LoadConfig()

	var store *database.IPOStore
	if cfg.DatabaseURL != "" {
		if err := database.Connect(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		if err := database.Migrate("database/schema.sql"); err != nil {
			log.Printf("Migration warning: %v", err)
		}
		store = database.NewIPOStore(database.DB)
	} else {
		log.Println("DATABASE_URL not set, running without persistence")
	}

	// The primary GMP source only builds its table client-side, so its
	// URL routes through the headless-browser fetcher.
	plainFetcher := shared.NewCollyPageFetcher(cfg.HTTPRequestTimeout, cfg.RequestRateLimit)
	renderedFetcher := shared.NewRenderedPageFetcher(cfg.HTTPRequestTimeout)
	fetcher := shared.NewRoutedPageFetcher(plainFetcher, renderedFetcher, []string{"investorgain.com"})

	listingScraper := services.NewListingScraper(cfg.ListingsURL)
	financialSource := services.NewSyntheticFinancialSource(rand.New(rand.NewSource(time.Now().UnixNano())))

	pipeline := services.NewPipeline(fetcher, listingScraper, financialSource, services.PipelineConfig{
		ListingsURL:         cfg.ListingsURL,
		ListingsFallbackURL: cfg.ListingsFallbackURL,
		GMPSourceURLs:       cfg.GMPSourceURLs,
	})

	refreshJob := jobs.NewRefreshJob(pipeline, store)

	go func() {
		refreshJob.Run()

		ticker := time.NewTicker(cfg.RefreshInterval)
		defer ticker.Stop()
		for range ticker.C {
			refreshJob.Run()
		}
	}()

	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	if store != nil {
		ipoHandler := handlers.NewIPOHandler(store, refreshJob)

		api := app.Group("/api/v1")
		api.Get("/ipos", ipoHandler.GetScoredIPOs)
		api.Get("/ipos/:symbol", ipoHandler.GetScoredIPOBySymbol)
		api.Post("/admin/refresh", ipoHandler.TriggerRefresh)
	}

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
