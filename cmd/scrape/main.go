// Command scrape runs a one-shot oldest-first ingest and exits. Useful for
// seeding the database without starting the API server.
package main

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"BlogCurator/internal/app"
	"BlogCurator/internal/config"
	"BlogCurator/internal/logging"
)

const defaultLimit = 5

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	limit := defaultLimit
	if len(os.Args) > 1 {
		parsed, err := strconv.Atoi(os.Args[1])
		if err != nil || parsed < 1 {
			logger.Error("usage: scrape [limit]", "got", os.Args[1])
			os.Exit(2)
		}
		limit = parsed
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	report, err := application.Ingestor().ScrapeAndStoreOldest(context.Background(), limit)
	if err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	logger.Info("scrape finished",
		"scraped", report.ScrapedCount,
		"stored", report.StoredCount)
}
