// Package app wires configuration into the running service: database,
// scraper, AI collaborators, HTTP server and the optional digest job.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"BlogCurator/internal/config"
	"BlogCurator/internal/infrastructure/googleauth"
	"BlogCurator/internal/infrastructure/llm"
	"BlogCurator/internal/infrastructure/scheduler"
	"BlogCurator/internal/infrastructure/search"
	"BlogCurator/internal/infrastructure/storage"
	"BlogCurator/internal/infrastructure/telegram"
	"BlogCurator/internal/logging"
	"BlogCurator/internal/ports"
	"BlogCurator/internal/scraper"
	"BlogCurator/internal/server"
	"BlogCurator/internal/usecase"
)

// Application owns the wired components and their lifecycle.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	db       *sql.DB
	server   *server.Server
	digest   *usecase.DigestJob
	ingestor *usecase.Ingestor
}

// New builds the full application graph. The AI rewriter is only wired when
// service-account credentials load; without them the update endpoints report
// an upstream failure instead of the process refusing to start.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := storage.EnsureSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}

	articles := storage.NewArticleRepository(db)
	analyses := storage.NewAnalysisRepository(db)

	site := scraper.NewSite(
		&http.Client{Timeout: 20 * time.Second},
		cfg.Scraper.BaseURL,
		cfg.Scraper.UserAgent,
		time.Duration(cfg.Scraper.DelayMS)*time.Millisecond,
		baseLogger.With("component", "scraper"),
	)

	rewriter := buildRewriter(cfg.Vertex, baseLogger)
	searcher := search.NewGoogleClient(cfg.Search.APIKey, cfg.Search.EngineID)

	ingestor := usecase.NewIngestor(site, articles, baseLogger.With("component", "ingestor"))
	updater := usecase.NewUpdater(articles, analyses, rewriter, searcher,
		baseLogger.With("component", "updater"))

	handler := server.NewHandler(articles, analyses, site, searcher, ingestor, updater,
		cfg.Server.Development(), baseLogger)
	srv := server.NewServer(cfg.Server, cfg.RateLimit, handler, baseLogger)

	a := &Application{
		cfg:      cfg,
		logger:   baseLogger.With("component", "app"),
		db:       db,
		server:   srv,
		ingestor: ingestor,
	}

	if cfg.Digest.Enabled {
		driver := scheduler.NewIntervalScheduler(time.Duration(cfg.Digest.IntervalMinutes) * time.Minute)
		notifier := telegram.NewNotifier(cfg.Digest.Telegram.BotToken, cfg.Digest.Telegram.ChatID)
		a.digest = usecase.NewDigestJob(driver, ingestor, notifier, cfg.Digest.Limit,
			baseLogger.With("component", "digest"))
	}

	return a, nil
}

func buildRewriter(cfg config.VertexConfig, logger *slog.Logger) ports.ContentRewriter {
	creds, err := config.LoadGoogleCredentials(cfg.CredentialsFile)
	if err != nil {
		logger.Warn("vertex credentials unavailable, AI endpoints disabled", "error", err)
		return llm.Disabled{}
	}

	tokens := googleauth.NewTokenMinter(*creds)
	return llm.NewGeminiClient(creds.ProjectID, cfg.Location, cfg.Model, tokens)
}

// Run serves HTTP until interrupted, starting the digest job alongside.
func (a *Application) Run(ctx context.Context) error {
	if a.digest != nil {
		if err := a.digest.Start(ctx); err != nil {
			return fmt.Errorf("start digest job: %w", err)
		}
		defer a.digest.Stop(context.Background())
	}
	defer a.db.Close()

	return a.server.Start()
}

// Ingestor exposes the ingest pipeline for one-shot commands.
func (a *Application) Ingestor() *usecase.Ingestor {
	return a.ingestor
}

// Close releases the database handle without serving.
func (a *Application) Close() error {
	return a.db.Close()
}
