package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

// Ingestor implements the scrape-and-store workflow and idempotent article
// creation.
type Ingestor struct {
	scraper  ports.ArticleScraper
	articles ports.ArticleRepository
	logger   *slog.Logger
}

// NewIngestor wires the crawl orchestrator to the article store.
func NewIngestor(scraper ports.ArticleScraper, articles ports.ArticleRepository, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		scraper:  scraper,
		articles: articles,
		logger:   logger,
	}
}

// ScrapeReport summarizes one ingest batch.
type ScrapeReport struct {
	ScrapedCount int              `json:"scrapedCount"`
	StoredCount  int              `json:"storedCount"`
	Articles     []domain.Article `json:"articles"`
}

// Create stores an article unless its URL is already known, in which case
// the existing record is returned unchanged.
func (i *Ingestor) Create(ctx context.Context, draft domain.Article) (domain.Article, error) {
	existing, err := i.articles.FindByURL(ctx, draft.URL)
	if err != nil {
		return domain.Article{}, fmt.Errorf("lookup by url: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	if draft.PublishedDate.IsZero() {
		draft.PublishedDate = time.Now().UTC()
	}
	if draft.Sections == nil {
		draft.Sections = []domain.Section{}
	}

	stored, err := i.articles.Insert(ctx, draft)
	if err != nil {
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return stored, nil
}

// CreateMany stores a batch with per-item failure isolation: a failing item
// is logged and excluded, the rest of the batch proceeds.
func (i *Ingestor) CreateMany(ctx context.Context, scraped []domain.ScrapedArticle) []domain.Article {
	stored := make([]domain.Article, 0, len(scraped))

	for _, item := range scraped {
		article, err := i.Create(ctx, domain.Article{
			Title:         item.Title,
			Author:        item.Author,
			PublishedDate: item.PublishedDate,
			URL:           item.URL,
			Content:       item.Content,
			RawContent:    item.RawContent,
			Sections:      item.Sections,
		})
		if err != nil {
			i.logger.Warn("skipping article", "url", item.URL, "error", err)
			continue
		}
		stored = append(stored, article)
	}

	return stored
}

// ScrapeAndStoreOldest ingests the limit oldest articles of the site.
func (i *Ingestor) ScrapeAndStoreOldest(ctx context.Context, limit int) (ScrapeReport, error) {
	scraped, err := i.scraper.ScrapeOldest(ctx, limit)
	if err != nil {
		return ScrapeReport{}, fmt.Errorf("scrape oldest: %w", err)
	}
	return i.store(ctx, scraped), nil
}

// ScrapeAndStoreNewest ingests the limit newest articles of the site.
func (i *Ingestor) ScrapeAndStoreNewest(ctx context.Context, limit int) (ScrapeReport, error) {
	scraped, err := i.scraper.ScrapeNewest(ctx, limit)
	if err != nil {
		return ScrapeReport{}, fmt.Errorf("scrape newest: %w", err)
	}
	return i.store(ctx, scraped), nil
}

func (i *Ingestor) store(ctx context.Context, scraped []domain.ScrapedArticle) ScrapeReport {
	stored := i.CreateMany(ctx, scraped)
	return ScrapeReport{
		ScrapedCount: len(scraped),
		StoredCount:  len(stored),
		Articles:     stored,
	}
}
