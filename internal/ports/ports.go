package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"BlogCurator/internal/domain"
)

// ArticleRepository persists articles with upsert-by-URL semantics.
// Lookup methods return (nil, nil) when no record matches.
type ArticleRepository interface {
	FindByURL(ctx context.Context, url string) (*domain.Article, error)
	Insert(ctx context.Context, article domain.Article) (domain.Article, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	UpdateByID(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	List(ctx context.Context, page, limit int) ([]domain.Article, int, error)
	ListWithAnalyses(ctx context.Context, page, limit int) ([]domain.ArticleListItem, int, error)
	Search(ctx context.Context, query string, page, limit int) ([]domain.Article, int, error)
}

// AnalysisRepository stores immutable rewrite/rating records.
type AnalysisRepository interface {
	Insert(ctx context.Context, analysis domain.ArticleAnalysis) (domain.ArticleAnalysis, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ArticleAnalysis, error)
	List(ctx context.Context, page, limit int) ([]domain.ArticleAnalysis, int, error)
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.ArticleAnalysis, error)
}

// ArticleScraper crawls the target site and structures its pages.
type ArticleScraper interface {
	ScrapeOldest(ctx context.Context, limit int) ([]domain.ScrapedArticle, error)
	ScrapeNewest(ctx context.Context, limit int) ([]domain.ScrapedArticle, error)
	ExtractURL(ctx context.Context, url string) (domain.ExtractedArticle, error)
}

// ContentRewriter asks an AI model to rewrite and rate article bodies.
type ContentRewriter interface {
	UpdateAndRate(ctx context.Context, original domain.ArticleSnapshot, refs []domain.Reference) (domain.RewriteResult, error)
	Rate(ctx context.Context, title, rawContent string) (domain.ContentRating, error)
}

// ReferenceSearcher finds candidate reference pages for a query.
type ReferenceSearcher interface {
	PredictTopWebsites(ctx context.Context, query string, limit int) ([]domain.Reference, error)
}

// TokenSource mints bearer tokens for upstream API calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Notifier streams ingest digests to an outbound channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
