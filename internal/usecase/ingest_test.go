package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogCurator/internal/domain"
)

func TestCreateIsIdempotentByURL(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	ingestor := NewIngestor(&fakeScraper{}, repo, nil)
	ctx := context.Background()

	draft := domain.Article{
		Title:      "How to build chatbots",
		Author:     "Jane Roe",
		URL:        "https://example.com/blogs/chatbots/",
		Content:    "Intro\nBody",
		RawContent: "<p>Body</p>",
	}

	first, err := ingestor.Create(ctx, draft)
	require.NoError(t, err)
	require.NotEqual(t, first.ID.String(), "00000000-0000-0000-0000-000000000000")

	second, err := ingestor.Create(ctx, draft)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "second create must return the first record")
	assert.Equal(t, 1, repo.inserts, "duplicate URL must not insert again")
}

func TestCreateDefaultsPublishedDate(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	ingestor := NewIngestor(&fakeScraper{}, repo, nil)

	stored, err := ingestor.Create(context.Background(), domain.Article{
		Title:      "Untimed",
		Author:     "Unknown",
		URL:        "https://example.com/blogs/untimed/",
		Content:    "x",
		RawContent: "<p>x</p>",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), stored.PublishedDate, time.Minute)
	assert.NotNil(t, stored.Sections)
}

func TestCreateManyIsolatesFailures(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	repo.failURL = "https://example.com/blogs/two/"
	ingestor := NewIngestor(&fakeScraper{}, repo, nil)

	scraped := []domain.ScrapedArticle{
		{Title: "One", URL: "https://example.com/blogs/one/", Author: "A"},
		{Title: "Two", URL: "https://example.com/blogs/two/", Author: "B"},
		{Title: "Three", URL: "https://example.com/blogs/three/", Author: "C"},
	}

	stored := ingestor.CreateMany(context.Background(), scraped)

	require.Len(t, stored, 2)
	assert.Equal(t, "One", stored[0].Title)
	assert.Equal(t, "Three", stored[1].Title)
}

func TestScrapeAndStoreOldest(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	scraper := &fakeScraper{oldest: []domain.ScrapedArticle{
		{Title: "Oldest", URL: "https://example.com/blogs/oldest/", PublishedDate: time.Now()},
		{Title: "Older", URL: "https://example.com/blogs/older/", PublishedDate: time.Now()},
	}}
	ingestor := NewIngestor(scraper, repo, nil)

	report, err := ingestor.ScrapeAndStoreOldest(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, report.ScrapedCount)
	assert.Equal(t, 2, report.StoredCount)
	require.Len(t, report.Articles, 2)
	assert.Equal(t, []string{"https://example.com/blogs/oldest/", "https://example.com/blogs/older/"}, repo.lastOrder)
}
