package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogCurator/internal/domain"
)

func TestDigestJobNotifiesStoredArticles(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	scraper := &fakeScraper{newest: []domain.ScrapedArticle{
		{Title: "Fresh", URL: "https://example.com/blogs/fresh/", PublishedDate: time.Now()},
	}}
	notifier := &fakeNotifier{}

	job := NewDigestJob(immediateScheduler{}, NewIngestor(scraper, repo, nil), notifier, 5, nil)
	require.NoError(t, job.Start(context.Background()))

	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], "Fresh")
	assert.Contains(t, notifier.messages[0], "https://example.com/blogs/fresh/")
}

func TestDigestJobSilentWhenNothingStored(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	job := NewDigestJob(immediateScheduler{}, NewIngestor(&fakeScraper{}, newFakeArticleRepo(), nil), notifier, 5, nil)
	require.NoError(t, job.Start(context.Background()))

	assert.Empty(t, notifier.messages)
}
