package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/domain"
)

func seedArticle(repo *fakeArticleRepo) domain.Article {
	article := domain.Article{
		ID:         uuid.New(),
		Title:      "Scaling support with AI",
		Author:     "Jane Roe",
		URL:        "https://example.com/blogs/scaling/",
		Content:    "Intro\nBody",
		RawContent: "<h2>Intro</h2><p>Body</p>",
	}
	repo.byID[article.ID] = article
	repo.byURL[article.URL] = article
	return article
}

func TestUpdateAndRatePersistsAnalysis(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	article := seedArticle(repo)

	analyses := &fakeAnalysisRepo{}
	searcher := &fakeSearcher{refs: []domain.Reference{
		{URL: "https://ref.example/a", Reason: "covers the same topic"},
		{URL: "https://ref.example/b", Reason: "recent benchmark data"},
	}}
	rewriter := &fakeRewriter{result: domain.RewriteResult{
		OriginalRating:    domain.ContentRating{OverallScore: 6.5, Summary: "fine"},
		UpdatedTitle:      "Scaling support with AI, revisited",
		UpdatedRawContent: "<h2>Intro</h2><p>Better body</p>",
		ChangesApplied:    []string{"expanded intro"},
		NewInsights:       []string{"added benchmark"},
		UpdatedRating:     domain.ContentRating{OverallScore: 8.0, Summary: "better"},
	}}

	updater := NewUpdater(repo, analyses, rewriter, searcher, nil)

	result, err := updater.UpdateAndRate(context.Background(), article.ID)
	require.NoError(t, err)

	require.Len(t, analyses.stored, 1)
	stored := analyses.stored[0]
	assert.Equal(t, article.ID, stored.OriginalArticle.ID)
	assert.Equal(t, article.RawContent, stored.OriginalArticle.RawContent)
	assert.Equal(t, "Scaling support with AI, revisited", stored.UpdatedArticle.Title)
	assert.Len(t, stored.References, 2)

	assert.InDelta(t, 1.5, stored.Improvement.ScoreDifference, 1e-9)
	assert.True(t, stored.Improvement.Improved)

	assert.Equal(t, stored.ID, result.AnalysisID)
	assert.Equal(t, article.Title, result.Original.Title)
	assert.Equal(t, []string{"expanded intro"}, result.Updated.ChangesApplied)
	assert.InDelta(t, 1.5, result.Improvement.ScoreDifference, 1e-9)
}

func TestUpdateAndRateNotImproved(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	article := seedArticle(repo)

	rewriter := &fakeRewriter{result: domain.RewriteResult{
		OriginalRating: domain.ContentRating{OverallScore: 8.0},
		UpdatedRating:  domain.ContentRating{OverallScore: 8.0},
	}}
	updater := NewUpdater(repo, &fakeAnalysisRepo{}, rewriter, &fakeSearcher{}, nil)

	result, err := updater.UpdateAndRate(context.Background(), article.ID)
	require.NoError(t, err)
	assert.False(t, result.Improvement.Improved, "equal scores are not an improvement")
	assert.Zero(t, result.Improvement.ScoreDifference)
}

func TestUpdateAndRateUnknownArticle(t *testing.T) {
	t.Parallel()

	updater := NewUpdater(newFakeArticleRepo(), &fakeAnalysisRepo{}, &fakeRewriter{}, &fakeSearcher{}, nil)

	_, err := updater.UpdateAndRate(context.Background(), uuid.New())
	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Article not found", nf.Message)
}

func TestUpdateAndRateSearchFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeArticleRepo()
	article := seedArticle(repo)

	analyses := &fakeAnalysisRepo{}
	searcher := &fakeSearcher{err: apperr.NewUpstream("search request failed", errors.New("quota"))}
	updater := NewUpdater(repo, analyses, &fakeRewriter{}, searcher, nil)

	_, err := updater.UpdateAndRate(context.Background(), article.ID)
	var ue *apperr.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Empty(t, analyses.stored, "no analysis may be stored when references fail")
}
