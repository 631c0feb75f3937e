package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"BlogCurator/internal/domain"
)

type fakeArticleRepo struct {
	byURL     map[string]domain.Article
	byID      map[uuid.UUID]domain.Article
	inserts   int
	failURL   string
	failFind  bool
	lastOrder []string
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{
		byURL: map[string]domain.Article{},
		byID:  map[uuid.UUID]domain.Article{},
	}
}

func (f *fakeArticleRepo) FindByURL(_ context.Context, url string) (*domain.Article, error) {
	if f.failFind {
		return nil, errors.New("find failed")
	}
	if article, ok := f.byURL[url]; ok {
		return &article, nil
	}
	return nil, nil
}

func (f *fakeArticleRepo) Insert(_ context.Context, article domain.Article) (domain.Article, error) {
	if article.URL == f.failURL {
		return domain.Article{}, errors.New("insert failed")
	}
	article.CreatedAt = time.Now().UTC()
	article.UpdatedAt = article.CreatedAt
	f.byURL[article.URL] = article
	f.byID[article.ID] = article
	f.inserts++
	f.lastOrder = append(f.lastOrder, article.URL)
	return article, nil
}

func (f *fakeArticleRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	if article, ok := f.byID[id]; ok {
		return &article, nil
	}
	return nil, nil
}

func (f *fakeArticleRepo) UpdateByID(_ context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	article, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if patch.Title != nil {
		article.Title = *patch.Title
	}
	if patch.Content != nil {
		article.Content = *patch.Content
	}
	f.byID[id] = article
	f.byURL[article.URL] = article
	return &article, nil
}

func (f *fakeArticleRepo) DeleteByID(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	article, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	delete(f.byID, id)
	delete(f.byURL, article.URL)
	return &article, nil
}

func (f *fakeArticleRepo) List(context.Context, int, int) ([]domain.Article, int, error) {
	return nil, 0, nil
}

func (f *fakeArticleRepo) ListWithAnalyses(context.Context, int, int) ([]domain.ArticleListItem, int, error) {
	return nil, 0, nil
}

func (f *fakeArticleRepo) Search(context.Context, string, int, int) ([]domain.Article, int, error) {
	return nil, 0, nil
}

type fakeAnalysisRepo struct {
	stored []domain.ArticleAnalysis
}

func (f *fakeAnalysisRepo) Insert(_ context.Context, analysis domain.ArticleAnalysis) (domain.ArticleAnalysis, error) {
	analysis.CreatedAt = time.Now().UTC()
	f.stored = append(f.stored, analysis)
	return analysis, nil
}

func (f *fakeAnalysisRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.ArticleAnalysis, error) {
	for _, analysis := range f.stored {
		if analysis.ID == id {
			return &analysis, nil
		}
	}
	return nil, nil
}

func (f *fakeAnalysisRepo) List(context.Context, int, int) ([]domain.ArticleAnalysis, int, error) {
	return f.stored, len(f.stored), nil
}

func (f *fakeAnalysisRepo) ListByArticle(_ context.Context, articleID uuid.UUID) ([]domain.ArticleAnalysis, error) {
	var out []domain.ArticleAnalysis
	for _, analysis := range f.stored {
		if analysis.OriginalArticle.ID == articleID {
			out = append(out, analysis)
		}
	}
	return out, nil
}

type fakeScraper struct {
	oldest []domain.ScrapedArticle
	newest []domain.ScrapedArticle
	err    error
}

func (f *fakeScraper) ScrapeOldest(context.Context, int) ([]domain.ScrapedArticle, error) {
	return f.oldest, f.err
}

func (f *fakeScraper) ScrapeNewest(context.Context, int) ([]domain.ScrapedArticle, error) {
	return f.newest, f.err
}

func (f *fakeScraper) ExtractURL(context.Context, string) (domain.ExtractedArticle, error) {
	return domain.ExtractedArticle{}, errors.New("not implemented")
}

type fakeSearcher struct {
	refs []domain.Reference
	err  error
}

func (f *fakeSearcher) PredictTopWebsites(context.Context, string, int) ([]domain.Reference, error) {
	return f.refs, f.err
}

type fakeRewriter struct {
	result domain.RewriteResult
	err    error
}

func (f *fakeRewriter) UpdateAndRate(context.Context, domain.ArticleSnapshot, []domain.Reference) (domain.RewriteResult, error) {
	return f.result, f.err
}

func (f *fakeRewriter) Rate(context.Context, string, string) (domain.ContentRating, error) {
	return f.result.OriginalRating, f.err
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.messages = append(f.messages, digest)
	return nil
}

// immediateScheduler runs the job exactly once, synchronously.
type immediateScheduler struct{}

func (immediateScheduler) Start(_ context.Context, job func(time.Time)) error {
	job(time.Now())
	return nil
}

func (immediateScheduler) Stop(context.Context) error { return nil }
