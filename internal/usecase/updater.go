package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

// referenceCount is how many reference pages back one rewrite pass.
const referenceCount = 2

// Updater runs the combined AI update-and-rate flow over stored articles.
type Updater struct {
	articles ports.ArticleRepository
	analyses ports.AnalysisRepository
	rewriter ports.ContentRewriter
	searcher ports.ReferenceSearcher
	logger   *slog.Logger
}

// NewUpdater wires repositories with the AI and search collaborators.
func NewUpdater(
	articles ports.ArticleRepository,
	analyses ports.AnalysisRepository,
	rewriter ports.ContentRewriter,
	searcher ports.ReferenceSearcher,
	logger *slog.Logger,
) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		articles: articles,
		analyses: analyses,
		rewriter: rewriter,
		searcher: searcher,
		logger:   logger,
	}
}

// OriginalResult echoes the source article with its rating.
type OriginalResult struct {
	ID         uuid.UUID            `json:"id"`
	Title      string               `json:"title"`
	RawContent string               `json:"rawContent"`
	Rating     domain.ContentRating `json:"rating"`
}

// UpdatedResult carries the rewritten body with its rating.
type UpdatedResult struct {
	Title          string               `json:"title"`
	RawContent     string               `json:"rawContent"`
	ChangesApplied []string             `json:"changesApplied"`
	NewInsights    []string             `json:"newInsights"`
	Rating         domain.ContentRating `json:"rating"`
}

// UpdateResult is the response aggregate of one update-and-rate pass.
type UpdateResult struct {
	AnalysisID  uuid.UUID          `json:"analysisId"`
	Original    OriginalResult     `json:"original"`
	References  []domain.Reference `json:"references"`
	Updated     UpdatedResult      `json:"updated"`
	Improvement domain.Improvement `json:"improvement"`
}

// UpdateAndRate loads one article, gathers references, performs a single
// combined AI call and persists the resulting analysis.
func (u *Updater) UpdateAndRate(ctx context.Context, articleID uuid.UUID) (UpdateResult, error) {
	article, err := u.articles.FindByID(ctx, articleID)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("load article: %w", err)
	}
	if article == nil {
		return UpdateResult{}, apperr.NewNotFound("Article not found")
	}

	references, err := u.searcher.PredictTopWebsites(ctx, article.Title, referenceCount)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("gather references: %w", err)
	}

	snapshot := domain.ArticleSnapshot{
		ID:         article.ID,
		Title:      article.Title,
		RawContent: article.RawContent,
	}

	result, err := u.rewriter.UpdateAndRate(ctx, snapshot, references)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("ai update and rate: %w", err)
	}

	ratings := domain.RatingPair{
		Original: result.OriginalRating,
		Updated:  result.UpdatedRating,
	}
	improvement := domain.NewImprovement(ratings)

	analysis, err := u.analyses.Insert(ctx, domain.ArticleAnalysis{
		ID:              uuid.New(),
		OriginalArticle: snapshot,
		UpdatedArticle: domain.UpdatedSnapshot{
			Title:      result.UpdatedTitle,
			RawContent: result.UpdatedRawContent,
		},
		References:     references,
		ChangesApplied: result.ChangesApplied,
		NewInsights:    result.NewInsights,
		Ratings:        ratings,
		Improvement:    improvement,
	})
	if err != nil {
		return UpdateResult{}, fmt.Errorf("persist analysis: %w", err)
	}

	return UpdateResult{
		AnalysisID: analysis.ID,
		Original: OriginalResult{
			ID:         article.ID,
			Title:      article.Title,
			RawContent: article.RawContent,
			Rating:     result.OriginalRating,
		},
		References: references,
		Updated: UpdatedResult{
			Title:          result.UpdatedTitle,
			RawContent:     result.UpdatedRawContent,
			ChangesApplied: result.ChangesApplied,
			NewInsights:    result.NewInsights,
			Rating:         result.UpdatedRating,
		},
		Improvement: improvement,
	}, nil
}
