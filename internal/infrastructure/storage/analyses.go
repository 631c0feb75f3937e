package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

var analysisColumns = []string{
	"id", "article_id", "original_title", "original_raw_content",
	"updated_title", "updated_raw_content", "reference_links",
	"changes_applied", "new_insights", "ratings",
	"score_difference", "improved", "created_at",
}

// AnalysisRepository implements ports.AnalysisRepository on Postgres.
type AnalysisRepository struct {
	db *sql.DB
}

var _ ports.AnalysisRepository = (*AnalysisRepository)(nil)

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func scanAnalysis(row sq.RowScanner) (domain.ArticleAnalysis, error) {
	var a domain.ArticleAnalysis
	var refs, ratings []byte
	var changes, insights pq.StringArray

	err := row.Scan(&a.ID, &a.OriginalArticle.ID, &a.OriginalArticle.Title, &a.OriginalArticle.RawContent,
		&a.UpdatedArticle.Title, &a.UpdatedArticle.RawContent, &refs,
		&changes, &insights, &ratings,
		&a.Improvement.ScoreDifference, &a.Improvement.Improved, &a.CreatedAt)
	if err != nil {
		return domain.ArticleAnalysis{}, err
	}

	if err := unmarshalJSONB(refs, &a.References); err != nil {
		return domain.ArticleAnalysis{}, err
	}
	if err := unmarshalJSONB(ratings, &a.Ratings); err != nil {
		return domain.ArticleAnalysis{}, err
	}
	a.ChangesApplied = []string(changes)
	a.NewInsights = []string(insights)
	if a.References == nil {
		a.References = []domain.Reference{}
	}
	return a, nil
}

// Insert stores one immutable analysis record.
func (r *AnalysisRepository) Insert(ctx context.Context, analysis domain.ArticleAnalysis) (domain.ArticleAnalysis, error) {
	refs, err := marshalJSONB(analysis.References)
	if err != nil {
		return domain.ArticleAnalysis{}, err
	}
	ratings, err := marshalJSONB(analysis.Ratings)
	if err != nil {
		return domain.ArticleAnalysis{}, err
	}

	row := psql.Insert("article_analyses").
		Columns("id", "article_id", "original_title", "original_raw_content",
			"updated_title", "updated_raw_content", "reference_links",
			"changes_applied", "new_insights", "ratings", "score_difference", "improved").
		Values(analysis.ID, analysis.OriginalArticle.ID, analysis.OriginalArticle.Title, analysis.OriginalArticle.RawContent,
			analysis.UpdatedArticle.Title, analysis.UpdatedArticle.RawContent, refs,
			pq.StringArray(analysis.ChangesApplied), pq.StringArray(analysis.NewInsights), ratings,
			analysis.Improvement.ScoreDifference, analysis.Improvement.Improved).
		Suffix("RETURNING " + joinColumns(analysisColumns)).
		RunWith(r.db).
		QueryRowContext(ctx)

	stored, err := scanAnalysis(row)
	if err != nil {
		return domain.ArticleAnalysis{}, fmt.Errorf("insert analysis: %w", err)
	}
	return stored, nil
}

// FindByID returns (nil, nil) when the ID is unknown.
func (r *AnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ArticleAnalysis, error) {
	row := psql.Select(analysisColumns...).
		From("article_analyses").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		QueryRowContext(ctx)

	a, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find analysis by id: %w", err)
	}
	return &a, nil
}

// List returns one page of analyses, newest first, plus the total count.
func (r *AnalysisRepository) List(ctx context.Context, page, limit int) ([]domain.ArticleAnalysis, int, error) {
	page, limit = normalizePage(page, limit)

	var total int
	err := psql.Select("COUNT(*)").
		From("article_analyses").
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count analyses: %w", err)
	}

	rows, err := psql.Select(analysisColumns...).
		From("article_analyses").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	analyses, err := collectAnalyses(rows)
	if err != nil {
		return nil, 0, err
	}
	return analyses, total, nil
}

// ListByArticle returns every analysis of one article, newest first.
func (r *AnalysisRepository) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.ArticleAnalysis, error) {
	rows, err := psql.Select(analysisColumns...).
		From("article_analyses").
		Where(sq.Eq{"article_id": articleID}).
		OrderBy("created_at DESC").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analyses by article: %w", err)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

func collectAnalyses(rows *sql.Rows) ([]domain.ArticleAnalysis, error) {
	analyses := []domain.ArticleAnalysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return analyses, nil
}
