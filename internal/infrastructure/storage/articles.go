package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

var articleColumns = []string{
	"id", "title", "author", "published_date", "url",
	"content", "raw_content", "sections", "created_at", "updated_at",
}

// ArticleRepository implements ports.ArticleRepository on Postgres.
type ArticleRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func scanArticle(row sq.RowScanner) (domain.Article, error) {
	var a domain.Article
	var sections []byte

	err := row.Scan(&a.ID, &a.Title, &a.Author, &a.PublishedDate, &a.URL,
		&a.Content, &a.RawContent, &sections, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return domain.Article{}, err
	}

	if err := unmarshalJSONB(sections, &a.Sections); err != nil {
		return domain.Article{}, err
	}
	if a.Sections == nil {
		a.Sections = []domain.Section{}
	}
	return a, nil
}

// FindByURL returns (nil, nil) when no article has the URL.
func (r *ArticleRepository) FindByURL(ctx context.Context, url string) (*domain.Article, error) {
	row := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"url": url}).
		RunWith(r.db).
		QueryRowContext(ctx)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by url: %w", err)
	}
	return &a, nil
}

// FindByID returns (nil, nil) when the ID is unknown.
func (r *ArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row := psql.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		RunWith(r.db).
		QueryRowContext(ctx)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return &a, nil
}

// Insert stores a new article and returns it with the database timestamps.
func (r *ArticleRepository) Insert(ctx context.Context, article domain.Article) (domain.Article, error) {
	sections, err := marshalJSONB(article.Sections)
	if err != nil {
		return domain.Article{}, err
	}

	row := psql.Insert("articles").
		Columns("id", "title", "author", "published_date", "url", "content", "raw_content", "sections").
		Values(article.ID, article.Title, article.Author, article.PublishedDate,
			article.URL, article.Content, article.RawContent, sections).
		Suffix("RETURNING " + joinColumns(articleColumns)).
		RunWith(r.db).
		QueryRowContext(ctx)

	stored, err := scanArticle(row)
	if err != nil {
		return domain.Article{}, fmt.Errorf("insert article: %w", err)
	}
	return stored, nil
}

// UpdateByID applies the non-nil patch fields and bumps updated_at. Returns
// (nil, nil) when the ID is unknown.
func (r *ArticleRepository) UpdateByID(ctx context.Context, id uuid.UUID, patch domain.ArticlePatch) (*domain.Article, error) {
	update := psql.Update("articles").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})

	if patch.Title != nil {
		update = update.Set("title", *patch.Title)
	}
	if patch.Author != nil {
		update = update.Set("author", *patch.Author)
	}
	if patch.PublishedDate != nil {
		update = update.Set("published_date", *patch.PublishedDate)
	}
	if patch.Content != nil {
		update = update.Set("content", *patch.Content)
	}
	if patch.RawContent != nil {
		update = update.Set("raw_content", *patch.RawContent)
	}
	if patch.Sections != nil {
		sections, err := marshalJSONB(patch.Sections)
		if err != nil {
			return nil, err
		}
		update = update.Set("sections", sections)
	}

	row := update.
		Suffix("RETURNING " + joinColumns(articleColumns)).
		RunWith(r.db).
		QueryRowContext(ctx)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return &a, nil
}

// DeleteByID removes the article and returns the deleted record, or
// (nil, nil) when the ID is unknown. Analyses cascade with the row.
func (r *ArticleRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row := psql.Delete("articles").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(articleColumns)).
		RunWith(r.db).
		QueryRowContext(ctx)

	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete article: %w", err)
	}
	return &a, nil
}

// List returns one page of articles, newest published first, plus the total
// article count.
func (r *ArticleRepository) List(ctx context.Context, page, limit int) ([]domain.Article, int, error) {
	page, limit = normalizePage(page, limit)

	total, err := r.countArticles(ctx, nil)
	if err != nil {
		return nil, 0, err
	}

	rows, err := psql.Select(articleColumns...).
		From("articles").
		OrderBy("published_date DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListWithAnalyses decorates each page row with its latest analysis ID so the
// listing endpoint does not issue a lookup per article.
func (r *ArticleRepository) ListWithAnalyses(ctx context.Context, page, limit int) ([]domain.ArticleListItem, int, error) {
	page, limit = normalizePage(page, limit)

	total, err := r.countArticles(ctx, nil)
	if err != nil {
		return nil, 0, err
	}

	columns := make([]string, 0, len(articleColumns)+1)
	for _, c := range articleColumns {
		columns = append(columns, "a."+c)
	}
	columns = append(columns, "latest.id AS latest_analysis_id")

	rows, err := psql.Select(columns...).
		From("articles a").
		JoinClause(`LEFT JOIN LATERAL (
			SELECT id FROM article_analyses
			WHERE article_id = a.id
			ORDER BY created_at DESC
			LIMIT 1
		) latest ON TRUE`).
		OrderBy("a.published_date DESC", "a.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles with analyses: %w", err)
	}
	defer rows.Close()

	var items []domain.ArticleListItem
	for rows.Next() {
		var item domain.ArticleListItem
		var sections []byte
		var latest uuid.NullUUID

		err := rows.Scan(&item.ID, &item.Title, &item.Author, &item.PublishedDate, &item.URL,
			&item.Content, &item.RawContent, &sections, &item.CreatedAt, &item.UpdatedAt, &latest)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article row: %w", err)
		}
		if err := unmarshalJSONB(sections, &item.Sections); err != nil {
			return nil, 0, err
		}
		if item.Sections == nil {
			item.Sections = []domain.Section{}
		}
		if latest.Valid {
			id := latest.UUID
			item.HasAnalysis = true
			item.LatestAnalysisID = &id
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	if items == nil {
		items = []domain.ArticleListItem{}
	}
	return items, total, nil
}

// Search matches the query case-insensitively against title, content and
// author, newest published first.
func (r *ArticleRepository) Search(ctx context.Context, query string, page, limit int) ([]domain.Article, int, error) {
	page, limit = normalizePage(page, limit)

	pattern := "%" + query + "%"
	match := sq.Or{
		sq.ILike{"title": pattern},
		sq.ILike{"content": pattern},
		sq.ILike{"author": pattern},
	}

	total, err := r.countArticles(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	rows, err := psql.Select(articleColumns...).
		From("articles").
		Where(match).
		OrderBy("published_date DESC", "created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *ArticleRepository) countArticles(ctx context.Context, where sq.Sqlizer) (int, error) {
	count := psql.Select("COUNT(*)").From("articles")
	if where != nil {
		count = count.Where(where)
	}

	var total int
	if err := count.RunWith(r.db).QueryRowContext(ctx).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

func collectArticles(rows *sql.Rows) ([]domain.Article, error) {
	articles := []domain.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article row: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}
