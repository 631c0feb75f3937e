package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
	"BlogCurator/internal/usecase"
)

const defaultScrapeLimit = 5

// Handler exposes the article, analysis and internal operation endpoints.
type Handler struct {
	articles ports.ArticleRepository
	analyses ports.AnalysisRepository
	scraper  ports.ArticleScraper
	searcher ports.ReferenceSearcher
	ingestor *usecase.Ingestor
	updater  *usecase.Updater

	dev    bool
	logger *slog.Logger
}

func NewHandler(
	articles ports.ArticleRepository,
	analyses ports.AnalysisRepository,
	scraper ports.ArticleScraper,
	searcher ports.ReferenceSearcher,
	ingestor *usecase.Ingestor,
	updater *usecase.Updater,
	dev bool,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		articles: articles,
		analyses: analyses,
		scraper:  scraper,
		searcher: searcher,
		ingestor: ingestor,
		updater:  updater,
		dev:      dev,
		logger:   logger.With("component", "http"),
	}
}

func (h *Handler) detail(err error) string {
	if h.dev && err != nil {
		return err.Error()
	}
	return ""
}

// fail maps domain errors onto status codes: NotFound 404, Validation 400,
// anything else 500 with the fallback message.
func (h *Handler) fail(c echo.Context, err error, fallback string) error {
	var notFound *apperr.NotFoundError
	if errors.As(err, &notFound) {
		return respondError(c, http.StatusNotFound, notFound.Message, "")
	}

	var validation *apperr.ValidationError
	if errors.As(err, &validation) {
		return respondError(c, http.StatusBadRequest, validation.Message, "")
	}

	h.logger.Error(fallback, "error", err)

	var upstream *apperr.UpstreamError
	if errors.As(err, &upstream) {
		return respondError(c, http.StatusInternalServerError, upstream.Message, h.detail(err))
	}
	return respondError(c, http.StatusInternalServerError, fallback, h.detail(err))
}

func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}

func articleID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidation("Invalid article ID")
	}
	return id, nil
}

func (h *Handler) health(c echo.Context) error {
	return respondMessage(c, http.StatusOK, nil, "Blog curator API is running")
}

func (h *Handler) listArticles(c echo.Context) error {
	page, limit := pageParams(c)

	items, total, err := h.articles.ListWithAnalyses(c.Request().Context(), page, limit)
	if err != nil {
		return h.fail(c, err, "Error fetching articles")
	}

	return respondPage(c, http.StatusOK, items, ArticlePagination{
		CurrentPage:   page,
		TotalPages:    totalPages(total, limit),
		TotalArticles: total,
	})
}

func (h *Handler) searchArticles(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return respondError(c, http.StatusBadRequest, `Query parameter "q" is required`, "")
	}
	page, limit := pageParams(c)

	articles, total, err := h.articles.Search(c.Request().Context(), q, page, limit)
	if err != nil {
		return h.fail(c, err, "Error searching articles")
	}

	return respondPage(c, http.StatusOK, articles, ArticlePagination{
		CurrentPage:   page,
		TotalPages:    totalPages(total, limit),
		TotalArticles: total,
	})
}

func (h *Handler) getArticle(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return h.fail(c, err, "Error fetching article")
	}

	article, err := h.articles.FindByID(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "Error fetching article")
	}
	if article == nil {
		return respondError(c, http.StatusNotFound, "Article not found", "")
	}
	return respondData(c, http.StatusOK, article)
}

type createArticleRequest struct {
	Title         string           `json:"title"`
	Author        string           `json:"author"`
	PublishedDate *time.Time       `json:"publishedDate"`
	URL           string           `json:"url"`
	Content       string           `json:"content"`
	RawContent    string           `json:"rawContent"`
	Sections      []domain.Section `json:"sections"`
}

func (h *Handler) createArticle(c echo.Context) error {
	var req createArticleRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", h.detail(err))
	}
	if req.Title == "" || req.Author == "" || req.URL == "" || req.Content == "" || req.RawContent == "" {
		return respondError(c, http.StatusBadRequest,
			"Missing required fields: title, author, url, content, rawContent", "")
	}

	draft := domain.Article{
		Title:      req.Title,
		Author:     req.Author,
		URL:        req.URL,
		Content:    req.Content,
		RawContent: req.RawContent,
		Sections:   req.Sections,
	}
	if req.PublishedDate != nil {
		draft.PublishedDate = *req.PublishedDate
	}

	// Duplicate URLs are a no-op: the stored record comes back unchanged.
	article, err := h.ingestor.Create(c.Request().Context(), draft)
	if err != nil {
		return h.fail(c, err, "Error creating article")
	}
	return respondMessage(c, http.StatusCreated, article, "Article created successfully")
}

func (h *Handler) updateArticle(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return h.fail(c, err, "Error updating article")
	}

	var patch domain.ArticlePatch
	if err := c.Bind(&patch); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", h.detail(err))
	}

	article, err := h.articles.UpdateByID(c.Request().Context(), id, patch)
	if err != nil {
		return h.fail(c, err, "Error updating article")
	}
	if article == nil {
		return respondError(c, http.StatusNotFound, "Article not found", "")
	}
	return respondMessage(c, http.StatusOK, article, "Article updated successfully")
}

func (h *Handler) deleteArticle(c echo.Context) error {
	id, err := articleID(c)
	if err != nil {
		return h.fail(c, err, "Error deleting article")
	}

	article, err := h.articles.DeleteByID(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "Error deleting article")
	}
	if article == nil {
		return respondError(c, http.StatusNotFound, "Article not found", "")
	}
	return respondMessage(c, http.StatusOK, article, "Article deleted successfully")
}

func (h *Handler) listAnalyses(c echo.Context) error {
	page, limit := pageParams(c)

	analyses, total, err := h.analyses.List(c.Request().Context(), page, limit)
	if err != nil {
		return h.fail(c, err, "Failed to fetch analyses")
	}

	return respondPage(c, http.StatusOK, analyses, AnalysisPagination{
		CurrentPage:   page,
		TotalPages:    totalPages(total, limit),
		TotalAnalyses: total,
	})
}

func (h *Handler) getAnalysis(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid analysis ID", "")
	}

	analysis, err := h.analyses.FindByID(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "Failed to fetch analysis")
	}
	if analysis == nil {
		return respondError(c, http.StatusNotFound, "Analysis not found", "")
	}
	return respondData(c, http.StatusOK, analysis)
}

func (h *Handler) listAnalysesByArticle(c echo.Context) error {
	id, err := uuid.Parse(c.Param("articleId"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid article ID", "")
	}

	analyses, err := h.analyses.ListByArticle(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "Failed to fetch article analyses")
	}
	return respondData(c, http.StatusOK, analyses)
}

type scrapeAndStoreRequest struct {
	Limit int `json:"limit"`
}

func (h *Handler) scrapeAndStore(c echo.Context) error {
	var req scrapeAndStoreRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", h.detail(err))
	}
	if req.Limit <= 0 {
		req.Limit = defaultScrapeLimit
	}

	report, err := h.ingestor.ScrapeAndStoreOldest(c.Request().Context(), req.Limit)
	if err != nil {
		return h.fail(c, err, "Error scraping and storing articles")
	}
	if report.ScrapedCount == 0 {
		return respondError(c, http.StatusBadRequest, "No articles were scraped", "")
	}

	message := "Successfully scraped and stored " + strconv.Itoa(report.StoredCount) + " articles"
	return respondMessage(c, http.StatusOK, report, message)
}

type scrapeURLRequest struct {
	URL string `json:"url"`
}

func (h *Handler) scrapeURL(c echo.Context) error {
	var req scrapeURLRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", h.detail(err))
	}
	if req.URL == "" {
		return respondError(c, http.StatusBadRequest, "URL is required", "")
	}

	extracted, err := h.scraper.ExtractURL(c.Request().Context(), req.URL)
	if err != nil {
		return h.fail(c, err, "Error scraping URL")
	}
	return respondMessage(c, http.StatusOK, extracted, "Content extracted successfully")
}

type predictArticlesRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (h *Handler) predictArticles(c echo.Context) error {
	var req predictArticlesRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", h.detail(err))
	}
	if req.Query == "" {
		return respondError(c, http.StatusBadRequest, "Search query is required", "")
	}
	if req.Limit <= 0 {
		req.Limit = 2
	}

	refs, err := h.searcher.PredictTopWebsites(c.Request().Context(), req.Query, req.Limit)
	if err != nil {
		return h.fail(c, err, "Article prediction error")
	}

	message := "Found " + strconv.Itoa(len(refs)) + " article URLs"
	return respondMessage(c, http.StatusOK, refs, message)
}

type updateAndRateRequest struct {
	ArticleID string `json:"articleId"`
}

func (h *Handler) updateAndRate(c echo.Context) error {
	var req updateAndRateRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", h.detail(err))
	}
	if req.ArticleID == "" {
		return respondError(c, http.StatusBadRequest, "Article ID is required", "")
	}
	id, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid article ID", "")
	}

	result, err := h.updater.UpdateAndRate(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err, "Error updating and rating content")
	}
	return respondMessage(c, http.StatusOK, result, "Content updated and rated successfully")
}

func (h *Handler) scrapeStatus(c echo.Context) error {
	endpoints := map[string]string{
		"scrapeAndStore":  "POST /internal/scrape-and-store",
		"scrapeUrl":       "POST /internal/scrape-url",
		"predictArticles": "POST /internal/predict-articles",
		"updateAndRate":   "POST /internal/update-and-rate",
		"scrapeStatus":    "GET /internal/scrape-status",
	}
	return respondMessage(c, http.StatusOK, map[string]any{"endpoints": endpoints},
		"Scraper service is operational")
}
