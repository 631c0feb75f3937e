package domain

import (
	"time"

	"github.com/google/uuid"
)

// FallbackContent is stored when no structured content could be recovered
// from an article page.
const FallbackContent = "Content not available"

// Section is a titled block of paragraph text delimited by headings.
type Section struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs"`
}

// ArticleStub is a listing-page reference to an article before its detail
// page has been fetched. Identity is the absolute URL.
type ArticleStub struct {
	Title    string
	Author   string
	DateText string
	URL      string
}

// ExtractedArticle is the result of structuring a single article page.
type ExtractedArticle struct {
	Content       string    `json:"content"`
	Sections      []Section `json:"sections"`
	RawContent    string    `json:"rawContent"`
	PublishedDate time.Time `json:"publishedDate"`
}

// ScrapedArticle merges listing metadata with extracted detail content.
type ScrapedArticle struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	URL           string    `json:"url"`
	Content       string    `json:"content"`
	RawContent    string    `json:"rawContent"`
	Sections      []Section `json:"sections"`
	PublishedDate time.Time `json:"publishedDate"`
}

// Article is the persisted entity. At most one exists per URL; creating a
// duplicate returns the stored record unchanged.
type Article struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedDate time.Time `json:"publishedDate"`
	URL           string    `json:"url"`
	Content       string    `json:"content"`
	RawContent    string    `json:"rawContent"`
	Sections      []Section `json:"sections"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ArticleListItem decorates an Article with analysis metadata so list
// responses do not trigger a per-row analysis lookup.
type ArticleListItem struct {
	Article
	HasAnalysis      bool       `json:"hasAnalysis"`
	LatestAnalysisID *uuid.UUID `json:"latestAnalysisId"`
}

// ArticlePatch carries optional field updates; nil means "leave unchanged".
type ArticlePatch struct {
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	PublishedDate *time.Time `json:"publishedDate"`
	Content       *string    `json:"content"`
	RawContent    *string    `json:"rawContent"`
	Sections      []Section  `json:"sections"`
}
