package scraper

import (
	"context"
	"fmt"
	"time"

	"BlogCurator/internal/domain"
)

// CollectOldest walks listing pages backwards from the highest page number
// and gathers up to limit stubs, ordered oldest-to-newest. Listing pages are
// sorted newest-first top-to-bottom, so the walk takes the front of the
// highest page and the back of every lower page.
//
// The walk assumes the listing does not shift between page fetches; articles
// published mid-walk can skew the page boundaries. Known limitation.
func (s *Site) CollectOldest(ctx context.Context, limit int) ([]domain.ArticleStub, error) {
	if limit <= 0 {
		return []domain.ArticleStub{}, nil
	}

	lastPage, err := s.LastPageNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover last page: %w", err)
	}

	collected := make([]domain.ArticleStub, 0, limit)
	currentPage := lastPage
	needed := limit
	firstPage := true

	for needed > 0 && currentPage >= 1 {
		stubs, err := s.ArticlesFromPage(ctx, currentPage)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", currentPage, err)
		}

		take := needed
		if take > len(stubs) {
			take = len(stubs)
		}

		if firstPage {
			// Oldest page: its top entries are the site's oldest articles.
			collected = append(collected, stubs[:take]...)
			firstPage = false
		} else {
			// Lower-numbered pages: the oldest entries sit at the bottom.
			collected = append(collected, stubs[len(stubs)-take:]...)
		}

		needed -= take
		currentPage--
	}

	return collected, nil
}

// CollectNewest takes the first limit stubs from page 1.
func (s *Site) CollectNewest(ctx context.Context, limit int) ([]domain.ArticleStub, error) {
	if limit <= 0 {
		return []domain.ArticleStub{}, nil
	}

	stubs, err := s.ArticlesFromPage(ctx, 1)
	if err != nil {
		return nil, err
	}

	if limit < len(stubs) {
		stubs = stubs[:limit]
	}
	return stubs, nil
}

// ScrapeOldest collects the limit oldest stubs and completes each one with
// its article page content. A failing item is logged and skipped; the batch
// result may be shorter than limit.
func (s *Site) ScrapeOldest(ctx context.Context, limit int) ([]domain.ScrapedArticle, error) {
	stubs, err := s.CollectOldest(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.completeStubs(ctx, stubs), nil
}

// ScrapeNewest is the page-1-only variant of ScrapeOldest.
func (s *Site) ScrapeNewest(ctx context.Context, limit int) ([]domain.ScrapedArticle, error) {
	stubs, err := s.CollectNewest(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.completeStubs(ctx, stubs), nil
}

func (s *Site) completeStubs(ctx context.Context, stubs []domain.ArticleStub) []domain.ScrapedArticle {
	articles := make([]domain.ScrapedArticle, 0, len(stubs))

	for _, stub := range stubs {
		extracted, err := s.ExtractURL(ctx, stub.URL)
		if err != nil {
			s.logger.Warn("skipping article", "url", stub.URL, "error", err)
			continue
		}

		articles = append(articles, domain.ScrapedArticle{
			Title:         stub.Title,
			Author:        stub.Author,
			URL:           stub.URL,
			Content:       extracted.Content,
			RawContent:    extracted.RawContent,
			Sections:      extracted.Sections,
			PublishedDate: extracted.PublishedDate,
		})

		// Politeness throttle between detail fetches.
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}

	return articles
}

// ExtractURL fetches one article page and structures its content. Fetch
// failures are errors; unstructurable markup degrades to fallback content.
func (s *Site) ExtractURL(ctx context.Context, articleURL string) (domain.ExtractedArticle, error) {
	html, err := s.fetchHTML(ctx, articleURL)
	if err != nil {
		return domain.ExtractedArticle{}, fmt.Errorf("article %s: %w", articleURL, err)
	}
	return ExtractSections(html), nil
}
