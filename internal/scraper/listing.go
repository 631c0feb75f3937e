package scraper

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"BlogCurator/internal/domain"
)

const (
	containerSelector  = ".post-item, article, .blog-post, [class*=\"post\"]"
	titleLinkSelector  = "h2 a, h3 a, .post-title a, [class*=\"title\"] a"
	authorSelector     = "[class*=\"author\"], .by-author, .author-name"
	dateSelector       = "[class*=\"date\"], time, .post-date"
	paginationSelector = ".pagination a, .page-numbers a"
	altPageSelector    = "nav a, .nav-links a, [class*=\"pagination\"] a"
)

var pageHrefExpr = regexp.MustCompile(`/page/(\d+)`)

// ArticlesFromPage fetches one listing page and parses its article stubs.
func (s *Site) ArticlesFromPage(ctx context.Context, page int) ([]domain.ArticleStub, error) {
	doc, err := s.fetchDocument(ctx, s.pageURL(page))
	if err != nil {
		return nil, fmt.Errorf("listing page %d: %w", page, err)
	}
	return s.parseListingPage(doc), nil
}

// parseListingPage extracts stubs from every candidate article container.
// Duplicate URLs collapse to the first occurrence, order preserved.
func (s *Site) parseListingPage(doc *goquery.Document) []domain.ArticleStub {
	stubs := make([]domain.ArticleStub, 0)
	seen := map[string]struct{}{}

	doc.Find(containerSelector).Each(func(_ int, container *goquery.Selection) {
		link := container.Find(titleLinkSelector).First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		author := strings.TrimSpace(container.Find(authorSelector).First().Text())
		if author == "" {
			author = "Unknown"
		}

		dateEl := container.Find(dateSelector).First()
		dateText := strings.TrimSpace(dateEl.Text())
		if dateText == "" {
			dateText, _ = dateEl.Attr("datetime")
		}

		stub := domain.ArticleStub{
			Title:    title,
			Author:   author,
			DateText: dateText,
			URL:      s.resolveURL(href),
		}

		if _, ok := seen[stub.URL]; ok {
			return
		}
		seen[stub.URL] = struct{}{}
		stubs = append(stubs, stub)
	})

	return stubs
}

// LastPageNumber discovers the highest listing page number. Plain numeric
// pagination labels are preferred; /page/<n>/ hrefs are the fallback. A
// listing with no discoverable pagination reports page 1.
func (s *Site) LastPageNumber(ctx context.Context) (int, error) {
	doc, err := s.fetchDocument(ctx, s.baseURL)
	if err != nil {
		return 0, fmt.Errorf("listing root: %w", err)
	}

	maxPage := 1

	doc.Find(paginationSelector).Each(func(_ int, anchor *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(anchor.Text())); err == nil && n > maxPage {
			maxPage = n
		}
	})

	if maxPage == 1 {
		doc.Find(altPageSelector).Each(func(_ int, anchor *goquery.Selection) {
			href, _ := anchor.Attr("href")
			match := pageHrefExpr.FindStringSubmatch(href)
			if match == nil {
				return
			}
			if n, err := strconv.Atoi(match[1]); err == nil && n > maxPage {
				maxPage = n
			}
		})
	}

	return maxPage, nil
}
