package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BlogCurator/internal/ports"
)

// Site crawls a single blog's paginated listing and article pages.
type Site struct {
	client    *http.Client
	baseURL   string
	origin    string
	userAgent string
	delay     time.Duration
	logger    *slog.Logger
}

var _ ports.ArticleScraper = (*Site)(nil)

// NewSite wires an HTTP client against the blog listing root. A nil client
// gets a 20s-timeout default; a zero delay disables the politeness throttle.
func NewSite(client *http.Client, baseURL string, userAgent string, delay time.Duration, logger *slog.Logger) *Site {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseURL = strings.TrimSuffix(baseURL, "/")

	origin := ""
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Host != "" {
		origin = parsed.Scheme + "://" + parsed.Host
	}

	return &Site{
		client:    client,
		baseURL:   baseURL,
		origin:    origin,
		userAgent: userAgent,
		delay:     delay,
		logger:    logger,
	}
}

func (s *Site) pageURL(page int) string {
	if page <= 1 {
		return s.baseURL
	}
	return fmt.Sprintf("%s/page/%d/", s.baseURL, page)
}

// resolveURL turns listing hrefs into absolute URLs against the site origin.
func (s *Site) resolveURL(href string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return s.origin + href
}

func (s *Site) fetchHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("site returned %s for %s", resp.Status, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}

	return string(body), nil
}

func (s *Site) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := s.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
