package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

const defaultReason = "Relevant article found via Google Search"

// GoogleClient implements ports.ReferenceSearcher against the Google Custom
// Search JSON API.
type GoogleClient struct {
	endpoint string
	apiKey   string
	engineID string
	client   *http.Client
}

var _ ports.ReferenceSearcher = (*GoogleClient)(nil)

func NewGoogleClient(apiKey, engineID string) *GoogleClient {
	return &GoogleClient{
		endpoint: "https://www.googleapis.com/customsearch/v1",
		apiKey:   apiKey,
		engineID: engineID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type searchResponse struct {
	Items []struct {
		Link    string `json:"link"`
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// PredictTopWebsites returns up to limit reference pages for the query.
// A query with no hits is not an error, it yields an empty slice.
func (c *GoogleClient) PredictTopWebsites(ctx context.Context, query string, limit int) ([]domain.Reference, error) {
	if c.apiKey == "" || c.engineID == "" {
		return nil, apperr.NewUpstream("search client misconfigured: missing API key or engine ID", nil)
	}
	if limit <= 0 {
		return []domain.Reference{}, nil
	}

	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.engineID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperr.NewUpstream("search request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.NewUpstream(
			fmt.Sprintf("search error %s: %s", resp.Status, strings.TrimSpace(string(detail))), nil)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperr.NewUpstream("decode search response", err)
	}

	refs := make([]domain.Reference, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.Link == "" {
			continue
		}
		reason := strings.TrimSpace(item.Snippet)
		if reason == "" {
			reason = defaultReason
		}
		refs = append(refs, domain.Reference{
			URL:    item.Link,
			Title:  item.Title,
			Reason: reason,
		})
		if len(refs) == limit {
			break
		}
	}
	return refs, nil
}
