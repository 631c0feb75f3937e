package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/domain"
	"BlogCurator/internal/ports"
)

// GeminiClient implements ports.ContentRewriter against the Vertex AI
// generateContent API.
type GeminiClient struct {
	baseURL   string
	projectID string
	location  string
	model     string
	tokens    ports.TokenSource

	// The combined rewrite call does much more work than a plain rating
	// call and gets the longer deadline.
	updateClient *http.Client
	rateClient   *http.Client
}

var _ ports.ContentRewriter = (*GeminiClient)(nil)

// NewGeminiClient builds a client for one project/location/model triple.
func NewGeminiClient(projectID, location, model string, tokens ports.TokenSource) *GeminiClient {
	return &GeminiClient{
		baseURL:      fmt.Sprintf("https://%s-aiplatform.googleapis.com", location),
		projectID:    projectID,
		location:     location,
		model:        model,
		tokens:       tokens,
		updateClient: &http.Client{Timeout: 90 * time.Second},
		rateClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"topP"`
	TopK        int     `json:"topK"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// UpdateAndRate performs the combined rate-rewrite-rerate pass in a single
// model call.
func (c *GeminiClient) UpdateAndRate(ctx context.Context, original domain.ArticleSnapshot, refs []domain.Reference) (domain.RewriteResult, error) {
	prompt := buildUpdatePrompt(original, refs)

	answer, err := c.generate(ctx, c.updateClient, prompt, generationConfig{Temperature: 0.7, TopP: 0.9, TopK: 40})
	if err != nil {
		return domain.RewriteResult{}, err
	}

	var result domain.RewriteResult
	if err := decodeLoose(extractObject(answer), &result); err != nil {
		return domain.RewriteResult{}, apperr.NewUpstream("ai answer is not valid JSON", err)
	}
	return result, nil
}

// Rate scores a single article version without rewriting it.
func (c *GeminiClient) Rate(ctx context.Context, title, rawContent string) (domain.ContentRating, error) {
	prompt := buildRatePrompt(title, rawContent)

	answer, err := c.generate(ctx, c.rateClient, prompt, generationConfig{Temperature: 0.3, TopP: 0.8, TopK: 40})
	if err != nil {
		return domain.ContentRating{}, err
	}

	var rating domain.ContentRating
	if err := decodeLoose(extractObject(answer), &rating); err != nil {
		return domain.ContentRating{}, apperr.NewUpstream("ai answer is not valid JSON", err)
	}
	return rating, nil
}

func (c *GeminiClient) generate(ctx context.Context, client *http.Client, prompt string, cfg generationConfig) (string, error) {
	if c.tokens == nil {
		return "", apperr.NewUpstream("ai client misconfigured: no token source", nil)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", apperr.NewUpstream("mint access token", err)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
		c.baseURL, c.projectID, c.location, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", apperr.NewUpstream("ai request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", apperr.NewUpstream(
			fmt.Sprintf("ai error %s: %s", resp.Status, strings.TrimSpace(string(detail))), nil)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", apperr.NewUpstream("decode ai response", err)
	}

	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", apperr.NewUpstream("ai returned no candidates", nil)
	}

	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}
