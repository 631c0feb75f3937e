package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/config"
	"BlogCurator/internal/ports"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	jwtBearerGrant     = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour

	// Tokens are refreshed a little before they expire so an in-flight
	// request never carries a token that dies mid-call.
	expirySkew = time.Minute
)

// TokenMinter exchanges a signed service-account assertion for an OAuth
// access token and caches it until shortly before expiry.
type TokenMinter struct {
	creds  config.GoogleCredentials
	client *http.Client
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

var _ ports.TokenSource = (*TokenMinter)(nil)

func NewTokenMinter(creds config.GoogleCredentials) *TokenMinter {
	return &TokenMinter{
		creds:  creds,
		client: &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Token returns a cached access token, minting a fresh one when the cache
// is empty or about to expire.
func (m *TokenMinter) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && m.now().Before(m.expires.Add(-expirySkew)) {
		return m.token, nil
	}

	assertion, err := m.signAssertion()
	if err != nil {
		return "", err
	}

	token, expiresIn, err := m.exchange(ctx, assertion)
	if err != nil {
		return "", err
	}

	m.token = token
	m.expires = m.now().Add(time.Duration(expiresIn) * time.Second)
	return m.token, nil
}

func (m *TokenMinter) signAssertion() (string, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(m.creds.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}

	now := m.now()
	claims := jwt.MapClaims{
		"iss":   m.creds.ClientEmail,
		"scope": cloudPlatformScope,
		"aud":   m.creds.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign assertion: %w", err)
	}
	return assertion, nil
}

func (m *TokenMinter) exchange(ctx context.Context, assertion string) (string, int, error) {
	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.creds.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", 0, apperr.NewUpstream("token exchange failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, apperr.NewUpstream(
			fmt.Sprintf("token endpoint %s: %s", resp.Status, strings.TrimSpace(string(detail))), nil)
	}

	var decoded tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", 0, apperr.NewUpstream("decode token response", err)
	}
	if decoded.AccessToken == "" {
		return "", 0, apperr.NewUpstream("token endpoint returned no access token", nil)
	}
	return decoded.AccessToken, decoded.ExpiresIn, nil
}
