package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BlogCurator/internal/apperr"
	"BlogCurator/internal/config"
)

func testKeyPEM(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	return key, string(block)
}

func TestTokenMintsAndVerifiesAssertion(t *testing.T) {
	t.Parallel()

	key, keyPEM := testKeyPEM(t)

	var gotGrant, gotAssertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotGrant = r.PostForm.Get("grant_type")
		gotAssertion = r.PostForm.Get("assertion")
		w.Write([]byte(`{"access_token": "ya29.minted", "expires_in": 3600}`))
	}))
	defer srv.Close()

	minter := NewTokenMinter(config.GoogleCredentials{
		ClientEmail: "svc@demo.iam.gserviceaccount.com",
		PrivateKey:  keyPEM,
		TokenURI:    srv.URL,
	})

	token, err := minter.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ya29.minted", token)
	assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", gotGrant)

	parsed, err := jwt.Parse(gotAssertion, func(t *jwt.Token) (any, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "svc@demo.iam.gserviceaccount.com", claims["iss"])
	assert.Equal(t, "https://www.googleapis.com/auth/cloud-platform", claims["scope"])
	assert.Equal(t, srv.URL, claims["aud"])

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	assert.Equal(t, int64(3600), exp-iat)
}

func TestTokenCachesUntilNearExpiry(t *testing.T) {
	t.Parallel()

	_, keyPEM := testKeyPEM(t)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"access_token": "ya29.cached", "expires_in": 3600}`))
	}))
	defer srv.Close()

	minter := NewTokenMinter(config.GoogleCredentials{
		ClientEmail: "svc@demo.iam.gserviceaccount.com",
		PrivateKey:  keyPEM,
		TokenURI:    srv.URL,
	})

	clock := time.Now()
	minter.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		token, err := minter.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ya29.cached", token)
	}
	assert.Equal(t, int32(1), calls.Load())

	// Within a minute of expiry the cache is treated as stale.
	clock = clock.Add(3600*time.Second - 30*time.Second)
	_, err := minter.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestTokenExchangeRejected(t *testing.T) {
	t.Parallel()

	_, keyPEM := testKeyPEM(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	minter := NewTokenMinter(config.GoogleCredentials{
		ClientEmail: "svc@demo.iam.gserviceaccount.com",
		PrivateKey:  keyPEM,
		TokenURI:    srv.URL,
	})

	_, err := minter.Token(context.Background())
	require.Error(t, err)

	var upstream *apperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestTokenBadPrivateKey(t *testing.T) {
	t.Parallel()

	minter := NewTokenMinter(config.GoogleCredentials{
		ClientEmail: "svc@demo.iam.gserviceaccount.com",
		PrivateKey:  "not a pem block",
		TokenURI:    "http://127.0.0.1:0",
	})

	_, err := minter.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse service account key")
}
