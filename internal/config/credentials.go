package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GoogleCredentials is the subset of a service-account key file the system
// needs: JWT claims come from ClientEmail/TokenURI, the assertion is signed
// with PrivateKey, and ProjectID addresses the Vertex AI endpoint.
type GoogleCredentials struct {
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
	ProjectID   string `json:"project_id"`
}

// LoadGoogleCredentials reads a service-account JSON key file. The AI and
// search endpoints refuse to start work without it; callers surface the
// error instead of probing ambient paths at call time.
func LoadGoogleCredentials(path string) (*GoogleCredentials, error) {
	if path == "" {
		return nil, fmt.Errorf("credentials file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", path, err)
	}

	var creds GoogleCredentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}

	if creds.ClientEmail == "" || creds.PrivateKey == "" || creds.TokenURI == "" {
		return nil, fmt.Errorf("credentials %s missing client_email, private_key or token_uri", path)
	}

	return &creds, nil
}
