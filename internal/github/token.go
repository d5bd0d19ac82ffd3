package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// InstallationToken is a GitHub App installation access token.
type InstallationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenExchanger trades an App JWT for an installation token.
type TokenExchanger struct {
	httpClient *http.Client
	baseURL    string
}

// NewTokenExchanger creates an exchanger against baseURL (DefaultBaseURL if empty).
func NewTokenExchanger(baseURL string, httpClient *http.Client) *TokenExchanger {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &TokenExchanger{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Exchange requests a fresh installation token. GitHub issues them for one hour.
func (t *TokenExchanger) Exchange(ctx context.Context, jwt string, installationID int64) (*InstallationToken, error) {
	if jwt == "" {
		return nil, fmt.Errorf("JWT cannot be empty")
	}
	if installationID <= 0 {
		return nil, fmt.Errorf("installation ID must be positive")
	}

	endpoint := fmt.Sprintf("%s/app/installations/%d/access_tokens", t.baseURL, installationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+jwt)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "exchange installation token", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	token, err := decodeResponse[InstallationToken](resp, "installation token")
	if err != nil {
		return nil, err
	}
	if token.Token == "" {
		return nil, &DecodeError{Expected: "installation token", Err: fmt.Errorf("token field is empty")}
	}
	return &token, nil
}
