package github

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenRefreshBuffer is how long before expiry a cached installation token
// is replaced.
const TokenRefreshBuffer = 5 * time.Minute

// AppTokenSource authenticates as a GitHub App installation, caching the
// installation token until it is close to expiring.
type AppTokenSource struct {
	mu sync.Mutex

	installationID int64
	jwt            *JWTGenerator
	exchanger      *TokenExchanger

	token     string
	expiresAt time.Time

	nowFunc func() time.Time
}

// AppTokenOption configures an AppTokenSource.
type AppTokenOption func(*AppTokenSource)

// WithExchanger overrides the token exchanger (useful for testing).
func WithExchanger(exchanger *TokenExchanger) AppTokenOption {
	return func(s *AppTokenSource) {
		s.exchanger = exchanger
	}
}

// WithNowFunc sets a custom clock for testing.
func WithNowFunc(fn func() time.Time) AppTokenOption {
	return func(s *AppTokenSource) {
		s.nowFunc = fn
	}
}

// NewAppTokenSource validates the App credentials and returns a lazy source.
// No network call is made until the first Token.
func NewAppTokenSource(appID, installationID int64, privateKeyPEM []byte, opts ...AppTokenOption) (*AppTokenSource, error) {
	if installationID <= 0 {
		return nil, fmt.Errorf("installation ID must be positive")
	}
	if len(privateKeyPEM) == 0 {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	gen, err := NewJWTGenerator(appID, privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT generator: %w", err)
	}

	s := &AppTokenSource{
		installationID: installationID,
		jwt:            gen,
		exchanger:      NewTokenExchanger("", nil),
		nowFunc:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Token returns the cached installation token, refreshing it when needed.
func (s *AppTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.expiresAt.After(s.nowFunc().Add(TokenRefreshBuffer)) {
		return s.token, nil
	}

	signed, err := s.jwt.Generate()
	if err != nil {
		return "", fmt.Errorf("failed to generate JWT: %w", err)
	}

	installToken, err := s.exchanger.Exchange(ctx, signed, s.installationID)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}

	s.token = installToken.Token
	s.expiresAt = installToken.ExpiresAt
	return s.token, nil
}
