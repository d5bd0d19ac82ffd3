package github

import (
	"context"
	"errors"
	"strings"
)

// TokenSource yields the bearer token for the next request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a personal access token that never changes.
type StaticToken string

// Token returns the token with surrounding whitespace removed.
func (s StaticToken) Token(context.Context) (string, error) {
	token := strings.TrimSpace(string(s))
	if token == "" {
		return "", errors.New("GitHub token is empty")
	}
	return token, nil
}
