package github

import (
	"errors"
	"fmt"
)

// ErrNoCredentials is returned when a client is built without a token source.
var ErrNoCredentials = errors.New("no GitHub credentials configured")

// TransportError is a failure to send a request or read its response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means a response body did not match the expected payload.
type DecodeError struct {
	Expected string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Expected, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RemoteError is a structured rejection returned by the GitHub API,
// e.g. a rate limit or an authentication failure.
type RemoteError struct {
	StatusCode       int    `json:"-"`
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("GitHub error (status %d): %s", e.StatusCode, e.Message)
}
