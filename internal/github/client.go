package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the public GitHub REST endpoint.
const DefaultBaseURL = "https://api.github.com"

// apiVersion pins the REST API version sent with every request.
const apiVersion = "2022-11-28"

// Client talks to the issues collection of a single repository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	owner      string
	repo       string
	tokens     TokenSource
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithBaseURL sets a custom base URL for the GitHub API (useful for testing
// and GitHub Enterprise).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent sets the User-Agent header GitHub requires on every call.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for repository ("owner/name").
func NewClient(repository string, tokens TokenSource, opts ...ClientOption) (*Client, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, ErrNoCredentials
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		userAgent:  "issuerace",
		owner:      owner,
		repo:       repo,
		tokens:     tokens,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SplitRepository parses "owner/name", tolerating a github.com/ prefix.
func SplitRepository(repository string) (owner, repo string, err error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(repository, "https://"), "github.com/")
	parts := strings.Split(strings.Trim(trimmed, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q (want owner/name)", repository)
	}
	return parts[0], parts[1], nil
}

// Repository returns the "owner/name" this client targets.
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

func (c *Client) issuesURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/issues", c.baseURL, url.PathEscape(c.owner), url.PathEscape(c.repo))
}

// ListIssues lists issues newest first. GitHub includes pull requests in this
// listing, which is what we want since they consume issue numbers too.
func (c *Client) ListIssues(ctx context.Context, opts ListOptions) ([]Issue, error) {
	query := url.Values{}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.State != "" {
		query.Set("state", opts.State)
	}

	endpoint := c.issuesURL()
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	return decodeResponse[[]Issue](resp, "issue list")
}

// CreateIssue opens a new issue and returns it as GitHub recorded it.
func (c *Client) CreateIssue(ctx context.Context, req IssueRequest) (*Issue, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode issue: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.issuesURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	issue, err := decodeResponse[Issue](resp, "created issue")
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &TransportError{Op: "resolve token", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + req.URL.Path, Err: err}
	}
	return resp, nil
}
