package gcp

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretFetcher fetches secret payloads by path.
type SecretFetcher interface {
	FetchSecret(ctx context.Context, secretPath string) (string, error)
	Close() error
}

// SecretManagerClient reads secrets from GCP Secret Manager.
type SecretManagerClient struct {
	client    *secretmanager.Client
	projectID string

	// access is the Secret Manager call, replaceable in tests.
	access func(ctx context.Context, name string) ([]byte, error)
}

// NewSecretManagerClient creates a client. projectID may be empty when every
// secret is referenced by its full resource name; otherwise it falls back to
// the usual GCP project environment variables.
func NewSecretManagerClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*SecretManagerClient, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	c := &SecretManagerClient{
		client:    client,
		projectID: resolveProjectID(projectID, os.Getenv),
	}
	c.access = func(ctx context.Context, name string) ([]byte, error) {
		result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
		if err != nil {
			return nil, err
		}
		return result.GetPayload().GetData(), nil
	}
	return c, nil
}

func resolveProjectID(explicit string, getenv func(string) string) string {
	if explicit != "" {
		return explicit
	}
	for _, key := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// FetchSecret returns the secret payload with surrounding whitespace trimmed.
// secretPath may be a full version path, a full secret path (latest version
// is used), or a bare secret name in the client's project.
func (c *SecretManagerClient) FetchSecret(ctx context.Context, secretPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	name, err := c.normalizeSecretPath(secretPath)
	if err != nil {
		return "", err
	}

	data, err := c.access(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c *SecretManagerClient) normalizeSecretPath(secretPath string) (string, error) {
	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/versions/") {
		return secretPath, nil
	}

	if strings.HasPrefix(secretPath, "projects/") && strings.Contains(secretPath, "/secrets/") {
		return secretPath + "/versions/latest", nil
	}

	if c.projectID == "" {
		return "", fmt.Errorf("secret %q needs a project: set logging.cloud_project or GOOGLE_CLOUD_PROJECT, or use a full resource name", secretPath)
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.projectID, path.Base(secretPath)), nil
}

// Close closes the Secret Manager client.
func (c *SecretManagerClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

var _ SecretFetcher = (*SecretManagerClient)(nil)
