package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/andywolf/issuerace/internal/cloud/gcp"
	"github.com/andywolf/issuerace/internal/config"
	"github.com/andywolf/issuerace/internal/github"
	"github.com/andywolf/issuerace/internal/notify"
	"github.com/andywolf/issuerace/internal/security"
	"github.com/andywolf/issuerace/internal/version"
)

var _ notify.Logger = (*gcp.CloudLogger)(nil)

// secretFetcherFactory opens a Secret Manager client; replaced in tests.
var secretFetcherFactory = func(ctx context.Context, projectID string) (gcp.SecretFetcher, error) {
	return gcp.NewSecretManagerClient(ctx, projectID)
}

// cloudLoggerFactory opens a Cloud Logging sink; replaced in tests.
var cloudLoggerFactory = func(ctx context.Context, cfg gcp.CloudLoggerConfig) (cloudSink, error) {
	return gcp.NewCloudLogger(ctx, cfg)
}

type cloudSink interface {
	notify.Logger
	Close() error
}

// credentials is a resolved token source plus the literal secrets it was
// built from, so they can be masked in log output.
type credentials struct {
	tokens  github.TokenSource
	secrets []string
}

// resolveCredentials builds the token source for the configured mode.
// Secret Manager is only contacted when a *_secret setting is present.
func resolveCredentials(ctx context.Context, cfg config.Config) (*credentials, error) {
	gh := cfg.GitHub

	switch gh.CredentialMode() {
	case config.CredentialToken:
		return &credentials{tokens: github.StaticToken(gh.Token), secrets: []string{gh.Token}}, nil

	case config.CredentialTokenSecret:
		token, err := fetchSecret(ctx, cfg.Logging.CloudProject, gh.TokenSecret)
		if err != nil {
			return nil, err
		}
		return &credentials{tokens: github.StaticToken(token), secrets: []string{token}}, nil

	case config.CredentialApp:
		var pem []byte
		if gh.PrivateKeyFile != "" {
			data, err := os.ReadFile(gh.PrivateKeyFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read GitHub App private key: %w", err)
			}
			pem = data
		} else {
			key, err := fetchSecret(ctx, cfg.Logging.CloudProject, gh.PrivateKeySecret)
			if err != nil {
				return nil, err
			}
			pem = []byte(key)
		}

		source, err := github.NewAppTokenSource(gh.AppID, gh.InstallationID, pem,
			github.WithExchanger(github.NewTokenExchanger(gh.APIURL, nil)))
		if err != nil {
			return nil, fmt.Errorf("failed to set up GitHub App authentication: %w", err)
		}
		return &credentials{tokens: source}, nil
	}

	return nil, github.ErrNoCredentials
}

func fetchSecret(ctx context.Context, projectID, secretPath string) (string, error) {
	fetcher, err := secretFetcherFactory(ctx, projectID)
	if err != nil {
		return "", err
	}
	defer func() { _ = fetcher.Close() }()

	value, err := fetcher.FetchSecret(ctx, secretPath)
	if err != nil {
		return "", err
	}
	return value, nil
}

// newClient creates the GitHub client for cfg.
func newClient(cfg config.Config, tokens github.TokenSource) (*github.Client, error) {
	return github.NewClient(cfg.GitHub.Repository, tokens,
		github.WithBaseURL(cfg.GitHub.APIURL),
		github.WithUserAgent(version.UserAgent()),
	)
}

// newLogger builds the console logger, adds the Cloud Logging sink when a
// project is configured, and masks every known secret. The returned close
// function flushes the cloud sink.
func newLogger(ctx context.Context, w io.Writer, cfg config.Config, runID string, secrets []string) (notify.Logger, func(), error) {
	console := notify.NewConsole(w,
		notify.WithVerbose(cfg.Logging.Verbose),
		notify.WithNoColor(cfg.Logging.NoColor),
	)

	scrubber := security.NewScrubber()
	for _, s := range secrets {
		scrubber.AddSecret(s)
	}

	if cfg.Logging.CloudProject == "" {
		return notify.NewRedacting(console, scrubber), func() {}, nil
	}

	sink, err := cloudLoggerFactory(ctx, gcp.CloudLoggerConfig{
		ProjectID:  cfg.Logging.CloudProject,
		LogID:      cfg.Logging.LogID,
		RunID:      runID,
		Repository: cfg.GitHub.Repository,
		Threshold:  cfg.Race.Threshold,
	})
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() {
		if err := sink.Close(); err != nil {
			console.Warningf("failed to flush cloud logs: %v", err)
		}
	}
	return notify.NewRedacting(notify.Multi{console, sink}, scrubber), closeFn, nil
}
