// Package gcp holds the optional Google Cloud integrations: a Cloud Logging
// sink for race notices and a Secret Manager source for credentials.
package gcp

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

// DefaultLogID is the Cloud Logging log name used when none is configured.
const DefaultLogID = "issuerace"

// CloudLoggerConfig identifies where entries go and how they are labelled.
type CloudLoggerConfig struct {
	ProjectID  string
	LogID      string
	RunID      string
	Repository string
	Threshold  uint64
}

// entryLogger is the part of *logging.Logger the CloudLogger uses.
type entryLogger interface {
	Log(e logging.Entry)
	Flush() error
}

// CloudLogger sends race notices to Cloud Logging. It satisfies notify.Logger.
type CloudLogger struct {
	logger entryLogger
	close  func() error
}

// NewCloudLogger connects to Cloud Logging in cfg.ProjectID. Every entry
// carries run_id, repository and threshold labels so one race can be
// filtered out of a shared log.
func NewCloudLogger(ctx context.Context, cfg CloudLoggerConfig, opts ...option.ClientOption) (*CloudLogger, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("cloud logging project is required")
	}
	if cfg.LogID == "" {
		cfg.LogID = DefaultLogID
	}

	client, err := logging.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud logging client: %w", err)
	}
	client.OnError = func(err error) {
		fmt.Fprintf(os.Stderr, "[issuerace] Warning: cloud logging: %v\n", err)
	}

	logger := client.Logger(cfg.LogID, logging.CommonLabels(cfg.labels()))
	return &CloudLogger{
		logger: logger,
		close: func() error {
			if err := logger.Flush(); err != nil {
				_ = client.Close()
				return err
			}
			return client.Close()
		},
	}, nil
}

func (cfg CloudLoggerConfig) labels() map[string]string {
	labels := map[string]string{"component": "issuerace"}
	if cfg.RunID != "" {
		labels["run_id"] = cfg.RunID
	}
	if cfg.Repository != "" {
		labels["repository"] = cfg.Repository
	}
	if cfg.Threshold > 0 {
		labels["threshold"] = strconv.FormatUint(cfg.Threshold, 10)
	}
	return labels
}

func (cl *CloudLogger) log(severity logging.Severity, labels map[string]string, format string, args []interface{}) {
	cl.logger.Log(logging.Entry{
		Severity: severity,
		Payload:  fmt.Sprintf(format, args...),
		Labels:   labels,
	})
}

func (cl *CloudLogger) Debugf(format string, args ...interface{}) {
	cl.log(logging.Debug, nil, format, args)
}

func (cl *CloudLogger) Infof(format string, args ...interface{}) {
	cl.log(logging.Info, nil, format, args)
}

func (cl *CloudLogger) Warningf(format string, args ...interface{}) {
	cl.log(logging.Warning, nil, format, args)
}

func (cl *CloudLogger) Errorf(format string, args ...interface{}) {
	cl.log(logging.Error, map[string]string{"outcome": "failure"}, format, args)
}

func (cl *CloudLogger) Successf(format string, args ...interface{}) {
	cl.log(logging.Notice, map[string]string{"outcome": "success"}, format, args)
}

// Flush blocks until buffered entries are sent.
func (cl *CloudLogger) Flush() error {
	return cl.logger.Flush()
}

// Close flushes and releases the client.
func (cl *CloudLogger) Close() error {
	if cl.close == nil {
		return cl.logger.Flush()
	}
	return cl.close()
}
