// Package config loads the race settings once at startup. The resulting
// Config is passed by value into the rest of the program and never re-read.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/andywolf/issuerace/internal/github"
)

// Config represents the full issuerace configuration
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github"`
	Race    RaceConfig    `mapstructure:"race"`
	Issue   IssueConfig   `mapstructure:"issue"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GitHubConfig selects the repository and how to authenticate against it.
// Exactly one of Token, TokenSecret, or the App fields is used.
type GitHubConfig struct {
	Repository       string `mapstructure:"repository"`
	APIURL           string `mapstructure:"api_url"`
	Token            string `mapstructure:"token"`
	TokenSecret      string `mapstructure:"token_secret"`
	AppID            int64  `mapstructure:"app_id"`
	InstallationID   int64  `mapstructure:"installation_id"`
	PrivateKeyFile   string `mapstructure:"private_key_file"`
	PrivateKeySecret string `mapstructure:"private_key_secret"`
}

// RaceConfig holds the target number and polling cadence
type RaceConfig struct {
	Threshold uint64        `mapstructure:"threshold"`
	Interval  time.Duration `mapstructure:"interval"`
}

// IssueConfig points at the content to post. Variables fill {{name}}
// placeholders in addition to threshold, repository and run_id.
type IssueConfig struct {
	Title     string            `mapstructure:"title"`
	BodyFile  string            `mapstructure:"body_file"`
	Variables map[string]string `mapstructure:"variables"`
}

// LoggingConfig controls console output and the optional Cloud Logging sink
type LoggingConfig struct {
	Verbose      bool   `mapstructure:"verbose"`
	NoColor      bool   `mapstructure:"no_color"`
	CloudProject string `mapstructure:"cloud_project"`
	LogID        string `mapstructure:"log_id"`
	EventsFile   string `mapstructure:"events_file"`
}

// CredentialMode names the configured way of authenticating.
type CredentialMode string

const (
	CredentialNone        CredentialMode = ""
	CredentialToken       CredentialMode = "token"
	CredentialTokenSecret CredentialMode = "token_secret"
	CredentialApp         CredentialMode = "app"
)

// Defaults
const (
	DefaultTitle    = "Rust is Beautiful"
	DefaultBodyFile = "assets/issue.md"
	DefaultInterval = time.Second
	DefaultLogID    = "issuerace"
	EnvPrefix       = "ISSUERACE"
)

// envAliases are the plain variable names accepted alongside the prefixed ones.
var envAliases = map[string][]string{
	"github.token":   {"GITHUB_TOKEN"},
	"race.threshold": {"MAGIC_NUMBER"},
}

var keys = []string{
	"github.repository",
	"github.api_url",
	"github.token",
	"github.token_secret",
	"github.app_id",
	"github.installation_id",
	"github.private_key_file",
	"github.private_key_secret",
	"race.threshold",
	"race.interval",
	"issue.title",
	"issue.body_file",
	"logging.verbose",
	"logging.no_color",
	"logging.cloud_project",
	"logging.log_id",
	"logging.events_file",
}

// Bind registers defaults and environment variables on v. Each key reads
// ISSUERACE_<SECTION>_<KEY>; a few also accept a conventional alias.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		names = append(names, envAliases[key]...)
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	v.SetDefault("github.api_url", github.DefaultBaseURL)
	v.SetDefault("race.interval", DefaultInterval.String())
	v.SetDefault("issue.title", DefaultTitle)
	v.SetDefault("issue.body_file", DefaultBodyFile)
	v.SetDefault("logging.log_id", DefaultLogID)
}

// Load unmarshals v into a Config and applies defaults
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.GitHub.APIURL == "" {
		cfg.GitHub.APIURL = github.DefaultBaseURL
	}
	if cfg.Race.Interval == 0 {
		cfg.Race.Interval = DefaultInterval
	}
	if cfg.Issue.Title == "" {
		cfg.Issue.Title = DefaultTitle
	}
	if cfg.Issue.BodyFile == "" {
		cfg.Issue.BodyFile = DefaultBodyFile
	}
	if cfg.Logging.LogID == "" {
		cfg.Logging.LogID = DefaultLogID
	}
	cfg.GitHub.Token = strings.TrimSpace(cfg.GitHub.Token)
}

// CredentialModes lists every credential style that has been configured.
func (c GitHubConfig) CredentialModes() []CredentialMode {
	var modes []CredentialMode
	if c.Token != "" {
		modes = append(modes, CredentialToken)
	}
	if c.TokenSecret != "" {
		modes = append(modes, CredentialTokenSecret)
	}
	if c.AppID != 0 || c.InstallationID != 0 || c.PrivateKeyFile != "" || c.PrivateKeySecret != "" {
		modes = append(modes, CredentialApp)
	}
	return modes
}

// CredentialMode returns the single configured mode, or CredentialNone.
func (c GitHubConfig) CredentialMode() CredentialMode {
	modes := c.CredentialModes()
	if len(modes) != 1 {
		return CredentialNone
	}
	return modes[0]
}

// Validate checks everything the status command needs: where to look and
// how to authenticate.
func (c Config) Validate() error {
	if c.GitHub.Repository == "" {
		return fmt.Errorf("repository is required (github.repository)")
	}
	if _, _, err := github.SplitRepository(c.GitHub.Repository); err != nil {
		return err
	}

	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url: %q", c.GitHub.APIURL)
	}

	switch modes := c.GitHub.CredentialModes(); len(modes) {
	case 0:
		return fmt.Errorf("GitHub credentials are required (GITHUB_TOKEN, github.token_secret, or GitHub App settings)")
	case 1:
	default:
		return fmt.Errorf("configure only one GitHub credential source, got %v", modes)
	}

	if c.GitHub.CredentialMode() == CredentialApp {
		if c.GitHub.AppID <= 0 {
			return fmt.Errorf("GitHub App ID is required")
		}
		if c.GitHub.InstallationID <= 0 {
			return fmt.Errorf("GitHub App Installation ID is required")
		}
		if (c.GitHub.PrivateKeyFile == "") == (c.GitHub.PrivateKeySecret == "") {
			return fmt.Errorf("exactly one of github.private_key_file or github.private_key_secret is required")
		}
	}

	if c.Race.Threshold == 0 {
		return fmt.Errorf("threshold must be a positive integer (race.threshold or MAGIC_NUMBER)")
	}
	if c.Race.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %v", c.Race.Interval)
	}

	return nil
}

// ValidateForRun also requires the issue content settings.
func (c Config) ValidateForRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Issue.Title) == "" {
		return fmt.Errorf("issue title is required")
	}
	if c.Issue.BodyFile == "" {
		return fmt.Errorf("issue body file is required")
	}
	return nil
}
