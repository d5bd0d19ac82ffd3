package cli

import (
	"fmt"
	"os"

	"github.com/andywolf/issuerace/internal/config"
	"github.com/andywolf/issuerace/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "issuerace",
	Short: "issuerace - claim a specific issue number on GitHub",
	Long: `issuerace watches a repository's issue counter and opens an issue the
moment the next number to be assigned is the one you want.

The threshold is the issue number to claim. Polling starts immediately and
repeats every interval until the issue is posted, the number is missed, or
the process is interrupted.

Example:
  GITHUB_TOKEN=ghp_... MAGIC_NUMBER=100000 issuerace run --repo rust-lang/rust`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .issuerace.yaml)")
	flags.String("repo", "", "GitHub repository (owner/name)")
	flags.Uint64("threshold", 0, "issue number to claim (env MAGIC_NUMBER)")
	flags.Bool("verbose", false, "log every polling attempt")
	flags.Bool("no-color", false, "disable colored console output")

	_ = viper.BindPFlag("github.repository", flags.Lookup("repo"))
	_ = viper.BindPFlag("race.threshold", flags.Lookup("threshold"))
	_ = viper.BindPFlag("logging.verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("logging.no_color", flags.Lookup("no-color"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".issuerace")
	}

	config.Bind(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("logging.verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		os.Exit(1)
	}
}

// loadConfig returns the merged flag, environment and file configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
