package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/andywolf/issuerace/internal/config"
	"github.com/andywolf/issuerace/internal/content"
	"github.com/andywolf/issuerace/internal/events"
	"github.com/andywolf/issuerace/internal/race"
	"github.com/andywolf/issuerace/internal/template"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll the repository and claim the threshold issue number",
	Long: `Poll the repository's newest issue number and post the configured issue
as soon as the threshold is the next number GitHub will assign.

The command exits 0 only when the created issue carries the threshold number.
It exits non-zero when the number was already taken, when someone else got it
first, or when posting fails. Read errors while waiting are logged and retried.

Example:
  issuerace run --repo rust-lang/rust --threshold 100000 --body-file assets/issue.md`,
	RunE: runRace,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Duration("interval", config.DefaultInterval, "time between polls")
	runCmd.Flags().String("title", config.DefaultTitle, "title of the issue to post")
	runCmd.Flags().String("body-file", config.DefaultBodyFile, "markdown file with the issue body")
	runCmd.Flags().String("events-file", "", "append a JSON line per attempt to this file")

	_ = viper.BindPFlag("race.interval", runCmd.Flags().Lookup("interval"))
	_ = viper.BindPFlag("issue.title", runCmd.Flags().Lookup("title"))
	_ = viper.BindPFlag("issue.body_file", runCmd.Flags().Lookup("body-file"))
	_ = viper.BindPFlag("logging.events_file", runCmd.Flags().Lookup("events-file"))
}

func runRace(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived interrupt signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err = cfg.ValidateForRun(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return startRace(ctx, cmd.ErrOrStderr(), cfg)
}

// startRace wires the configured components together and runs the poll loop.
func startRace(ctx context.Context, w io.Writer, cfg config.Config) error {
	creds, err := resolveCredentials(ctx, cfg)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger, closeLogger, err := newLogger(ctx, w, cfg, runID, creds.secrets)
	if err != nil {
		return err
	}
	defer closeLogger()

	client, err := newClient(cfg, creds.tokens)
	if err != nil {
		return err
	}

	source := content.NewFileSource(cfg.Issue.BodyFile, cfg.Issue.Title)
	source.Variables = template.MergeVariables(map[string]string{
		"threshold":  strconv.FormatUint(cfg.Race.Threshold, 10),
		"repository": client.Repository(),
		"run_id":     runID,
	}, cfg.Issue.Variables)
	evaluator := race.NewEvaluator(cfg.Race.Threshold, client, race.NewSubmitter(client, source))
	opts := []race.LoopOption{
		race.WithInterval(cfg.Race.Interval),
		race.WithLogger(logger),
	}
	if cfg.Logging.EventsFile != "" {
		sink, err := events.NewFileSink(cfg.Logging.EventsFile)
		if err != nil {
			return err
		}
		defer func() { _ = sink.Close() }()
		opts = append(opts, race.WithObserver(events.Recorder(sink, runID, func(err error) {
			logger.Warningf("failed to record attempt: %v", err)
		})))
	}
	loop := race.NewLoop(evaluator, opts...)

	logger.Infof("Racing for %s#%d (run %s, polling every %v)",
		client.Repository(), cfg.Race.Threshold, runID, cfg.Race.Interval)

	result, err := loop.Run(ctx)
	if err != nil {
		logger.Warningf("Stopped after %d attempts: %v", result.Attempts, err)
		return err
	}
	if result.State == race.DoneFailure {
		return fmt.Errorf("race failed: %w", result.Outcome.Err)
	}
	return nil
}
