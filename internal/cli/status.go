package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/andywolf/issuerace/internal/race"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how far the repository is from the threshold",
	Long: `Fetch the newest issue number once and report where the threshold stands.
Nothing is posted.

Examples:
  issuerace status --repo rust-lang/rust --threshold 100000
  issuerace status --watch --interval 30s`,
	Args: cobra.NoArgs,
	RunE: checkStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Bool("watch", false, "Keep reporting until the threshold is next or passed")
	statusCmd.Flags().Duration("every", 30*time.Second, "Watch interval")
}

func checkStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err = cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	creds, err := resolveCredentials(ctx, cfg)
	if err != nil {
		return err
	}
	client, err := newClient(cfg, creds.tokens)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	every, _ := cmd.Flags().GetDuration("every")

	for {
		latest, err := race.LatestNumber(ctx, client)
		if err != nil {
			return err
		}

		pos := printStatus(cmd.OutOrStdout(), client.Repository(), cfg.Race.Threshold, latest)
		if !watch || pos != race.Ahead {
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "---")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(every):
		}
	}
}

// printStatus writes one report and returns the threshold's position.
func printStatus(w io.Writer, repository string, threshold, latest uint64) race.Position {
	pos := race.Compare(threshold, latest)

	fmt.Fprintf(w, "Repository: %s\n", repository)
	fmt.Fprintf(w, "Latest:     #%d\n", latest)
	if latest < ^uint64(0) {
		fmt.Fprintf(w, "Next:       #%d\n", latest+1)
	}
	fmt.Fprintf(w, "Threshold:  #%d\n", threshold)

	switch pos {
	case race.Ahead:
		fmt.Fprintf(w, "Status:     waiting, %d to go\n", race.Remaining(threshold, latest))
	case race.Now:
		fmt.Fprintln(w, "Status:     next issue takes the threshold")
	case race.Passed:
		fmt.Fprintf(w, "Status:     passed, #%d is already taken\n", threshold)
	}
	return pos
}
