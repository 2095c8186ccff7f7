package cmd

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View run logs",
	Long: `View and filter the logs written by finishcopy runs.

Every copy run gets an ID that is attached to all of its log lines.

Examples:
  # Show the last 50 lines
  finishcopy logs

  # Show everything from one run (a prefix of the ID is enough)
  finishcopy logs --run 3f2a -n 0

  # Only warnings and errors from the last hour
  finishcopy logs --level warn --since 1h

  # Lines from the conflict resolution step
  finishcopy logs --phase resolve`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsRunID string
	logsTail  int
	logsLevel string
	logsPhase string
	logsSince time.Duration
	logsGrep  string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsRunID, "run", "", "Only show lines from runs whose ID starts with this")
	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsPhase, "phase", "", "Only show lines from this phase")
	logsCmd.Flags().DurationVar(&logsSince, "since", 0, "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only show lines whose message contains this text")
}

func runLogs(cmd *cobra.Command, args []string) error {
	if logsLevel != "" && !slices.Contains(logging.ValidLevels(), strings.ToUpper(logsLevel)) {
		return errors.NewValidationError(fmt.Sprintf("invalid level %q (valid: %v)", logsLevel, logging.ValidLevels())).
			WithField("level")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.Logging.ResolveDir()

	entries, err := logging.ReadLog(dir)
	if err != nil {
		return err
	}

	filter := logging.Filter{
		Level:           logsLevel,
		RunID:           logsRunID,
		Phase:           logsPhase,
		MessageContains: logsGrep,
	}
	if logsSince > 0 {
		filter.Since = time.Now().Add(-logsSince)
	}

	entries = logging.Tail(logging.FilterLogs(entries, filter), logsTail)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching log lines.")
		return nil
	}
	return logging.WriteText(cmd.OutOrStdout(), entries)
}
