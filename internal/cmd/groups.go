package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model/memstore"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/Iron-Ham/finishcopy/internal/watch"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List the finishing groups of the model",
	Long: `List the group types that qualify as finishing groups: every instance
consists only of walls, and all of those walls sit on one level.

With --watch the list is printed again whenever the model file changes,
until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runGroups,
}

var groupsWatch bool

func init() {
	rootCmd.AddCommand(groupsCmd)

	groupsCmd.Flags().BoolVarP(&groupsWatch, "watch", "w", false, "Re-list whenever the model file changes")
}

func runGroups(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := modelPath(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if err := printGroups(out, path); err != nil {
		return err
	}
	if !groupsWatch {
		return nil
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return watchGroups(ctx, out, path, logger.WithPhase("watch"))
}

// watchGroups re-prints the finishing groups after every change to path
// until ctx is done. A model that fails to load is reported and skipped.
func watchGroups(ctx context.Context, out io.Writer, path string, logger *logging.Logger) error {
	w, err := watch.New(path, func() {
		_, _ = fmt.Fprintf(out, "\n%s\n", styles.Active().Muted.Render("model changed at "+time.Now().Format("15:04:05")))
		if err := printGroups(out, path); err != nil {
			logger.Warn("reloading model failed", "path", path, "error", err.Error())
			_, _ = fmt.Fprintln(out, styles.Active().Error.Render(err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	w.SetErrorHandler(func(err error) {
		logger.Warn("watcher error", "path", path, "error", err.Error())
	})

	logger.Info("watching model", "path", path)
	w.Start()
	<-ctx.Done()
	w.Stop()
	<-w.Done()
	return nil
}

func printGroups(out io.Writer, path string) error {
	store, err := memstore.Load(path)
	if err != nil {
		return err
	}
	groups, err := finishing.NewCatalog(store).FinishingGroups()
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		_, err := fmt.Fprintln(out, "No finishing groups.")
		return err
	}

	t := newTable("GROUP", "LEVEL", "INSTANCES")
	for _, g := range groups {
		t.add(g.Name, g.LevelName, g.Instances)
	}
	return t.render(out)
}
