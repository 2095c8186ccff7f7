package cmd

import (
	"fmt"
	"io"

	"github.com/Iron-Ham/finishcopy/internal/config"
	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/Iron-Ham/finishcopy/internal/model"
	"github.com/Iron-Ham/finishcopy/internal/model/memstore"
	"github.com/Iron-Ham/finishcopy/internal/resolver"
	"github.com/Iron-Ham/finishcopy/internal/tui/input"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Copy a finishing group onto other levels",
	Long: `Copy a finishing group onto other levels.

The source is either an existing finishing group (--group), or the walls of
chosen types on a level (--level with --types and/or --type-name), which are
grouped under a new name first. Each copy keeps the plan position of the
source and is raised or lowered by the difference in level elevation.

Target levels are given with --to, as exact names or glob patterns
("Level *"). Patterns never match the source level.

Everything happens in one transaction: if any step fails the model file is
left untouched.

Examples:
  # Copy an existing finishing group to two levels
  finishcopy copy -m tower.yaml --group "Lobby finish" --to "Level 2" --to "Level 3"

  # Group the first two wall types of Level 1 and copy them to every level
  finishcopy copy -m tower.yaml --level "Level 1" --types 1,2 --name "Plaster" --to "*"

  # Preview without saving, ungrouping any conflicting groups
  finishcopy copy -m tower.yaml --level "Level 1" --type-name Tile --to "Level 2" \
    --name "Tile finish" --on-conflict dissolve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runCopy,
}

var (
	copyGroup        string
	copyLevel        string
	copyTypes        []int
	copyTypeNames    []string
	copyTargets      []string
	copyName         string
	copyOnConflict   string
	copyOut          string
	copyDryRun       bool
	copyAllowPartial bool
)

func init() {
	rootCmd.AddCommand(copyCmd)

	copyCmd.Flags().StringVarP(&copyGroup, "group", "g", "", "Existing finishing group to copy")
	copyCmd.Flags().StringVarP(&copyLevel, "level", "l", "", "Source level for a new group")
	copyCmd.Flags().IntSliceVarP(&copyTypes, "types", "t", nil, "Wall type numbers from 'inventory' (with --level)")
	copyCmd.Flags().StringSliceVar(&copyTypeNames, "type-name", nil, "Wall type names (with --level)")
	copyCmd.Flags().StringSliceVar(&copyTargets, "to", nil, "Target level names or glob patterns (required)")
	copyCmd.Flags().StringVarP(&copyName, "name", "n", "", "Name of the new group (with --level)")
	copyCmd.Flags().StringVar(&copyOnConflict, "on-conflict", "", "prompt, skip, dissolve or abort (default: conflict.resolution)")
	copyCmd.Flags().StringVarP(&copyOut, "out", "o", "", "Write the result here instead of over the model file")
	copyCmd.Flags().BoolVar(&copyDryRun, "dry-run", false, "Run everything but do not save")
	copyCmd.Flags().BoolVar(&copyAllowPartial, "allow-partial", false, "Save even if some target levels failed (default: replication.allow_partial)")

	copyCmd.MarkFlagsMutuallyExclusive("group", "level")
	copyCmd.MarkFlagsOneRequired("group", "level")
	_ = copyCmd.MarkFlagRequired("to")
}

func runCopy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, path, err := openModel(cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	runID := uuid.NewString()
	log := logger.WithRun(runID)
	log.Info("copy requested", "model", path, "dry_run", copyDryRun)

	req, err := buildRequest(cmd, cfg, store)
	if err != nil {
		log.Warn("invalid selection", "error", err.Error())
		return err
	}

	policy := cfg.Conflict.Resolution
	if cmd.Flags().Changed("on-conflict") {
		policy = copyOnConflict
	}
	res, err := resolver.Select(policy, cmd.InOrStdin(), cmd.ErrOrStderr(), log.WithPhase("resolve"))
	if err != nil {
		return err
	}

	opts := finishing.Options{
		AllowPartial:     cfg.Replication.AllowPartial,
		RevalidateSource: cfg.Replication.RevalidateSource,
	}
	if cmd.Flags().Changed("allow-partial") {
		opts.AllowPartial = copyAllowPartial
	}

	var tx model.Transactor = store
	if copyDryRun {
		tx = store.DryRun()
	}
	report, err := finishing.NewWorkflow(tx, res, log.WithPhase("workflow"), opts).Run(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := printReport(out, report); err != nil {
		return err
	}
	if report.Outcome == finishing.OutcomeCancelled || copyDryRun {
		_, err := fmt.Fprintln(out, styles.Active().Muted.Render("The model file was not changed."))
		return err
	}

	dest := path
	if copyOut != "" {
		dest = copyOut
	}
	if err := store.Save(dest); err != nil {
		log.Error("saving model failed", "path", dest, "error", err.Error())
		return err
	}
	log.Info("model saved", "path", dest)
	_, err = fmt.Fprintf(out, "Saved %s\n", dest)
	return err
}

// buildRequest turns the flags into a SelectionRequest, resolving names
// against the model.
func buildRequest(cmd *cobra.Command, cfg *config.Config, store *memstore.Store) (finishing.SelectionRequest, error) {
	catalog := finishing.NewCatalog(store)

	if copyGroup != "" {
		group, err := catalog.FinishingGroupByName(copyGroup)
		if err != nil {
			return finishing.SelectionRequest{}, err
		}
		targets, err := targetIDs(catalog, group.LevelID)
		if err != nil {
			return finishing.SelectionRequest{}, err
		}
		return finishing.NewReuseRequest(group.TypeID, targets), nil
	}

	level, err := catalog.LevelByName(copyLevel)
	if err != nil {
		return finishing.SelectionRequest{}, err
	}
	targets, err := targetIDs(catalog, level.ID)
	if err != nil {
		return finishing.SelectionRequest{}, err
	}
	typeIDs, err := wallTypeIDs(store, level)
	if err != nil {
		return finishing.SelectionRequest{}, err
	}
	name, err := groupName(cmd, cfg, store, level)
	if err != nil {
		return finishing.SelectionRequest{}, err
	}
	return finishing.NewLevelRequest(level.ID, typeIDs, targets, name), nil
}

func targetIDs(catalog *finishing.Catalog, source model.ID) ([]model.ID, error) {
	levels, err := catalog.MatchLevels(source, copyTargets)
	if err != nil {
		return nil, err
	}
	ids := make([]model.ID, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// wallTypeIDs combines --types, numbered as 'inventory' prints them, and
// --type-name.
func wallTypeIDs(store *memstore.Store, level model.Level) ([]model.ID, error) {
	inv, err := finishing.WallTypesOnLevel(store, level.ID)
	if err != nil {
		return nil, err
	}

	indices := make([]int, len(copyTypes))
	for i, n := range copyTypes {
		indices[i] = n - 1
	}
	for _, name := range copyTypeNames {
		_, i, ok := inv.Lookup(name)
		if !ok {
			return nil, errors.NewNotFoundError("wall type on "+level.Name, name)
		}
		indices = append(indices, i)
	}

	types, err := inv.Select(indices)
	if err != nil {
		return nil, err
	}
	ids := make([]model.ID, len(types))
	for i, wt := range types {
		ids[i] = wt.ID
	}
	return ids, nil
}

// groupName returns --name, or asks for one on a terminal, or falls back to
// naming.default_group_name.
func groupName(cmd *cobra.Command, cfg *config.Config, store *memstore.Store, level model.Level) (string, error) {
	if copyName != "" {
		return copyName, nil
	}
	if resolver.IsTerminal(cmd.InOrStdin()) {
		check := func(name string) error { return finishing.CheckGroupName(store, name) }
		title := fmt.Sprintf("Name the new group for %s", level.Name)
		return input.PromptName(cmd.InOrStdin(), cmd.ErrOrStderr(), title, cfg.Naming.DefaultGroupName, check)
	}
	if cfg.Naming.DefaultGroupName != "" {
		return cfg.Naming.DefaultGroupName, nil
	}
	return "", errors.NewValidationError("a new group needs a name: pass --name or set naming.default_group_name").
		WithField("name")
}

func printReport(out io.Writer, r *finishing.Report) error {
	st := styles.Active()
	var lines []string

	if r.NewGroup {
		lines = append(lines, fmt.Sprintf("Created group %q.", r.GroupTypeName))
	}
	if len(r.Conflicts) > 0 {
		lines = append(lines, finishing.ConflictSummary(r.Conflicts))
		for _, c := range r.Conflicts {
			lines = append(lines, st.Muted.Render("  "+c.Label()))
		}
		if r.Resolution != nil {
			lines = append(lines, fmt.Sprintf("Resolution: %s", *r.Resolution))
		}
	}

	switch r.Outcome {
	case finishing.OutcomeCancelled:
		lines = append(lines, st.Warning.Render("Cancelled."))
	default:
		lines = append(lines, st.Success.Render(fmt.Sprintf("Placed %q on %s:", r.GroupTypeName, plural(len(r.Placed), "level"))))
		for _, p := range r.Placed {
			lines = append(lines, fmt.Sprintf("  %s at %s", p.LevelName, p.Origin))
		}
		if len(r.Failures) > 0 {
			lines = append(lines, st.Error.Render(fmt.Sprintf("Failed on %s:", plural(len(r.Failures), "level"))))
			for _, f := range r.Failures {
				lines = append(lines, "  "+f.Error())
			}
		}
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return err
		}
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
