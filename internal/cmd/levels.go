package cmd

import (
	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the levels of the model by elevation",
	Args:  cobra.NoArgs,
	RunE:  runLevels,
}

func init() {
	rootCmd.AddCommand(levelsCmd)
}

func runLevels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, _, err := openModel(cfg)
	if err != nil {
		return err
	}

	levels, err := finishing.NewCatalog(store).Levels()
	if err != nil {
		return err
	}

	t := newTable("LEVEL", "ELEVATION", "WALLS")
	for _, lvl := range levels {
		walls, err := store.ListWallsOnLevel(lvl.ID)
		if err != nil {
			return err
		}
		t.add(lvl.Name, lvl.Elevation, len(walls))
	}
	return t.render(cmd.OutOrStdout())
}
