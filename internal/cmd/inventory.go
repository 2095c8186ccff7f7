package cmd

import (
	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/spf13/cobra"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "List the wall types on a level",
	Long: `List the distinct wall types found on a level, numbered in the order
they first appear. The numbers are what "copy --types" expects.`,
	Args: cobra.NoArgs,
	RunE: runInventory,
}

var inventoryLevel string

func init() {
	rootCmd.AddCommand(inventoryCmd)

	inventoryCmd.Flags().StringVarP(&inventoryLevel, "level", "l", "", "Level name (required)")
	_ = inventoryCmd.MarkFlagRequired("level")
}

func runInventory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, _, err := openModel(cfg)
	if err != nil {
		return err
	}

	level, err := finishing.NewCatalog(store).LevelByName(inventoryLevel)
	if err != nil {
		return err
	}
	inv, err := finishing.WallTypesOnLevel(store, level.ID)
	if err != nil {
		return err
	}

	t := newTable("#", "WALL TYPE", "WALLS")
	for i, wt := range inv.Types() {
		t.add(i+1, wt.Name, inv.Count(wt.ID))
	}
	return t.render(cmd.OutOrStdout())
}
