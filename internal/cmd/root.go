package cmd

import (
	"context"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/config"
	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/Iron-Ham/finishcopy/internal/model/memstore"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "finishcopy",
	Short: "Copy wall finishing assemblies between building levels",
	Long: `finishcopy copies a finishing assembly, a group of walls that lies on
a single level, onto other levels of a building model. The copy keeps its
plan position and moves vertically by the difference in level elevation.

The assembly can be an existing group, or a new group built from the walls
of chosen types on a level. Walls that already belong to another group are
reported, and you decide whether to skip them, ungroup their groups, or stop.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with ctx, which long running
// commands such as "groups --watch" stop on.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/finishcopy/config.yaml)")
	rootCmd.PersistentFlags().StringP("model", "m", "", "building model file (default is model.path from the config)")
	bindGlobalFlags()
}

func bindGlobalFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("model.path", rootCmd.PersistentFlags().Lookup("model"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	// Replace dots with underscores for nested keys in env vars
	// e.g., FINISHCOPY_CONFLICT_RESOLUTION for conflict.resolution
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig loads and validates the configuration and applies the theme.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	styles.SetActiveTheme(styles.ThemeName(cfg.TUI.Theme))
	return cfg, nil
}

// newLogger opens the run log described by cfg, or a discarding logger when
// logging is disabled.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	return logging.New(logging.Options{
		Dir:      cfg.Logging.ResolveDir(),
		Level:    cfg.Logging.Level,
		Rotation: cfg.Logging.Rotation(),
	})
}

// modelPath returns the model file to operate on.
func modelPath(cfg *config.Config) (string, error) {
	path := cfg.Model.ResolvePath()
	if path == "" {
		return "", errors.NewValidationError("no building model: pass --model or set model.path").
			WithField("model.path")
	}
	return path, nil
}

// openModel loads the model file named by cfg.
func openModel(cfg *config.Config) (*memstore.Store, string, error) {
	path, err := modelPath(cfg)
	if err != nil {
		return nil, "", err
	}
	store, err := memstore.Load(path)
	if err != nil {
		return nil, "", err
	}
	return store, path, nil
}
