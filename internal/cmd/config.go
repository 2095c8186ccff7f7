package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Iron-Ham/finishcopy/internal/config"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify finishcopy configuration",
	Long: `View or modify finishcopy configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  finishcopy config set conflict.resolution skip
  finishcopy config set replication.allow_partial true
  finishcopy config set logging.max_backups 5

Valid keys:
  model.path                    - Default building model file
  conflict.resolution           - prompt, skip, dissolve or abort
  replication.allow_partial     - Save runs where some levels failed (true/false)
  replication.revalidate_source - Re-check reused groups before copying (true/false)
  naming.default_group_name     - Default name for new groups
  logging.enabled               - Write run logs (true/false)
  logging.level                 - debug, info, warn or error
  logging.dir                   - Log directory
  logging.max_size_mb           - Rotate the log at this size
  logging.max_backups           - Rotated logs to keep
  tui.theme                     - default or mono`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/finishcopy/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the built-in color themes",
	Long: `List the built-in color themes with a short preview of each.

Choose one with 'finishcopy config set tui.theme <name>'.`,
	Args: cobra.NoArgs,
	RunE: runConfigThemes,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configThemesCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	data, err := yaml.Marshal(configDocument(cfg))
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// configDocument mirrors Config with the file's key names.
func configDocument(cfg *config.Config) map[string]any {
	return map[string]any{
		"model": map[string]any{
			"path": cfg.Model.Path,
		},
		"conflict": map[string]any{
			"resolution": cfg.Conflict.Resolution,
		},
		"replication": map[string]any{
			"allow_partial":     cfg.Replication.AllowPartial,
			"revalidate_source": cfg.Replication.RevalidateSource,
		},
		"naming": map[string]any{
			"default_group_name": cfg.Naming.DefaultGroupName,
		},
		"logging": map[string]any{
			"enabled":     cfg.Logging.Enabled,
			"level":       cfg.Logging.Level,
			"dir":         cfg.Logging.Dir,
			"max_size_mb": cfg.Logging.MaxSizeMB,
			"max_backups": cfg.Logging.MaxBackups,
		},
		"tui": map[string]any{
			"theme": cfg.TUI.Theme,
		},
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	var known bool
	for _, k := range config.Keys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown configuration key: %s\nRun 'finishcopy config set --help' to see valid keys", key)
	}

	// The default's type decides how the value is parsed
	var typedValue any
	switch viper.Get(key).(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = b
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = n
	default:
		typedValue = value
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return err
	}

	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
		if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'finishcopy config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configContent := `# finishcopy configuration

# Building model used when --model is not given
model:
  path: ""

# What to do when selected walls already belong to another group
# Options: prompt, skip, dissolve, abort
# "prompt" asks on the terminal; without one, conflicts cancel the run
conflict:
  resolution: prompt

replication:
  # Save a run even if some target levels could not receive a copy
  allow_partial: false
  # Re-check that a reused group still lies on a single level
  revalidate_source: true

naming:
  # Pre-filled name for new groups
  default_group_name: ""

logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  # Empty means ~/.config/finishcopy/logs
  dir: ""
  max_size_mb: 5
  max_backups: 3

tui:
  # Options: default, mono
  theme: default
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize finishcopy's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigFile())
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_CONFLICT_RESOLUTION)\n", config.EnvPrefix, config.EnvPrefix)
	return nil
}

func runConfigThemes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Built-in themes:")
	for _, name := range styles.BuiltinThemes() {
		marker := " "
		if name == cfg.TUI.Theme {
			marker = "*"
		}
		st := styles.NewThemedStyles(styles.GetPalette(styles.ThemeName(name)))
		preview := st.TableHeader.Render("HEADER") + " " + st.Warning.Render("warning") + " " +
			st.Error.Render("error") + " " + st.Success.Render("ok")
		fmt.Fprintf(out, "  %s %-8s %s\n", marker, name, preview)
	}
	return nil
}
