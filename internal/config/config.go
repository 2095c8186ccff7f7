package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/logging"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// FINISHCOPY_CONFLICT_RESOLUTION.
const EnvPrefix = "FINISHCOPY"

// Config represents the complete finishcopy configuration
type Config struct {
	Model       ModelConfig       `mapstructure:"model"`
	Conflict    ConflictConfig    `mapstructure:"conflict"`
	Replication ReplicationConfig `mapstructure:"replication"`
	Naming      NamingConfig      `mapstructure:"naming"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	TUI         TUIConfig         `mapstructure:"tui"`
}

// ModelConfig locates the building model
type ModelConfig struct {
	// Path is the model file used when --model is not given.
	// Relative paths resolve against the working directory; "~/" is expanded.
	Path string `mapstructure:"path"`
}

// ConflictConfig controls what happens when selected walls are already grouped
type ConflictConfig struct {
	// Resolution is one of "prompt", "skip", "dissolve", "abort" (default: "prompt").
	// "prompt" asks on the terminal and cancels the run when there is none.
	Resolution string `mapstructure:"resolution"`
}

// ReplicationConfig controls how copies are placed
type ReplicationConfig struct {
	// AllowPartial commits a run where some target levels failed,
	// as long as at least one copy was placed (default: false)
	AllowPartial bool `mapstructure:"allow_partial"`
	// RevalidateSource re-checks that a reused group is still a finishing
	// group before copying it (default: true)
	RevalidateSource bool `mapstructure:"revalidate_source"`
}

// NamingConfig controls group naming
type NamingConfig struct {
	// DefaultGroupName pre-fills the name prompt and is used when --name is
	// omitted without a terminal
	DefaultGroupName string `mapstructure:"default_group_name"`
}

// LoggingConfig controls run logging
type LoggingConfig struct {
	// Enabled writes JSON logs to Dir (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is one of "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir holds finishcopy.log and its backups (default: <config dir>/logs)
	Dir string `mapstructure:"dir"`
	// MaxSizeMB rotates the log once it would exceed this size (default: 5)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// TUIConfig controls the interactive prompts
type TUIConfig struct {
	// Theme is "default" or "mono"
	Theme string `mapstructure:"theme"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	rotation := logging.DefaultRotationConfig()
	return &Config{
		Model: ModelConfig{
			Path: "", // Empty means --model is required
		},
		Conflict: ConflictConfig{
			Resolution: "prompt",
		},
		Replication: ReplicationConfig{
			AllowPartial:     false,
			RevalidateSource: true,
		},
		Naming: NamingConfig{
			DefaultGroupName: "",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "", // Empty means <config dir>/logs
			MaxSizeMB:  rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
		},
		TUI: TUIConfig{
			Theme: "default",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("model.path", defaults.Model.Path)

	viper.SetDefault("conflict.resolution", defaults.Conflict.Resolution)

	viper.SetDefault("replication.allow_partial", defaults.Replication.AllowPartial)
	viper.SetDefault("replication.revalidate_source", defaults.Replication.RevalidateSource)

	viper.SetDefault("naming.default_group_name", defaults.Naming.DefaultGroupName)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)
}

// Keys returns every configuration key, in the order SetDefaults registers them
func Keys() []string {
	return []string{
		"model.path",
		"conflict.resolution",
		"replication.allow_partial",
		"replication.revalidate_source",
		"naming.default_group_name",
		"logging.enabled",
		"logging.level",
		"logging.dir",
		"logging.max_size_mb",
		"logging.max_backups",
		"tui.theme",
	}
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finishcopy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finishcopy"
	}
	return filepath.Join(home, ".config", "finishcopy")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ResolveDir returns the directory logs are written to.
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(l.Dir)
}

// Rotation converts the size settings for the logging package.
func (l *LoggingConfig) Rotation() logging.RotationConfig {
	return logging.RotationConfig{MaxSizeMB: l.MaxSizeMB, MaxBackups: l.MaxBackups}
}

// ResolvePath returns the model path with "~" expanded, or "" when unset.
func (m *ModelConfig) ResolvePath() string {
	if m.Path == "" {
		return ""
	}
	return expandHome(m.Path)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
