package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/model"
	"github.com/Iron-Ham/finishcopy/internal/resolver"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "logging.max_size_mb")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateModel()...)
	errors = append(errors, c.validateConflict()...)
	errors = append(errors, c.validateNaming()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

func (c *Config) validateModel() []ValidationError {
	var errors []ValidationError

	if strings.ContainsRune(c.Model.Path, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "model.path",
			Value:   c.Model.Path,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

func (c *Config) validateConflict() []ValidationError {
	var errors []ValidationError

	if !resolver.IsValidPolicy(c.Conflict.Resolution) {
		errors = append(errors, ValidationError{
			Field:   "conflict.resolution",
			Value:   c.Conflict.Resolution,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(resolver.ValidPolicies(), ", ")),
		})
	}

	return errors
}

// validateNaming checks the default name with the same rules a new group
// name must pass. Empty means no default.
func (c *Config) validateNaming() []ValidationError {
	var errors []ValidationError

	if name := c.Naming.DefaultGroupName; name != "" {
		if err := model.ValidateName(name); err != nil {
			errors = append(errors, ValidationError{
				Field:   "naming.default_group_name",
				Value:   name,
				Message: err.Error(),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.Theme != "" && !styles.IsValidTheme(c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(styles.BuiltinThemes(), ", ")),
		})
	}

	return errors
}
