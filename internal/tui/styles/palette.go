package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green on dark terminals
	ThemeMono    ThemeName = "mono"    // No color, attributes only
)

// BuiltinThemes returns all theme names in display order.
func BuiltinThemes() []string {
	return []string{string(ThemeDefault), string(ThemeMono)}
}

// IsValidTheme reports whether name is a known theme.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the colors a theme draws with. An empty color leaves
// the terminal default in place.
type ColorPalette struct {
	// Primary accent: titles, the focused command link
	Primary lipgloss.Color
	// Secondary accent: key hints, success lines
	Secondary lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	// Muted: help text, detail rows, table borders
	Muted  lipgloss.Color
	Text   lipgloss.Color
	Border lipgloss.Color
}

// DefaultPalette returns the purple/green dark palette. All colors meet
// WCAG AA contrast on black.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500
	}
}

// MonoPalette returns a palette with no colors, for terminals and logs
// where escape sequences for color are unwanted.
func MonoPalette() *ColorPalette {
	return &ColorPalette{}
}

// GetPalette returns the palette for name, or the default palette for
// unknown names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeMono:
		return MonoPalette()
	default:
		return DefaultPalette()
	}
}
