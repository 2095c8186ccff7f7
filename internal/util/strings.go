// Package util holds small helpers shared by the CLI and the prompts.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens s to maxWidth terminal columns, ending in "...". Styling
// escape codes and wide characters are measured correctly. A maxWidth of
// zero or less disables truncation.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return "..."
	}
	return ansi.Truncate(s, maxWidth, "...")
}
