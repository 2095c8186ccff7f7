// Package styles holds the color themes and lipgloss styles shared by the
// conflict prompt, the name prompt and the CLI tables.
package styles
