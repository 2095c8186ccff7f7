package styles

import "github.com/charmbracelet/lipgloss"

// ThemedStyles contains the lipgloss styles built from a color palette.
type ThemedStyles struct {
	Palette *ColorPalette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style

	// Conflict prompt
	Box        lipgloss.Style
	Summary    lipgloss.Style
	Detail     lipgloss.Style
	Link       lipgloss.Style
	LinkActive lipgloss.Style

	// Help bar
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style

	// CLI tables
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
}

// NewThemedStyles builds every style from p.
func NewThemedStyles(p *ColorPalette) *ThemedStyles {
	s := &ThemedStyles{Palette: p}

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		MarginBottom(1)
	s.Subtitle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)
	s.Muted = lipgloss.NewStyle().Foreground(p.Muted)
	s.Warning = lipgloss.NewStyle().Foreground(p.Warning)
	s.Error = lipgloss.NewStyle().Bold(true).Foreground(p.Error)
	s.Success = lipgloss.NewStyle().Foreground(p.Secondary)

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(1, 2)
	s.Summary = lipgloss.NewStyle().
		Foreground(p.Text).
		MarginBottom(1)
	s.Detail = lipgloss.NewStyle().
		Foreground(p.Muted).
		PaddingLeft(2)
	s.Link = lipgloss.NewStyle().
		Foreground(p.Text).
		PaddingLeft(2)
	s.LinkActive = lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		Foreground(p.Primary).
		PaddingLeft(2)

	s.HelpBar = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	s.HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Secondary)

	s.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Primary).
		PaddingRight(2)
	s.TableCell = lipgloss.NewStyle().PaddingRight(2)

	return s
}

// activeTheme holds the styles the prompt and the CLI tables render with.
var activeTheme = NewThemedStyles(DefaultPalette())

// SetActiveTheme switches every renderer to the named theme.
//
// Note: This function is not thread-safe. Call it once during command
// setup, before any prompt starts.
func SetActiveTheme(name ThemeName) {
	activeTheme = NewThemedStyles(GetPalette(name))
}

// Active returns the currently active themed styles.
func Active() *ThemedStyles {
	return activeTheme
}
