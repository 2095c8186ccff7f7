package resolver

import (
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/finishing"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/Iron-Ham/finishcopy/internal/util"
	tea "github.com/charmbracelet/bubbletea"
)

const maxDetailWidth = 72

// command is one of the links offered under the conflict summary.
type command struct {
	key        string
	label      string
	resolution finishing.Resolution
}

var commands = []command{
	{"1", "Skip grouped walls and continue", finishing.ResolutionSkip},
	{"2", "Ungroup the conflicting groups", finishing.ResolutionDissolve},
	{"3", "Cancel", finishing.ResolutionAbort},
}

// PromptModel is the Bubbletea model for the three-way conflict question.
// Closing it without choosing a command leaves Result unset.
type PromptModel struct {
	conflicts []finishing.Conflict
	summary   string
	cursor    int
	expanded  bool
	chosen    finishing.Resolution
	done      bool
	closed    bool
}

// NewPromptModel creates the prompt for conflicts, which are expected sorted
// by label.
func NewPromptModel(conflicts []finishing.Conflict) PromptModel {
	return PromptModel{
		conflicts: conflicts,
		summary:   finishing.ConflictSummary(conflicts),
	}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc", "q", "ctrl+c":
		m.closed = true
		return m, tea.Quit

	case "up", "k", "shift+tab":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = len(commands) - 1
		}

	case "down", "j", "tab":
		m.cursor++
		if m.cursor >= len(commands) {
			m.cursor = 0
		}

	case "d", " ":
		m.expanded = !m.expanded

	case "enter":
		return m.choose(m.cursor)

	default:
		for i, c := range commands {
			if key.String() == c.key {
				return m.choose(i)
			}
		}
	}
	return m, nil
}

func (m PromptModel) choose(i int) (tea.Model, tea.Cmd) {
	m.cursor = i
	m.chosen = commands[i].resolution
	m.done = true
	return m, tea.Quit
}

func (m PromptModel) View() string {
	if m.done || m.closed {
		return ""
	}
	st := styles.Active()

	var b strings.Builder
	b.WriteString(st.Title.Render("Walls already grouped"))
	b.WriteString("\n")
	b.WriteString(st.Summary.Render(m.summary))
	b.WriteString("\n")

	if m.expanded {
		for _, c := range m.conflicts {
			b.WriteString(st.Detail.Render(util.Truncate(c.Label(), maxDetailWidth)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(st.Muted.Render("  press d to list the grouped walls"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, c := range commands {
		line := fmt.Sprintf("%s. %s", c.key, c.label)
		if i == m.cursor {
			b.WriteString(st.LinkActive.Render("> " + line))
		} else {
			b.WriteString(st.Link.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString(st.HelpBar.Render(
		st.HelpKey.Render("j/k") + " move  " +
			st.HelpKey.Render("enter/1-3") + " choose  " +
			st.HelpKey.Render("d") + " details  " +
			st.HelpKey.Render("esc") + " cancel",
	))
	return st.Box.Render(b.String())
}

// Result returns the chosen resolution, or false when the prompt was closed
// or is still running.
func (m PromptModel) Result() (finishing.Resolution, bool) {
	return m.chosen, m.done
}

// Prompt asks a human on a terminal how to resolve conflicts.
type Prompt struct {
	in  io.Reader
	out io.Writer
}

// NewPrompt returns a Prompt reading keys from in and drawing on out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: in, out: out}
}

// Resolve blocks until the user picks a command. Closing the prompt yields a
// *errors.CancelledError.
func (p *Prompt) Resolve(conflicts []finishing.Conflict) (finishing.Resolution, error) {
	program := tea.NewProgram(NewPromptModel(conflicts), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		return finishing.ResolutionAbort, errors.Wrap(err, "running conflict prompt")
	}
	res, ok := final.(PromptModel).Result()
	if !ok {
		return finishing.ResolutionAbort, errors.NewCancelledError("conflict prompt closed")
	}
	return res, nil
}
