// Package input provides the line-editing prompts the CLI falls back to
// when a required value was not given on the command line.
package input

import (
	"io"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/errors"
	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// NameModel is the Bubbletea model that collects a group name. Enter is
// accepted only once validate returns nil; the error is shown under the field.
type NameModel struct {
	title     string
	input     textinput.Model
	validate  func(string) error
	err       error
	value     string
	done      bool
	cancelled bool
}

// NewNameModel creates a name prompt pre-filled with initial.
// A nil validate accepts any value.
func NewNameModel(title, initial string, validate func(string) error) NameModel {
	ti := textinput.New()
	ti.Placeholder = "group name"
	ti.CharLimit = 200
	ti.Width = 40
	ti.SetValue(initial)
	ti.Focus()

	if validate == nil {
		validate = func(string) error { return nil }
	}
	return NameModel{title: title, input: ti, validate: validate}
}

func (m NameModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m NameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if err := m.validate(value); err != nil {
				m.err = err
				return m, nil
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Stale errors go away as soon as the user edits the value.
	if _, ok := msg.(tea.KeyMsg); ok {
		m.err = nil
	}
	return m, cmd
}

func (m NameModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	st := styles.Active()

	var b strings.Builder
	b.WriteString(st.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(st.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(st.HelpBar.Render(
		st.HelpKey.Render("enter") + " accept  " +
			st.HelpKey.Render("esc") + " cancel",
	))
	return b.String()
}

// Result returns the accepted name, or false when the prompt was cancelled
// or is still running.
func (m NameModel) Result() (string, bool) {
	return m.value, m.done
}

// PromptName runs a NameModel on in and out and returns the accepted name.
// Closing the prompt yields a *errors.CancelledError.
func PromptName(in io.Reader, out io.Writer, title, initial string, validate func(string) error) (string, error) {
	p := tea.NewProgram(NewNameModel(title, initial, validate), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", errors.Wrap(err, "running name prompt")
	}
	name, ok := final.(NameModel).Result()
	if !ok {
		return "", errors.NewCancelledError("group name prompt closed")
	}
	return name, nil
}
