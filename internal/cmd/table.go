package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/Iron-Ham/finishcopy/internal/tui/styles"
	"github.com/Iron-Ham/finishcopy/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// maxCellWidth keeps one long element name from stretching a column.
const maxCellWidth = 40

// table renders aligned columns with the active theme's header style.
type table struct {
	headers []string
	rows    [][]string
}

func newTable(headers ...string) *table {
	return &table{headers: headers}
}

func (t *table) add(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = util.Truncate(fmt.Sprint(c), maxCellWidth)
	}
	t.rows = append(t.rows, row)
}

func (t *table) render(w io.Writer) error {
	st := styles.Active()

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var b strings.Builder
	b.WriteString(t.line(t.headers, widths, st.TableHeader))
	for _, row := range t.rows {
		b.WriteString(t.line(row, widths, st.TableCell))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *table) line(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		padded := cell
		if i < len(cells)-1 && i < len(widths) {
			padded += strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		parts[i] = style.Render(padded)
	}
	return strings.TrimRight(strings.Join(parts, ""), " ") + "\n"
}
