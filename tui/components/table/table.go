package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/dotforge/dotkit/tui/theme"
)

// NewStyledTable creates a new lipgloss table with dotkit's default styling.
func NewStyledTable() *ltable.Table {
	t := theme.DefaultTheme

	table := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				// Header row with padding
				return t.TableHeader.Padding(0, 1)
			}
			// Regular rows with subtle alternating background
			baseStyle := lipgloss.NewStyle().Padding(0, 1)
			if t.UseAlternatingRows && row%2 == 0 {
				return baseStyle.Background(theme.VerySubtleBackground)
			}
			return baseStyle
		})

	return table
}

// SimpleTable renders a basic bordered table with headers and rows.
func SimpleTable(headers []string, rows [][]string) string {
	table := NewStyledTable().Headers(headers...)
	for _, row := range rows {
		table = table.Row(row...)
	}
	return table.String()
}

// StatusTable renders label/value pairs without a border, labels muted.
func StatusTable(items [][]string) string {
	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for _, item := range items {
		if len(item) >= 2 {
			label := theme.DefaultTheme.Muted.Render(item[0] + ":")
			table = table.Row(label, item[1])
		}
	}

	return table.String()
}

// SelectableTable renders a table for selection interfaces, with an arrow
// indicator to the left of the selected row.
func SelectableTable(headers []string, rows [][]string, selectedIndex int) string {
	t := theme.DefaultTheme

	// Pre-style headers with the theme's TableHeader style
	styledHeaders := make([]string, len(headers))
	for i, h := range headers {
		styledHeaders[i] = t.TableHeader.Render(h)
	}

	table := ltable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(styledHeaders...)

	// In the lipgloss table StyleFunc, rows set via .Headers() are styled
	// separately and row indices start at 0 for DATA rows only.
	table = table.StyleFunc(func(row, col int) lipgloss.Style {
		style := t.TableRow.Padding(0, 1)
		if t.UseAlternatingRows && row%2 == 1 {
			style = style.Background(theme.VerySubtleBackground)
		}
		return style
	})

	for _, r := range rows {
		table = table.Row(r...)
	}

	// Line layout of the rendered table with headers:
	// 0 top border, 1 header row, 2 separator, 3+ data rows.
	// Without headers the first data row is at line 1.
	var selectedLineIndex int
	if len(headers) > 0 {
		selectedLineIndex = 3 + selectedIndex
	} else {
		selectedLineIndex = 1 + selectedIndex
	}

	lines := strings.Split(table.String(), "\n")
	arrow := t.Highlight.Render(theme.IconArrowRightBold)

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == selectedLineIndex {
			b.WriteString(arrow + " " + line)
		} else {
			b.WriteString("  " + line)
		}
	}

	return b.String()
}
