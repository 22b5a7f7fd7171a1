// Package components provides small rendering helpers shared by dotkit's
// interactive commands.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dotforge/dotkit/tui/theme"
)

// RenderHeader creates a consistent header for TUIs
func RenderHeader(title string, subtitle ...string) string {
	t := theme.DefaultTheme

	header := t.Header.Render(fmt.Sprintf("%s %s", theme.IconLink, title))

	if len(subtitle) > 0 && subtitle[0] != "" {
		sub := t.Muted.Render(subtitle[0])
		return lipgloss.JoinVertical(lipgloss.Left, header, sub)
	}

	return header
}
