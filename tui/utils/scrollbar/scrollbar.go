// Package scrollbar renders a one-column scrollbar alongside viewport content.
package scrollbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/dotforge/dotkit/tui/theme"
)

// Generate creates scrollbar characters based on viewport position.
// Returns one string per line of the given height.
func Generate(vp *viewport.Model, height int) []string {
	if height <= 0 {
		return []string{}
	}

	muted := theme.DefaultTheme.Muted
	bar := make([]string, height)

	totalLines := vp.TotalLineCount()
	if totalLines == 0 {
		for i := range bar {
			bar[i] = muted.Render(" ")
		}
		return bar
	}

	// Content fits entirely, show a full thumb.
	if totalLines <= vp.Height {
		for i := range bar {
			bar[i] = muted.Render("█")
		}
		return bar
	}

	thumbSize := (height * vp.Height) / totalLines
	if thumbSize < 1 {
		thumbSize = 1
	}

	scrollPercent := vp.ScrollPercent()
	if scrollPercent < 0 {
		scrollPercent = 0
	}
	if scrollPercent > 1 {
		scrollPercent = 1
	}

	maxThumbStart := height - thumbSize
	thumbStart := int(float64(maxThumbStart)*scrollPercent + 0.5)
	if thumbStart < 0 {
		thumbStart = 0
	}
	if thumbStart > maxThumbStart {
		thumbStart = maxThumbStart
	}

	for i := range bar {
		if i >= thumbStart && i < thumbStart+thumbSize {
			bar[i] = muted.Render("█")
		} else {
			bar[i] = muted.Render("░")
		}
	}

	return bar
}

// Overlay appends scrollbar characters to each visible line of the viewport.
func Overlay(vp *viewport.Model) string {
	lines := strings.Split(vp.View(), "\n")
	bar := Generate(vp, len(lines))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if i < len(bar) {
			b.WriteString(bar[i])
		} else {
			b.WriteByte(' ')
		}
	}

	return b.String()
}
