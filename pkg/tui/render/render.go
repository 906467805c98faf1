// Package render turns already loaded data into terminal regions. Every
// function is a pure function of its inputs and always renders the whole
// region, so calling it twice with the same input gives the same string.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

const (
	barWidth  = 20
	cardWidth = 34
	ellipsis  = "…"
)

// Unavailable is the placeholder a read-only panel shows when its load failed.
func Unavailable(what string) string {
	return fmt.Sprintf("Unable to load %s.", what)
}

// Loading is shown before the first answer arrives.
const Loading = "Loading…"

// Bar draws a remaining-percentage bar. Filled cells fade from the tier color
// towards the track color; empty cells use the track color.
func Bar(card theme.CardTheme, tier garden.Tier, remaining float64, width int) string {
	if width <= 0 {
		width = barWidth
	}
	filled := int(math.Round(remaining / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	from, err := colorful.Hex(card.TierColors[tier])
	if err != nil {
		from = colorful.Color{}
	}
	track, err := colorful.Hex(card.BarTrack)
	if err != nil {
		track = colorful.Color{R: 0.5, G: 0.5, B: 0.5}
	}

	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			shade := from.BlendLab(track, 0.35*float64(i)/float64(width)).Clamped()
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(shade.Hex())).Render("█"))
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(track.Hex())).Render("░"))
	}
	return fmt.Sprintf("%s %3.0f%%", b.String(), remaining)
}

// fit truncates s to width cells, marking the cut.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return truncate.StringWithTail(s, uint(width), ellipsis)
}

// wrap word-wraps s to width cells.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wordwrap.String(s, width)
}

// grid lays cards out left to right, wrapping rows to width.
func grid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	perRow := 1
	if w := lipgloss.Width(cards[0]); w > 0 && width > w {
		perRow = width / (w + 1)
		if perRow < 1 {
			perRow = 1
		}
	}
	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := i + perRow
		if end > len(cards) {
			end = len(cards)
		}
		row := make([]string, 0, 2*(end-i))
		for j, c := range cards[i:end] {
			if j > 0 {
				row = append(row, " ")
			}
			row = append(row, c)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// reading formats an optional measurement; nil renders as "--".
func reading(v *float64, unit string) string {
	if v == nil {
		return "-- " + unit
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}
