package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/plantdash/pkg/tui/theme"
)

// Header renders the title line with the section tabs.
func Header(th theme.Theme, sections []string, active int, query string, width int) string {
	tabs := make([]string, 0, len(sections))
	for i, s := range sections {
		if i == active {
			tabs = append(tabs, th.Header.ActiveTab.Render(s))
			continue
		}
		tabs = append(tabs, th.Header.Tab.Render(s))
	}
	line := th.Header.Title.Render("🌿 plantdash") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if query != "" {
		line += th.Footer.Status.Render("  filter: " + query)
	}
	return fit(line, width)
}

// Footer renders the status line above the key help.
func Footer(th theme.Theme, status string, isError bool, help []string, width int) string {
	style := th.Footer.Status
	if isError {
		style = th.Footer.Error
	}
	lines := []string{}
	if status != "" {
		lines = append(lines, style.Render(fit(status, width)))
	}
	lines = append(lines, th.Footer.Help.Render(wrap(strings.Join(help, "  "), width)))
	return strings.Join(lines, "\n")
}
