package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/plantdash/pkg/tui/theme"
)

const modalWidth = 52

// Modal frames a titled body with a key hint line.
func Modal(th theme.Theme, title, body, hint string) string {
	parts := []string{th.Modal.Title.Render(title), "", body}
	if hint != "" {
		parts = append(parts, "", th.Modal.Hint.Render(hint))
	}
	return th.Modal.Frame.Width(modalWidth).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// Confirm is the blocking yes/no prompt.
func Confirm(th theme.Theme, title, message string) string {
	body := th.Modal.Danger.Render(wrap(message, modalWidth-6))
	return Modal(th, title, body, "[y] confirm  [n/esc] cancel")
}

// Alert is the blocking error dialog shown when a mutation fails.
func Alert(th theme.Theme, title, message string) string {
	body := th.Modal.Body.Render(wrap(message, modalWidth-6))
	return Modal(th, title, body, "[enter/esc] close")
}

// HistoryContent lists watering dates, newest first, for the history modal.
func HistoryContent(dates []string) string {
	if len(dates) == 0 {
		return "No watering recorded yet."
	}
	lines := make([]string, len(dates))
	for i, d := range dates {
		lines[i] = "💧 " + d
	}
	return strings.Join(lines, "\n")
}

// TipsContent lists care tips for the tips modal.
func TipsContent(tips []string) string {
	if len(tips) == 0 {
		return "No tips for this type yet."
	}
	lines := make([]string, len(tips))
	for i, tip := range tips {
		lines[i] = wrap("• "+tip, modalWidth-6)
	}
	return strings.Join(lines, "\n")
}

// Field is one rendered form input.
type Field struct {
	Label   string
	Input   string
	Focused bool
	Hidden  bool
}

// FormView describes a form modal.
type FormView struct {
	Title  string
	Fields []Field
	Submit string
	Busy   bool
	Error  string
	Note   string
}

// Form renders a form modal. While busy the submit control reads "Saving…".
func Form(th theme.Theme, v FormView) string {
	var rows []string
	for _, f := range v.Fields {
		if f.Hidden {
			continue
		}
		label := th.Modal.Label.Render(f.Label)
		if f.Focused {
			label = th.Modal.Title.Render("› " + f.Label)
		}
		rows = append(rows, label, "  "+f.Input)
	}
	if v.Note != "" {
		rows = append(rows, "", th.Modal.Label.Render(wrap(v.Note, modalWidth-6)))
	}
	if v.Error != "" {
		rows = append(rows, "", th.Modal.Danger.Render(wrap(v.Error, modalWidth-6)))
	}
	submit := "[enter] " + v.Submit
	if v.Busy {
		submit = "Saving…"
	}
	rows = append(rows, "", th.Modal.Body.Render(submit))
	return Modal(th, v.Title, lipgloss.JoinVertical(lipgloss.Left, rows...), "[tab] next field  [esc] cancel")
}

// Overlay draws fg centered over the width×height background. Rows covered by
// the overlay are replaced whole so styled background text is never cut
// mid-sequence.
func Overlay(background string, width, height int, fg string) string {
	bg := strings.Split(background, "\n")
	if len(bg) > height {
		bg = bg[:height]
	}
	for len(bg) < height {
		bg = append(bg, "")
	}
	if fg == "" {
		return strings.Join(bg, "\n")
	}
	fgLines := strings.Split(fg, "\n")
	if len(fgLines) > height {
		fgLines = fgLines[:height]
	}
	top := (height - len(fgLines)) / 2
	for i, line := range fgLines {
		if lipgloss.Width(line) > width {
			line = truncate.String(line, uint(width))
		}
		bg[top+i] = lipgloss.PlaceHorizontal(width, lipgloss.Center, line)
	}
	return strings.Join(bg, "\n")
}
