package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/plantdash/pkg/tui/render"
	"tableflip.dev/plantdash/pkg/tui/session"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

const modalInner = 46

var (
	globalHelp = []string{"[tab] switch", "[j/k] move", "[p] period", "[r] refresh", "[/] search", "[m] types", "[L] theme", "[q] quit"}
	plantHelp  = []string{"[a] add", "[e] edit", "[d] delete", "[w] water", "[h] history", "[i] tips"}
	taskHelp   = []string{"[a] add", "[c] complete", "[d] delete"}
)

// View renders the dashboard with any open modal on top.
func (m *Model) View() string {
	th := m.themes.Theme()
	width, height := m.width(), m.height()

	footer := m.footer(th, width)
	body := m.body(th, width)
	if m.termHeight > 0 {
		// Keep the footer on screen; the body is clipped from the bottom.
		avail := height - lipgloss.Height(footer)
		lines := strings.Split(body, "\n")
		if avail > 0 && len(lines) > avail {
			body = strings.Join(lines[:avail], "\n")
		}
	}
	screen := body + "\n" + footer

	fg := m.modalView(th)
	if fg == "" {
		return screen
	}
	if m.termHeight == 0 {
		return screen + "\n\n" + fg
	}
	return render.Overlay(screen, width, height, fg)
}

func (m *Model) body(th theme.Theme, width int) string {
	query := m.query
	if m.mode == modeSearch {
		query = m.search.Value()
	}
	parts := []string{
		render.Header(th, sections, int(m.focus), query, width),
		render.Advice(th, m.advice, m.adviceErr, "recommendation", width),
	}
	if m.weatherTip != nil || m.weatherTipErr != nil {
		parts = append(parts, render.Advice(th, m.weatherTip, m.weatherTipErr, "weather tip", width))
	}
	parts = append(parts,
		lipgloss.JoinHorizontal(lipgloss.Top,
			render.Weather(th, m.weather, m.weatherErr),
			render.Sensor(th, "Indoor", m.interior, m.interiorErr),
			render.Sensor(th, "Remote", m.distant, m.distantErr),
		),
		render.Chart(th, m.period, m.session.ChartView(), m.chartErr, m.chartLoading),
	)

	now := m.now()
	if m.focus == paneTasks {
		parts = append(parts, render.Tasks(th, render.TasksView{
			Tasks:    m.tasks,
			Err:      m.tasksErr,
			Loaded:   m.tasksLoaded,
			Selected: m.taskSel,
			Focused:  true,
			Busy:     m.taskBusy,
			Width:    width,
		}, now))
	} else {
		parts = append(parts, render.Plants(th, render.PlantsView{
			Plants:   m.visiblePlants(),
			Err:      m.plantsErr,
			Loaded:   m.plantsLoaded,
			Selected: m.plantSel,
			Focused:  true,
			Water:    m.water,
			Width:    width,
		}, now))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) footer(th theme.Theme, width int) string {
	if m.mode == modeSearch {
		return th.Footer.Status.Render(m.search.View()) + "\n" +
			th.Footer.Help.Render("[enter] keep filter  [esc] clear")
	}
	help := plantHelp
	if m.focus == paneTasks {
		help = taskHelp
	}
	return render.Footer(th, m.status, m.isError, append(append([]string{}, help...), globalHelp...), width)
}

func (m *Model) modalView(th theme.Theme) string {
	switch m.session.Modal() {
	case session.ModalAddPlant, session.ModalEditPlant, session.ModalAddTask, session.ModalManageTypes:
		if m.form == nil {
			return ""
		}
		return render.Form(th, m.form.view())
	case session.ModalConfirm:
		if m.confirm == nil {
			return ""
		}
		what := "plant"
		if m.confirm.kind == deleteTask {
			what = "task"
		}
		return render.Confirm(th, "Delete "+what, "Delete "+m.confirm.name+"? This cannot be undone.")
	case session.ModalAlert:
		return render.Alert(th, m.alert.title, m.alert.message)
	case session.ModalHistory, session.ModalTips:
		return render.Modal(th, m.title, m.viewer.View(), "[↑/↓] scroll  [esc] close")
	default:
		return ""
	}
}
