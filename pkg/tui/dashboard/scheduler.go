package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
)

// Ticks carry the time they fired at.
type fastTickMsg time.Time

type slowTickMsg time.Time

func (m *Model) fastTick() tea.Cmd {
	return m.schedule(m.fast, func(t time.Time) tea.Msg { return fastTickMsg(t) })
}

func (m *Model) slowTick() tea.Cmd {
	return m.schedule(m.slow, func(t time.Time) tea.Msg { return slowTickMsg(t) })
}

// onFastTick refreshes the sensors and the weather tip, then re-arms. Earlier
// requests still in flight are not cancelled; whichever answer lands last is
// shown.
func (m *Model) onFastTick(cmds *[]tea.Cmd) {
	for _, loader := range []string{"interior", "distant", "weather_tip"} {
		m.metrics.RecordTick("fast", loader)
	}
	*cmds = append(*cmds, m.loadInterior(), m.loadDistant(), m.loadWeatherTip(), m.fastTick())
}

// onSlowTick keeps an active alert on screen: while the banner shows a
// watering, task or heating alert the underlying data is reloaded instead of
// rotating in a random tip.
func (m *Model) onSlowTick(cmds *[]tea.Cmd) {
	if m.alertShown() {
		for _, loader := range []string{"plants", "tasks", "recommendation"} {
			m.metrics.RecordTick("slow", loader)
		}
		*cmds = append(*cmds, m.loadPlants(), m.loadTasks(), m.loadRecommendation())
	} else {
		m.metrics.RecordTick("slow", "random_tip")
		*cmds = append(*cmds, m.loadRandomTip())
	}
	*cmds = append(*cmds, m.slowTick())
}

func (m *Model) alertShown() bool {
	return m.advice != nil && m.adviceErr == nil && m.advice.IsAlert()
}
