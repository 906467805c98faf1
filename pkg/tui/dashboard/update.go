package dashboard

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/api"
	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/tui/render"
	"tableflip.dev/plantdash/pkg/tui/session"
)

const flashDuration = 1500 * time.Millisecond

var errNameRequired = errors.New("name is required")

type wateredMsg struct {
	id  garden.ID
	err error
}

type waterFlashDoneMsg struct {
	id garden.ID
}

type deletedMsg struct {
	target confirmation
	err    error
}

type taskCompletedMsg struct {
	id  garden.ID
	err error
}

type plantLoadedMsg struct {
	plant *garden.Plant
	err   error
}

type historyLoadedMsg struct {
	name  string
	dates []string
	err   error
}

type tipsLoadedMsg struct {
	plantType string
	tips      []string
	err       error
}

// Update applies one message. Every command result funnels through here, so
// the model needs no locking.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.viewer.SetHeight(max(4, m.height()/2))
		if c := m.session.Chart(); c != nil && len(m.series) > 0 {
			if err := c.Render(m.series, m.chartConfig()); err != nil {
				m.chartErr = err
			}
		}

	case recommendationLoadedMsg:
		m.advice, m.adviceErr = msg.advice, msg.err
		if msg.err != nil {
			m.log.Info("recommendation unavailable", zap.Error(msg.err))
		}
	case randomTipLoadedMsg:
		switch {
		case msg.err != nil:
			m.log.Info("random tip unavailable", zap.Error(msg.err))
		case m.alertShown():
			// An alert arrived while the tip was in flight; it stays.
		default:
			m.advice, m.adviceErr = msg.tip, nil
		}
	case weatherTipLoadedMsg:
		m.weatherTip, m.weatherTipErr = msg.tip, msg.err
	case weatherLoadedMsg:
		m.weather, m.weatherErr = msg.weather, msg.err
	case sensorLoadedMsg:
		if msg.kind == sensorDistant {
			m.distant, m.distantErr = msg.sensor, msg.err
		} else {
			m.interior, m.interiorErr = msg.sensor, msg.err
		}
	case plantsLoadedMsg:
		m.plantsLoaded = true
		m.plantsErr = msg.err
		if msg.err == nil {
			m.session.SetPlants(msg.plants)
		}
		m.clampSelection()
	case typesLoadedMsg:
		m.typesErr = msg.err
		if msg.err == nil {
			m.types = garden.SortTypes(msg.types)
		}
	case rulesLoadedMsg:
		if msg.err == nil {
			m.rules = msg.rules
		}
	case tasksLoadedMsg:
		m.tasksLoaded = true
		m.tasksErr = msg.err
		if msg.err == nil {
			m.tasks = msg.tasks
		}
		m.clampSelection()
	case chartLoadedMsg:
		m.onChartLoaded(msg)
	case refreshedMsg:
		if msg.err != nil {
			m.setError("Refresh failed: " + api.Message(msg.err))
		} else {
			m.setStatus("Refreshed")
		}
		cmds = append(cmds, m.refreshAll())

	case fastTickMsg:
		m.onFastTick(&cmds)
	case slowTickMsg:
		m.onSlowTick(&cmds)

	case wateredMsg:
		if msg.err != nil {
			delete(m.water, msg.id)
			m.showAlert("Watering failed", api.Message(msg.err))
			break
		}
		m.water[msg.id] = render.WaterDone
		cmds = append(cmds, m.schedule(flashDuration, func(time.Time) tea.Msg {
			return waterFlashDoneMsg{id: msg.id}
		}))
	case waterFlashDoneMsg:
		delete(m.water, msg.id)
		cmds = append(cmds, m.loadPlants(), m.loadRecommendation())
	case deletedMsg:
		m.onDeleted(msg, &cmds)
	case taskCompletedMsg:
		delete(m.taskBusy, msg.id)
		if msg.err != nil {
			m.showAlert("Could not complete task", api.Message(msg.err))
			break
		}
		m.setStatus("Task completed")
		cmds = append(cmds, m.loadTasks(), m.loadRecommendation())
	case formSavedMsg:
		m.onFormSaved(msg, &cmds)
	case plantLoadedMsg:
		if msg.err != nil {
			m.showAlert("Could not load plant", api.Message(msg.err))
			break
		}
		if m.session.Modal() != session.ModalNone {
			m.setStatus("Edit of " + msg.plant.Name + " skipped: a dialog is open")
			break
		}
		m.beginEditPlant(*msg.plant, &cmds)
	case historyLoadedMsg:
		if msg.err != nil {
			m.showAlert("Could not load history", api.Message(msg.err))
			break
		}
		m.openViewer(session.ModalHistory, "Watering history: "+msg.name, render.HistoryContent(msg.dates))
	case tipsLoadedMsg:
		if msg.err != nil {
			m.showAlert("Could not load tips", api.Message(msg.err))
			break
		}
		m.openViewer(session.ModalTips, "Tips: "+msg.plantType, render.TipsContent(msg.tips))

	case watchStartedMsg:
		if msg.err != nil {
			m.log.Warn("preference watch unavailable", zap.Error(msg.err))
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		if m.themes.Reload() {
			m.setStatus("Theme: " + m.themes.Mode().String())
		}
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
		if !m.closed {
			cmds = append(cmds, startWatchCmd(m.ctx, m.prefs))
		}

	case tea.KeyPressMsg:
		m.handleKeyPress(msg, &cmds)
	default:
		m.forwardToInputs(msg, &cmds)
	}

	return m, tea.Batch(cmds...)
}

// forwardToInputs hands cursor blinks and similar messages to whichever input
// is focused.
func (m *Model) forwardToInputs(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.form != nil:
		if cur := m.form.focused(); cur != nil && cur.choices == nil {
			cur.input, cmd = cur.input.Update(msg)
		}
	case m.mode == modeSearch:
		m.search, cmd = m.search.Update(msg)
	case m.session.Modal() == session.ModalHistory || m.session.Modal() == session.ModalTips:
		m.viewer, cmd = m.viewer.Update(msg)
	}
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) onChartLoaded(msg chartLoadedMsg) {
	if msg.period != m.period {
		return
	}
	m.chartLoading = false
	if msg.err != nil {
		m.chartErr = msg.err
		return
	}
	m.chartErr = nil
	m.series = nil
	if msg.chart.History != nil {
		m.series = msg.chart.History.Series
	}
	m.overlay = msg.chart.Config
	if err := m.session.ReplaceChart(m.series, m.chartConfig()); err != nil {
		m.chartErr = err
	}
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	if msg.String() == "ctrl+c" {
		m.quit(cmds)
		return true
	}
	switch m.session.Modal() {
	case session.ModalAddPlant, session.ModalEditPlant, session.ModalAddTask, session.ModalManageTypes:
		return m.handleFormKey(msg, cmds)
	case session.ModalConfirm:
		return m.handleConfirmKey(msg, cmds)
	case session.ModalAlert:
		return m.handleAlertKey(msg)
	case session.ModalHistory, session.ModalTips:
		return m.handleViewerKey(msg, cmds)
	}
	if m.mode == modeSearch {
		return m.handleSearchKey(msg, cmds)
	}
	return m.handleNormalKey(msg, cmds)
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "q":
		m.quit(cmds)
	case "tab":
		if m.focus == panePlants {
			m.focus = paneTasks
		} else {
			m.focus = panePlants
		}
	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)
	case "p":
		m.period = climate.NextPeriod(m.period)
		m.chartLoading = true
		m.setStatus("Loading " + m.period + " history…")
		*cmds = append(*cmds, m.loadChart(m.period))
	case "r":
		m.setStatus("Refreshing…")
		*cmds = append(*cmds, m.refreshBackend())
	case "/":
		m.mode = modeSearch
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		if cmd := m.search.Focus(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		*cmds = append(*cmds, textinput.Blink)
	case "m":
		m.beginManageTypes(cmds)
	case "L":
		mode, err := m.themes.Toggle()
		if err != nil {
			m.setError("Theme not saved: " + err.Error())
			break
		}
		m.setStatus("Theme: " + mode.String())
	case "a":
		if m.focus == paneTasks {
			m.beginAddTask(cmds)
		} else {
			m.beginAddPlant(cmds)
		}
	case "d":
		m.beginDelete()
	default:
		if m.focus == paneTasks {
			m.handleTaskKey(msg, cmds)
		} else {
			m.handlePlantKey(msg, cmds)
		}
	}
	return true
}

func (m *Model) handlePlantKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	p, ok := m.currentPlant()
	if !ok {
		return
	}
	svc, ctx := m.svc, m.ctx
	switch msg.String() {
	case "w":
		if m.water[p.ID] != render.WaterIdle {
			return
		}
		m.water[p.ID] = render.WaterBusy
		id := p.ID
		*cmds = append(*cmds, func() tea.Msg {
			_, err := svc.WaterPlant(ctx, id)
			return wateredMsg{id: id, err: err}
		})
	case "e":
		id := p.ID
		*cmds = append(*cmds, func() tea.Msg {
			plant, err := svc.Plant(ctx, id)
			return plantLoadedMsg{plant: plant, err: err}
		})
	case "h":
		id, name := p.ID, p.Name
		*cmds = append(*cmds, func() tea.Msg {
			dates, err := svc.PlantHistory(ctx, id)
			return historyLoadedMsg{name: name, dates: dates, err: err}
		})
	case "i":
		label := p.Label()
		if name := m.typeName(p.TypeID); name != "" {
			label = name
		}
		*cmds = append(*cmds, func() tea.Msg {
			tips, err := svc.TipsForType(ctx, label, 0)
			return tipsLoadedMsg{plantType: label, tips: tips, err: err}
		})
	}
}

func (m *Model) handleTaskKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) {
	t, ok := m.currentTask()
	if !ok {
		return
	}
	switch msg.String() {
	case "c", "enter":
		if m.taskBusy[t.ID] {
			return
		}
		m.taskBusy[t.ID] = true
		svc, ctx, id := m.svc, m.ctx, t.ID
		*cmds = append(*cmds, func() tea.Msg {
			_, err := svc.CompleteTask(ctx, id)
			return taskCompletedMsg{id: id, err: err}
		})
	}
}

func (m *Model) moveSelection(delta int) {
	if m.focus == paneTasks {
		m.taskSel += delta
	} else {
		m.plantSel += delta
	}
	m.clampSelection()
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "esc":
		m.query = ""
		m.exitSearch()
		m.setStatus("Filter cleared")
		return true
	case "enter":
		m.exitSearch()
		return true
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	m.query = m.search.Value()
	m.plantSel = 0
	m.clampSelection()
	return true
}

func (m *Model) exitSearch() {
	m.mode = modeNormal
	m.search.Blur()
	m.clampSelection()
}

func (m *Model) beginDelete() {
	var target confirmation
	if m.focus == paneTasks {
		t, ok := m.currentTask()
		if !ok {
			return
		}
		target = confirmation{kind: deleteTask, id: t.ID, name: t.Name}
	} else {
		p, ok := m.currentPlant()
		if !ok {
			return
		}
		target = confirmation{kind: deletePlant, id: p.ID, name: p.Name}
	}
	m.confirm = &target
	m.session.OpenModal(session.ModalConfirm)
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "y", "Y":
		target := *m.confirm
		m.confirm = nil
		m.session.CloseModal()
		m.setStatus("Deleting " + target.name + "…")
		svc, ctx := m.svc, m.ctx
		*cmds = append(*cmds, func() tea.Msg {
			var err error
			if target.kind == deleteTask {
				_, err = svc.DeleteTask(ctx, target.id)
			} else {
				_, err = svc.DeletePlant(ctx, target.id)
			}
			return deletedMsg{target: target, err: err}
		})
	case "n", "N", "esc", "q":
		m.confirm = nil
		m.session.CloseModal()
		m.setStatus("Delete cancelled")
	}
	return true
}

// onDeleted never removes a card itself; the list is reloaded from the backend
// on success and left alone on failure.
func (m *Model) onDeleted(msg deletedMsg, cmds *[]tea.Cmd) {
	if msg.err != nil {
		m.setStatus("")
		m.showAlert("Could not delete "+msg.target.name, api.Message(msg.err))
		return
	}
	m.setStatus("Deleted " + msg.target.name)
	if msg.target.kind == deleteTask {
		*cmds = append(*cmds, m.loadTasks(), m.loadRecommendation())
		return
	}
	*cmds = append(*cmds, m.loadPlants(), m.loadRecommendation())
}

// editing reports whether a form or confirmation holds input the user has not
// submitted yet. Background results must not replace those.
func (m *Model) editing() bool {
	return m.form != nil || m.confirm != nil
}

// showAlert opens a blocking alert, or reports on the status line while the
// user is editing.
func (m *Model) showAlert(title, message string) {
	if m.editing() {
		m.setError(title + ": " + message)
		return
	}
	m.alert = alert{title: title, message: message}
	m.session.OpenModal(session.ModalAlert)
}

func (m *Model) handleAlertKey(msg tea.KeyPressMsg) bool {
	switch msg.String() {
	case "enter", "esc", "q":
		m.alert = alert{}
		m.session.CloseModal()
	}
	return true
}

func (m *Model) openViewer(modal session.Modal, title, content string) {
	if m.editing() || m.session.Modal() == session.ModalAlert {
		m.setStatus(title + " not shown: a dialog is open")
		return
	}
	m.title = title
	m.viewer.SetContent(content)
	m.viewer.SetYOffset(0)
	m.session.OpenModal(modal)
}

func (m *Model) handleViewerKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "esc", "q", "enter":
		m.session.CloseModal()
		return true
	}
	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)
	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	return true
}

func (m *Model) quit(cmds *[]tea.Cmd) {
	m.Teardown()
	*cmds = append(*cmds, tea.Quit)
}
