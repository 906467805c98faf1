package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/plantdash/pkg/app"
	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/store"
)

type recommendationLoadedMsg struct {
	advice *climate.Advice
	err    error
}

type randomTipLoadedMsg struct {
	tip *climate.Advice
	err error
}

type weatherTipLoadedMsg struct {
	tip *climate.Advice
	err error
}

type weatherLoadedMsg struct {
	weather *climate.Weather
	err     error
}

type sensorKind int

const (
	sensorInterior sensorKind = iota
	sensorDistant
)

type sensorLoadedMsg struct {
	kind   sensorKind
	sensor *climate.Sensor
	err    error
}

type plantsLoadedMsg struct {
	plants []garden.Plant
	err    error
}

type typesLoadedMsg struct {
	types []garden.PlantType
	err   error
}

type rulesLoadedMsg struct {
	rules garden.Rules
	err   error
}

type tasksLoadedMsg struct {
	tasks []garden.Task
	err   error
}

type chartLoadedMsg struct {
	period string
	chart  *app.Chart
	err    error
}

type refreshedMsg struct {
	err error
}

func (m *Model) loadRecommendation() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		a, err := svc.Recommendation(ctx)
		return recommendationLoadedMsg{advice: a, err: err}
	}
}

func (m *Model) loadRandomTip() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		a, err := svc.RandomTip(ctx)
		return randomTipLoadedMsg{tip: a, err: err}
	}
}

func (m *Model) loadWeatherTip() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		a, err := svc.WeatherTip(ctx)
		return weatherTipLoadedMsg{tip: a, err: err}
	}
}

func (m *Model) loadWeather() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		w, err := svc.Weather(ctx)
		return weatherLoadedMsg{weather: w, err: err}
	}
}

func (m *Model) loadSensor(kind sensorKind) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	load := svc.Interior
	if kind == sensorDistant {
		load = svc.Distant
	}
	return func() tea.Msg {
		s, err := load(ctx)
		return sensorLoadedMsg{kind: kind, sensor: s, err: err}
	}
}

func (m *Model) loadInterior() tea.Cmd { return m.loadSensor(sensorInterior) }

func (m *Model) loadDistant() tea.Cmd { return m.loadSensor(sensorDistant) }

func (m *Model) loadPlants() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		plants, err := svc.Plants(ctx)
		return plantsLoadedMsg{plants: plants, err: err}
	}
}

// loadGarden reloads plants, types and rules as three independent requests.
func (m *Model) loadGarden() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return tea.Batch(
		m.loadPlants(),
		func() tea.Msg {
			types, err := svc.PlantTypes(ctx)
			return typesLoadedMsg{types: types, err: err}
		},
		func() tea.Msg {
			rules, err := svc.PlantRules(ctx)
			return rulesLoadedMsg{rules: rules, err: err}
		},
	)
}

func (m *Model) loadTasks() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		tasks, err := svc.Tasks(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m *Model) loadChart(period string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		c, err := svc.Chart(ctx, period)
		return chartLoadedMsg{period: period, chart: c, err: err}
	}
}

func (m *Model) refreshBackend() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.RefreshAll(ctx)
		return refreshedMsg{err: err}
	}
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, prefs store.Preferences) tea.Cmd {
	if prefs == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := prefs.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}
