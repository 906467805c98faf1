// Package dashboard hosts the Bubble Tea program for the plantdash TUI.
package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/app"
	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/logging"
	"tableflip.dev/plantdash/pkg/metrics"
	"tableflip.dev/plantdash/pkg/store"
	"tableflip.dev/plantdash/pkg/tui/chart"
	"tableflip.dev/plantdash/pkg/tui/render"
	"tableflip.dev/plantdash/pkg/tui/session"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
)

type pane int

const (
	panePlants pane = iota
	paneTasks
)

var sections = []string{"Plants", "Tasks"}

type deleteKind int

const (
	deletePlant deleteKind = iota
	deleteTask
)

type confirmation struct {
	kind deleteKind
	id   garden.ID
	name string
}

type alert struct {
	title   string
	message string
}

// Options configures a dashboard. Only Service is required.
type Options struct {
	Context context.Context
	Theme   *theme.Controller
	Prefs   store.Preferences
	Metrics *metrics.Collector
	Log     *zap.Logger
	// Charts builds chart adapters; nil draws terminal charts.
	Charts chart.Factory
	Period string
	Fast   time.Duration
	Slow   time.Duration
	Now    func() time.Time
}

// Model is the dashboard state. It is only mutated from Update.
type Model struct {
	svc     *app.Service
	ctx     context.Context
	cancel  context.CancelFunc
	session *session.Session
	themes  *theme.Controller
	prefs   store.Preferences
	metrics *metrics.Collector
	log     *zap.Logger
	now     func() time.Time
	fast    time.Duration
	slow    time.Duration
	// schedule arms a timer; tests swap it to keep ticks out of their command
	// queues.
	schedule func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	mode  mode
	focus pane

	plantsLoaded bool
	plantsErr    error
	plantSel     int
	water        map[garden.ID]render.WaterState
	types        []garden.PlantType
	typesErr     error
	rules        garden.Rules

	tasks       []garden.Task
	tasksLoaded bool
	tasksErr    error
	taskSel     int
	taskBusy    map[garden.ID]bool

	advice        *climate.Advice
	adviceErr     error
	weatherTip    *climate.Advice
	weatherTipErr error
	weather       *climate.Weather
	weatherErr    error
	interior      *climate.Sensor
	interiorErr   error
	distant       *climate.Sensor
	distantErr    error

	period       string
	series       []climate.Series
	overlay      *climate.ChartConfig
	chartErr     error
	chartLoading bool

	form    *form
	confirm *confirmation
	alert   alert
	viewer  viewport.Model
	title   string

	search textinput.Model
	query  string

	status  string
	isError bool

	termWidth  int
	termHeight int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
	closed      bool
}

// New builds a dashboard backed by svc.
func New(svc *app.Service, opts Options) *Model {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	themes := opts.Theme
	if themes == nil {
		themes = theme.NewController(opts.Prefs)
	}
	period := opts.Period
	if period == "" {
		period = "24h"
	}
	fast, slow := opts.Fast, opts.Slow
	if fast <= 0 {
		fast = 60 * time.Second
	}
	if slow <= 0 {
		slow = 30 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	si := textinput.New()
	si.Prompt = "/"
	si.Placeholder = "name or type"
	si.CharLimit = 40
	si.Styles.Cursor.Color = lipgloss.Color("218")

	return &Model{
		svc:      svc,
		ctx:      ctx,
		cancel:   cancel,
		session:  session.New(opts.Charts),
		themes:   themes,
		prefs:    opts.Prefs,
		metrics:  opts.Metrics,
		log:      logging.OrNop(opts.Log),
		now:      now,
		fast:     fast,
		slow:     slow,
		schedule: tea.Tick,
		water:    make(map[garden.ID]render.WaterState),
		taskBusy: make(map[garden.ID]bool),
		period:   period,
		viewer:   viewport.New(viewport.WithWidth(modalInner), viewport.WithHeight(12)),
		search:   si,
	}
}

// Init loads every panel concurrently and arms both refresh timers.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshAll(),
		m.fastTick(),
		m.slowTick(),
		startWatchCmd(m.ctx, m.prefs),
	)
}

// refreshAll issues one command per panel so each fails on its own.
func (m *Model) refreshAll() tea.Cmd {
	m.chartLoading = true
	return tea.Batch(
		m.loadRecommendation(),
		m.loadWeatherTip(),
		m.loadWeather(),
		m.loadInterior(),
		m.loadDistant(),
		m.loadGarden(),
		m.loadTasks(),
		m.loadChart(m.period),
	)
}

// Teardown releases the chart and stops background work. It is safe to call
// more than once.
func (m *Model) Teardown() {
	if m.closed {
		return
	}
	m.closed = true
	m.stopWatch()
	m.session.Teardown()
	m.cancel()
}

// Run starts the program in the alternate screen and tears the model down
// when it exits.
func Run(m *Model) error {
	defer m.Teardown()
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.isError = true
}

// visiblePlants is the cached plant list after the search filter, with
// intervals the backend left out taken from the loaded types.
func (m *Model) visiblePlants() []garden.Plant {
	return garden.ResolveIntervals(m.session.Plants(m.query), m.types, m.now())
}

func (m *Model) currentPlant() (garden.Plant, bool) {
	plants := m.visiblePlants()
	if m.plantSel < 0 || m.plantSel >= len(plants) {
		return garden.Plant{}, false
	}
	return plants[m.plantSel], true
}

func (m *Model) currentTask() (garden.Task, bool) {
	if m.taskSel < 0 || m.taskSel >= len(m.tasks) {
		return garden.Task{}, false
	}
	return m.tasks[m.taskSel], true
}

func (m *Model) clampSelection() {
	if n := len(m.visiblePlants()); m.plantSel >= n {
		m.plantSel = n - 1
	}
	if m.plantSel < 0 {
		m.plantSel = 0
	}
	if n := len(m.tasks); m.taskSel >= n {
		m.taskSel = n - 1
	}
	if m.taskSel < 0 {
		m.taskSel = 0
	}
}

func (m *Model) typeName(id garden.ID) string {
	for _, t := range m.types {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

// width and height fall back to a usable size before the first resize.
func (m *Model) width() int {
	if m.termWidth <= 0 {
		return 100
	}
	return m.termWidth
}

func (m *Model) height() int {
	if m.termHeight <= 0 {
		return 40
	}
	return m.termHeight
}

func (m *Model) chartConfig() chart.Config {
	w := m.width() - 14
	if w < 20 {
		w = 20
	}
	h := m.height() / 5
	if h < 4 {
		h = 4
	}
	return chart.Config{Period: m.period, Width: w, Height: h, Overlay: m.overlay}
}
