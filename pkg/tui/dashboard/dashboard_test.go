package dashboard

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"tableflip.dev/plantdash/pkg/api"
	"tableflip.dev/plantdash/pkg/app"
	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/config"
	"tableflip.dev/plantdash/pkg/demo"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/metrics"
	"tableflip.dev/plantdash/pkg/tui/chart/charttest"
	"tableflip.dev/plantdash/pkg/tui/render"
	"tableflip.dev/plantdash/pkg/tui/session"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

var june = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	backend *demo.Backend
	charts  *charttest.Recorder
	metrics *metrics.Collector
}

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// newModel wires a dashboard to a seeded demo backend. Timers are disabled;
// tests deliver tick messages themselves.
func newModel(t *testing.T, setup ...func(*demo.Backend)) (*Model, *fixture) {
	t.Helper()
	clock := func() time.Time { return june }
	backend := demo.New(demo.WithClock(clock))
	for _, fn := range setup {
		fn(backend)
	}
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	fx := &fixture{
		backend: backend,
		charts:  &charttest.Recorder{},
		metrics: metrics.NewCollector("test", nil),
	}
	m := New(&app.Service{Backend: client, Routes: config.RoutesREST}, Options{
		Theme:   theme.NewController(nil, theme.WithDarkDetector(func() bool { return false })),
		Metrics: fx.metrics,
		Charts:  fx.charts.Factory(),
		Period:  "24h",
		Now:     clock,
	})
	m.schedule = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	t.Cleanup(m.Teardown)
	return m, fx
}

func drainCommands(t *testing.T, m *Model, cmds ...tea.Cmd) *Model {
	t.Helper()
	queue := append([]tea.Cmd(nil), cmds...)
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatalf("command queue did not settle")
		}
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		msg := cmd()
		switch v := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(v)...)
		default:
			next, nextCmd := m.Update(v)
			m = assertModel(t, next)
			if nextCmd != nil {
				queue = append(queue, nextCmd)
			}
		}
	}
	return m
}

func assertModel(t *testing.T, model tea.Model) *Model {
	t.Helper()
	m, ok := model.(*Model)
	if !ok {
		t.Fatalf("unexpected model type %T", model)
	}
	return m
}

func press(t *testing.T, m *Model, key string) *Model {
	t.Helper()
	r := []rune(key)[0]
	next, cmd := m.Update(tea.KeyPressMsg{Text: key, Code: r})
	return drainCommands(t, assertModel(t, next), cmd)
}

func started(t *testing.T, m *Model) *Model {
	t.Helper()
	return drainCommands(t, m, m.Init())
}

func selectPlant(t *testing.T, m *Model, name string) {
	t.Helper()
	for i, p := range m.visiblePlants() {
		if p.Name == name {
			m.plantSel = i
			return
		}
	}
	t.Fatalf("plant %q not listed", name)
}

func TestStartupLoadsEveryPanel(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)

	if len(m.visiblePlants()) != 3 || len(m.tasks) != 2 {
		t.Fatalf("expected 3 plants and 2 tasks, got %d and %d", len(m.visiblePlants()), len(m.tasks))
	}
	if m.weather == nil || m.interior == nil || m.distant == nil || m.advice == nil {
		t.Fatalf("expected every climate panel loaded")
	}
	if fx.charts.Created() != 1 {
		t.Fatalf("expected one chart, got %d", fx.charts.Created())
	}
	view := stripANSI(m.View())
	for _, want := range []string{"Ficus", "Prickly Pete", "Fernando", "Ficus needs water."} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q; view=%q", want, view)
		}
	}
}

func TestWeatherFailureDoesNotBlockPlants(t *testing.T) {
	m, _ := newModel(t, func(b *demo.Backend) {
		b.Fail(http.MethodGet, "/weather", http.StatusInternalServerError)
	})
	m = started(t, m)

	if m.weatherErr == nil {
		t.Fatalf("expected the weather load to fail")
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "Unable to load weather.") {
		t.Fatalf("expected weather placeholder; view=%q", view)
	}
	for _, name := range []string{"Ficus", "Prickly Pete", "Fernando"} {
		if !strings.Contains(view, name) {
			t.Fatalf("expected plant %q despite weather failure; view=%q", name, view)
		}
	}
}

func TestSlowTickKeepsAlertAndReloads(t *testing.T) {
	m, fx := newModel(t, func(b *demo.Backend) {
		b.SetAdvice(climate.Advice{Icon: "fas fa-tint", Message: "Ficus needs water."})
	})
	m = started(t, m)
	fx.backend.ResetHits()

	next, cmd := m.Update(slowTickMsg(june))
	m = drainCommands(t, assertModel(t, next), cmd)

	if got := fx.backend.Hits(http.MethodGet, "/smart_recommendation"); got != 1 {
		t.Fatalf("expected the recommendation reloaded once, got %d", got)
	}
	if got := fx.backend.Hits(http.MethodGet, "/random_tip"); got != 0 {
		t.Fatalf("a random tip must not be requested while an alert shows, got %d", got)
	}
	if fx.backend.Hits(http.MethodGet, "/plants") != 1 || fx.backend.Hits(http.MethodGet, "/tasks") != 1 {
		t.Fatalf("expected plants and tasks reloaded")
	}
	if m.advice == nil || m.advice.Message != "Ficus needs water." {
		t.Fatalf("alert replaced: %+v", m.advice)
	}
	if got := testutil.ToFloat64(fx.metrics.SchedulerTicks.WithLabelValues("slow", "recommendation")); got != 1 {
		t.Fatalf("expected one recorded slow tick, got %v", got)
	}
}

func TestSlowTickRotatesTipWithoutAlert(t *testing.T) {
	m, fx := newModel(t, func(b *demo.Backend) {
		b.SetAdvice(climate.Advice{Icon: "fas fa-lightbulb", Message: "All good."})
	})
	m = started(t, m)
	fx.backend.ResetHits()

	next, cmd := m.Update(slowTickMsg(june))
	m = drainCommands(t, assertModel(t, next), cmd)

	if got := fx.backend.Hits(http.MethodGet, "/random_tip"); got != 1 {
		t.Fatalf("expected one random tip, got %d", got)
	}
	if got := fx.backend.Hits(http.MethodGet, "/smart_recommendation"); got != 0 {
		t.Fatalf("expected no recommendation reload, got %d", got)
	}
	if m.advice == nil || m.advice.Message == "All good." {
		t.Fatalf("expected the tip in the banner, got %+v", m.advice)
	}
}

func TestLateTipNeverReplacesAlert(t *testing.T) {
	m, _ := newModel(t)
	m.advice = &climate.Advice{Icon: "fas fa-broom", Message: "Time to clean the windows."}

	m.Update(randomTipLoadedMsg{tip: &climate.Advice{Icon: "fas fa-lightbulb", Message: "Rotate pots."}})
	if m.advice.Message != "Time to clean the windows." {
		t.Fatalf("tip replaced the alert: %+v", m.advice)
	}
}

func TestFastTickReloadsSensors(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.ResetHits()

	next, cmd := m.Update(fastTickMsg(june))
	drainCommands(t, assertModel(t, next), cmd)

	for _, path := range []string{"/sensehat_latest", "/esp32_latest", "/weather_tip"} {
		if got := fx.backend.Hits(http.MethodGet, path); got != 1 {
			t.Fatalf("expected %s once, got %d", path, got)
		}
	}
	if got := fx.backend.Hits(http.MethodGet, "/plants"); got != 0 {
		t.Fatalf("fast tick must not reload plants, got %d", got)
	}
}

func TestDeleteFailureKeepsCardAndAlerts(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.Fail(http.MethodDelete, "/plant/{id}", http.StatusInternalServerError)
	selectPlant(t, m, "Fernando")

	m = press(t, m, "d")
	if m.session.Modal() != session.ModalConfirm {
		t.Fatalf("expected confirm prompt, got %s", m.session.Modal())
	}
	if got := fx.backend.Hits(http.MethodDelete, "/plant/{id}"); got != 0 {
		t.Fatalf("no request before confirming, got %d", got)
	}

	m = press(t, m, "y")
	if got := fx.backend.Hits(http.MethodDelete, "/plant/{id}"); got != 1 {
		t.Fatalf("expected one delete request, got %d", got)
	}
	if m.session.Modal() != session.ModalAlert {
		t.Fatalf("expected an alert, got %s", m.session.Modal())
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "injected failure") {
		t.Fatalf("expected the backend message in the alert; view=%q", view)
	}
	if _, ok := m.session.Plant(m.visiblePlants()[m.plantSel].ID); !ok || !strings.Contains(view, "Fernando") {
		t.Fatalf("card must stay after a failed delete; view=%q", view)
	}

	m = press(t, m, "q")
	if m.session.Modal() != session.ModalNone || m.closed {
		t.Fatalf("q closes the alert, not the dashboard")
	}
}

func TestDeleteCancelSendsNothing(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.ResetHits()

	m = press(t, m, "d")
	m = press(t, m, "n")
	if m.session.Modal() != session.ModalNone {
		t.Fatalf("expected the prompt closed")
	}
	if got := fx.backend.Hits(http.MethodDelete, "/plant/{id}"); got != 0 {
		t.Fatalf("cancel must not send a request, got %d", got)
	}
	if m.status != "Delete cancelled" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestDeleteTaskReloadsTasks(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	m = assertModel(t, next)
	if m.focus != paneTasks {
		t.Fatalf("expected task focus")
	}
	fx.backend.ResetHits()

	m = press(t, m, "d")
	m = press(t, m, "y")
	if got := fx.backend.Hits(http.MethodPost, "/delete_task/{id}"); got != 1 {
		t.Fatalf("expected one delete, got %d", got)
	}
	if len(m.tasks) != 1 {
		t.Fatalf("expected the task list reloaded, got %d tasks", len(m.tasks))
	}
}

func TestPeriodChangeDestroysPreviousChartOnce(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)

	m = press(t, m, "p")
	if m.period != "7d" {
		t.Fatalf("expected 7d, got %s", m.period)
	}
	if fx.charts.Created() != 2 {
		t.Fatalf("expected a second chart, got %d", fx.charts.Created())
	}
	first, second := fx.charts.Fakes[0], fx.charts.Fakes[1]
	if first.Destroys != 1 {
		t.Fatalf("previous chart destroyed %d times", first.Destroys)
	}
	if second.Destroys != 0 || second.Renders != 1 || second.LastCfg.Period != "7d" {
		t.Fatalf("unexpected new chart state %+v", second)
	}

	m.Teardown()
	m.Teardown()
	if second.Destroys != 1 || first.Destroys != 1 {
		t.Fatalf("teardown must destroy the live chart once; first=%d second=%d", first.Destroys, second.Destroys)
	}
}

func TestWaterFlow(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	selectPlant(t, m, "Ficus")
	id := m.visiblePlants()[m.plantSel].ID

	next, cmd := m.Update(tea.KeyPressMsg{Text: "w", Code: 'w'})
	m = assertModel(t, next)
	if m.water[id] != render.WaterBusy {
		t.Fatalf("expected the action disabled while watering")
	}
	if !strings.Contains(stripANSI(m.View()), "Watering…") {
		t.Fatalf("expected progress on the card")
	}
	// A second press while busy is ignored.
	_, again := m.Update(tea.KeyPressMsg{Text: "w", Code: 'w'})
	m = drainCommands(t, m, cmd, again)

	if got := fx.backend.Hits(http.MethodPost, "/plant/{id}/water"); got != 1 {
		t.Fatalf("expected one water request, got %d", got)
	}
	if m.water[id] != render.WaterDone {
		t.Fatalf("expected the success flash")
	}

	fx.backend.ResetHits()
	next, cmd = m.Update(waterFlashDoneMsg{id: id})
	m = drainCommands(t, assertModel(t, next), cmd)
	if _, busy := m.water[id]; busy {
		t.Fatalf("expected the action re-enabled")
	}
	if fx.backend.Hits(http.MethodGet, "/plants") != 1 || fx.backend.Hits(http.MethodGet, "/smart_recommendation") != 1 {
		t.Fatalf("expected plants and recommendation reloaded")
	}
	p, _ := m.session.Plant(id)
	if p.IsDue(june) {
		t.Fatalf("a watered plant is not due")
	}
}

func TestWaterFailureShowsAlert(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.Fail(http.MethodPost, "/plant/{id}/water", http.StatusBadRequest)

	m = press(t, m, "w")
	if len(m.water) != 0 {
		t.Fatalf("expected the action re-enabled, got %v", m.water)
	}
	if m.session.Modal() != session.ModalAlert {
		t.Fatalf("expected an alert, got %s", m.session.Modal())
	}
}

func TestAddPlantFormValidatesBeforeSending(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.ResetHits()

	next, _ := m.Update(tea.KeyPressMsg{Text: "a", Code: 'a'})
	m = assertModel(t, next)
	if m.session.Modal() != session.ModalAddPlant {
		t.Fatalf("expected the add form, got %s", m.session.Modal())
	}
	if m.form.field(fieldTypeName).hidden != true {
		t.Fatalf("new type fields start hidden for an existing type")
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.form == nil || m.form.err != "name is required" {
		t.Fatalf("expected a validation error, got %+v", m.form)
	}
	if got := fx.backend.Hits(http.MethodPost, "/plants"); got != 0 {
		t.Fatalf("invalid forms must not submit, got %d", got)
	}

	m.form.field(fieldName).input.SetValue("Monty")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !m.form.busy {
		t.Fatalf("expected the form busy while saving")
	}
	if !strings.Contains(stripANSI(m.View()), "Saving…") {
		t.Fatalf("expected the submit control to show progress")
	}
	// Input is ignored while saving.
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.form == nil {
		t.Fatalf("esc must be ignored while saving")
	}

	m = drainCommands(t, m, cmd)
	if m.session.Modal() != session.ModalNone {
		t.Fatalf("expected the form closed, got %s", m.session.Modal())
	}
	if len(m.visiblePlants()) != 4 {
		t.Fatalf("expected the new plant listed, got %d", len(m.visiblePlants()))
	}
}

func TestAddPlantFailureKeepsForm(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.Fail(http.MethodPost, "/plants", http.StatusConflict)

	next, _ := m.Update(tea.KeyPressMsg{Text: "a", Code: 'a'})
	m = assertModel(t, next)
	m.form.field(fieldName).input.SetValue("Monty")
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = drainCommands(t, m, cmd)

	if m.session.Modal() != session.ModalAddPlant || m.form == nil {
		t.Fatalf("expected the form to stay open")
	}
	if m.form.busy || !strings.Contains(m.form.err, "injected failure") {
		t.Fatalf("expected the error in the form, got %+v", m.form)
	}
}

func TestManageTypesSwitchesToUpdate(t *testing.T) {
	m, _ := newModel(t)
	m = started(t, m)

	next, _ := m.Update(tea.KeyPressMsg{Text: "m", Code: 'm'})
	m = assertModel(t, next)
	if m.form.submit != "Create" {
		t.Fatalf("expected Create, got %q", m.form.submit)
	}
	m.form.field(fieldName).input.SetValue("cactus")
	m.syncForm()
	if m.form.submit != "Update" {
		t.Fatalf("expected Update for a known type, got %q", m.form.submit)
	}
	if got := m.form.field(fieldSummerWeeks).value(); got != "3" {
		t.Fatalf("expected the summer rule prefilled, got %q", got)
	}
	m.form.field(fieldName).input.SetValue("Calathea")
	m.syncForm()
	if m.form.submit != "Create" {
		t.Fatalf("expected Create for an unknown type, got %q", m.form.submit)
	}
}

func TestSearchFiltersWithoutMutating(t *testing.T) {
	m, _ := newModel(t)
	m = started(t, m)

	m.query = "CACT"
	if got := m.visiblePlants(); len(got) != 1 || got[0].Name != "Prickly Pete" {
		t.Fatalf("unexpected filter result %v", got)
	}
	m.query = ""
	if len(m.visiblePlants()) != 3 {
		t.Fatalf("clearing the filter restores every plant")
	}
}

func TestThemeToggle(t *testing.T) {
	m, _ := newModel(t)
	before := m.themes.Mode()
	m = press(t, m, "L")
	if m.themes.Mode() == before {
		t.Fatalf("expected the theme toggled")
	}
	if !strings.Contains(m.status, m.themes.Mode().String()) {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestHistoryModal(t *testing.T) {
	m, _ := newModel(t)
	m = started(t, m)
	selectPlant(t, m, "Ficus")

	m = press(t, m, "h")
	if m.session.Modal() != session.ModalHistory {
		t.Fatalf("expected history modal, got %s", m.session.Modal())
	}
	want := garden.NewDate(june.AddDate(0, 0, -7)).String()
	if view := stripANSI(m.View()); !strings.Contains(view, want) {
		t.Fatalf("expected %s in history; view=%q", want, view)
	}
	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if assertModel(t, next).session.Modal() != session.ModalNone {
		t.Fatalf("esc closes the history")
	}
}

func TestCardIntervalComesFromType(t *testing.T) {
	m, _ := newModel(t)
	days := 3
	m.Update(typesLoadedMsg{types: []garden.PlantType{{ID: "9", Name: "Ficus", SummerWeeks: 1, WinterWeeks: 2}}})
	m.Update(plantsLoadedMsg{plants: []garden.Plant{{ID: "1", Name: "Ficus", TypeID: "9", DaysUntilWatering: &days}}})

	p := m.visiblePlants()[0]
	if p.Interval() != 7 || p.IsDue(june) || p.Tier(june) != garden.TierSoon {
		t.Fatalf("interval=%d due=%v tier=%s", p.Interval(), p.IsDue(june), p.Tier(june))
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "SOON") || !strings.Contains(view, "In 3 days") || strings.Contains(view, "OVERDUE") {
		t.Fatalf("expected a soon card due in 3 days; view=%q", view)
	}
	if cached, _ := m.session.Plant("1"); cached.WateringFrequency != 0 {
		t.Fatalf("the cache keeps the backend payload, got %d", cached.WateringFrequency)
	}
}

func TestBackgroundFailureKeepsOpenForm(t *testing.T) {
	m, _ := newModel(t)
	m = started(t, m)
	selectPlant(t, m, "Ficus")
	id := m.visiblePlants()[m.plantSel].ID

	next, _ := m.Update(tea.KeyPressMsg{Text: "a", Code: 'a'})
	m = assertModel(t, next)
	m.form.field(fieldName).input.SetValue("Fic")

	m.Update(wateredMsg{id: id, err: &api.Error{Status: http.StatusBadRequest, Message: "pump offline"}})
	m.Update(historyLoadedMsg{name: "Ficus", dates: []string{"2024-06-08"}})
	m.Update(tipsLoadedMsg{plantType: "Ficus", err: &api.Error{Status: http.StatusNotFound, Message: "No tips"}})

	if m.session.Modal() != session.ModalAddPlant || m.form == nil {
		t.Fatalf("the add form must stay open, got %s", m.session.Modal())
	}
	if got := m.form.field(fieldName).value(); got != "Fic" {
		t.Fatalf("typed name lost, got %q", got)
	}
	if !m.isError || !strings.Contains(m.status, "No tips") {
		t.Fatalf("expected the latest failure on the status line, got %q", m.status)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.session.Modal() != session.ModalNone || m.form != nil {
		t.Fatalf("esc closes the form, got %s", m.session.Modal())
	}
}

func TestBackgroundFailureKeepsConfirmation(t *testing.T) {
	m, _ := newModel(t)
	m = started(t, m)

	m = press(t, m, "d")
	m.Update(taskCompletedMsg{id: "x", err: &api.Error{Status: http.StatusInternalServerError, Message: "boom"}})
	if m.session.Modal() != session.ModalConfirm || m.confirm == nil {
		t.Fatalf("the delete prompt must stay open, got %s", m.session.Modal())
	}
	if !strings.Contains(m.status, "boom") {
		t.Fatalf("expected the failure on the status line, got %q", m.status)
	}
}

func TestManualRefresh(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.ResetHits()

	m = press(t, m, "r")
	if got := fx.backend.Hits(http.MethodPost, "/refresh/all"); got != 1 {
		t.Fatalf("expected one refresh request, got %d", got)
	}
	for _, path := range []string{"/plants", "/tasks", "/weather"} {
		if got := fx.backend.Hits(http.MethodGet, path); got != 1 {
			t.Fatalf("expected %s reloaded once, got %d", path, got)
		}
	}
	if m.status != "Refreshed" || m.isError {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestManualRefreshFailureStillReloads(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	fx.backend.Fail(http.MethodPost, "/refresh/all", http.StatusServiceUnavailable)
	fx.backend.ResetHits()

	m = press(t, m, "r")
	if !m.isError || !strings.HasPrefix(m.status, "Refresh failed: ") || !strings.Contains(m.status, "injected failure") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if got := fx.backend.Hits(http.MethodGet, "/plants"); got != 1 {
		t.Fatalf("plants must reload even when the refresh fails, got %d", got)
	}
	if len(m.visiblePlants()) != 3 || m.session.Modal() != session.ModalNone {
		t.Fatalf("expected the plants listed without an alert")
	}
}

func TestEditPlantFlow(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	selectPlant(t, m, "Fernando")
	fx.backend.ResetHits()

	next, cmd := m.Update(tea.KeyPressMsg{Text: "e", Code: 'e'})
	m = assertModel(t, next)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if loaded, ok := c().(plantLoadedMsg); ok {
				msg = loaded
			}
		}
	}
	if got := fx.backend.Hits(http.MethodGet, "/plant/{id}"); got != 1 {
		t.Fatalf("expected the plant fetched for the form, got %d", got)
	}
	next, _ = m.Update(msg)
	m = assertModel(t, next)
	if m.session.Modal() != session.ModalEditPlant {
		t.Fatalf("expected the edit form, got %s", m.session.Modal())
	}
	if got := m.form.field(fieldName).value(); got != "Fernando" {
		t.Fatalf("expected the name prefilled, got %q", got)
	}
	if got := m.form.field(fieldType).value(); got != "Boston Fern" {
		t.Fatalf("expected the type preselected, got %q", got)
	}

	m.form.field(fieldName).input.SetValue("Fern Gully")
	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = drainCommands(t, m, cmd)

	if got := fx.backend.Hits(http.MethodPut, "/plant/{id}"); got != 1 {
		t.Fatalf("expected one update, got %d", got)
	}
	if m.session.Modal() != session.ModalNone || m.status != "Plant saved" {
		t.Fatalf("expected the form closed with a status, got %s %q", m.session.Modal(), m.status)
	}
	names := fx.backend.PlantNames()
	found := false
	for _, n := range names {
		found = found || n == "Fern Gully"
	}
	if !found {
		t.Fatalf("backend not updated: %v", names)
	}
	if !strings.Contains(stripANSI(m.View()), "Fern Gully") {
		t.Fatalf("expected the reloaded list to show the new name")
	}
}

func TestCompleteTask(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	next, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	m = assertModel(t, next)
	for i, task := range m.tasks {
		if task.Name == "Change the filter" {
			m.taskSel = i
		}
	}
	fx.backend.ResetHits()

	m = press(t, m, "c")
	if got := fx.backend.Hits(http.MethodPost, "/complete_task/{id}"); got != 1 {
		t.Fatalf("expected one completion, got %d", got)
	}
	if m.status != "Task completed" || len(m.taskBusy) != 0 {
		t.Fatalf("unexpected state status=%q busy=%v", m.status, m.taskBusy)
	}
	for _, task := range m.tasks {
		if task.Name != "Change the filter" {
			continue
		}
		if elapsed, ok := task.Elapsed(june); !ok || elapsed != 0 {
			t.Fatalf("expected the task done today, got %d %v", elapsed, ok)
		}
	}
}

func TestTipsModal(t *testing.T) {
	m, fx := newModel(t)
	m = started(t, m)
	selectPlant(t, m, "Ficus")
	fx.backend.ResetHits()

	m = press(t, m, "i")
	if m.session.Modal() != session.ModalTips || m.title != "Tips: Ficus" {
		t.Fatalf("expected the tips modal, got %s %q", m.session.Modal(), m.title)
	}
	if got := fx.backend.Hits(http.MethodGet, "/tip_for_type/{type}"); got != 5 {
		t.Fatalf("expected five tip requests, got %d", got)
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "Tips: Ficus") {
		t.Fatalf("expected the tips title; view=%q", view)
	}
}
