package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tableflip.dev/plantdash/pkg/api"
	"tableflip.dev/plantdash/pkg/config"
	"tableflip.dev/plantdash/pkg/demo"
	"tableflip.dev/plantdash/pkg/garden"
)

var june = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T, routes string) (*Service, *demo.Backend) {
	t.Helper()
	backend := demo.New(demo.WithClock(func() time.Time { return june }))
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return &Service{Backend: client, Routes: routes}, backend
}

func findPlant(t *testing.T, plants []garden.Plant, name string) garden.Plant {
	t.Helper()
	for _, p := range plants {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("plant %q not found in %v", name, plants)
	return garden.Plant{}
}

func TestPlantsDecodeSeededGarden(t *testing.T) {
	svc, _ := newService(t, config.RoutesREST)
	plants, err := svc.Plants(context.Background())
	if err != nil {
		t.Fatalf("plants: %v", err)
	}
	if len(plants) != 3 {
		t.Fatalf("expected 3 plants, got %d", len(plants))
	}
	ficus := findPlant(t, plants, "Ficus")
	if ficus.Interval() != 7 {
		t.Fatalf("expected a summer interval of 7 days, got %d", ficus.Interval())
	}
	if got := ficus.Status(june); got != "Water today" {
		t.Fatalf("unexpected status %q", got)
	}
	if !ficus.IsDue(june) {
		t.Fatalf("ficus should be due")
	}
}

func TestTasksDecode(t *testing.T) {
	svc, _ := newService(t, config.RoutesREST)
	tasks, err := svc.Tasks(context.Background())
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Urgency(june) <= 0 || task.Urgency(june) > 100 {
			t.Fatalf("urgency out of range for %s: %v", task.Name, task.Urgency(june))
		}
	}
}

func TestMutationRoutesFollowStyle(t *testing.T) {
	cases := []struct {
		routes string
		call   func(*Service, garden.ID) error
		method string
		route  string
	}{{
		routes: config.RoutesREST,
		call:   func(s *Service, id garden.ID) error { _, err := s.WaterPlant(context.Background(), id); return err },
		method: http.MethodPost,
		route:  "/plant/{id}/water",
	}, {
		routes: config.RoutesLegacy,
		call:   func(s *Service, id garden.ID) error { _, err := s.WaterPlant(context.Background(), id); return err },
		method: http.MethodPost,
		route:  "/watered/{id}",
	}, {
		routes: config.RoutesREST,
		call:   func(s *Service, id garden.ID) error { _, err := s.DeletePlant(context.Background(), id); return err },
		method: http.MethodDelete,
		route:  "/plant/{id}",
	}, {
		routes: config.RoutesLegacy,
		call:   func(s *Service, id garden.ID) error { _, err := s.DeletePlant(context.Background(), id); return err },
		method: http.MethodPost,
		route:  "/delete_plant/{id}",
	}}
	for _, tc := range cases {
		t.Run(tc.routes+" "+tc.route, func(t *testing.T) {
			svc, backend := newService(t, tc.routes)
			if err := tc.call(svc, "4"); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got := backend.Hits(tc.method, tc.route); got != 1 {
				t.Fatalf("expected one %s %s, got %d", tc.method, tc.route, got)
			}
		})
	}
}

func TestWaterPlantRestartsInterval(t *testing.T) {
	svc, _ := newService(t, config.RoutesREST)
	conf, err := svc.WaterPlant(context.Background(), "4")
	if err != nil {
		t.Fatalf("water: %v", err)
	}
	if conf.Status != "success" {
		t.Fatalf("unexpected confirmation %#v", conf)
	}
	plants, _ := svc.Plants(context.Background())
	ficus := findPlant(t, plants, "Ficus")
	if ficus.IsDue(june) || ficus.Status(june) != "In 7 days" {
		t.Fatalf("watered ficus should not be due, got %q", ficus.Status(june))
	}
	history, err := svc.PlantHistory(context.Background(), "4")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 || history[0] != "2024-06-15" {
		t.Fatalf("expected newest watering first, got %v", history)
	}
}

func TestDeleteFailureLeavesPlant(t *testing.T) {
	svc, backend := newService(t, config.RoutesREST)
	backend.Fail(http.MethodDelete, "/plant/{id}", http.StatusInternalServerError)

	_, err := svc.DeletePlant(context.Background(), "5")
	if !api.IsStatus(err, http.StatusInternalServerError) {
		t.Fatalf("expected a 500 error, got %v", err)
	}
	if !strings.Contains(api.Message(err), "injected failure") {
		t.Fatalf("expected the backend message, got %q", api.Message(err))
	}
	if got := len(backend.PlantNames()); got != 3 {
		t.Fatalf("failed delete must not remove anything, have %d plants", got)
	}
}

func TestAddPlantWithNewType(t *testing.T) {
	svc, _ := newService(t, config.RoutesREST)
	ctx := context.Background()
	_, err := svc.AddPlant(ctx, garden.NewPlant{
		Name:        "Monty",
		IsNewType:   true,
		TypeName:    "Monstera Deliciosa",
		SummerWeeks: 1,
		WinterWeeks: 3,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	rules, err := svc.PlantRules(ctx)
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	rule, ok := rules.Lookup(" monstera deliciosa ")
	if !ok || rule.WinterWeeks != 3 {
		t.Fatalf("expected new rule, got %#v %v", rule, ok)
	}
	types, err := svc.PlantTypes(ctx)
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	if len(types) != 4 || types[0].Name != "Ficus" || types[3].Name != "Monstera Deliciosa" {
		t.Fatalf("expected the backend order with the new type last, got %v", types)
	}
}

func TestAddPlantLegacyUsesTypeName(t *testing.T) {
	svc, backend := newService(t, config.RoutesLegacy)
	if _, err := svc.AddPlant(context.Background(), garden.NewPlant{Name: "Spike", TypeName: "Cactus"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if backend.Hits(http.MethodPost, "/add_plant") != 1 {
		t.Fatalf("legacy add should post /add_plant")
	}
}

func TestUpdatePlantChangesType(t *testing.T) {
	svc, _ := newService(t, config.RoutesREST)
	ctx := context.Background()
	if _, err := svc.UpdatePlant(ctx, "4", garden.PlantUpdate{Name: "Fig", Type: "2"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	p, err := svc.Plant(ctx, "4")
	if err != nil {
		t.Fatalf("plant: %v", err)
	}
	if p.Name != "Fig" || p.TypeName != "Cactus" {
		t.Fatalf("unexpected plant after update %#v", p)
	}
}

func TestSavePlantTypeUpdatesExisting(t *testing.T) {
	for _, routes := range []string{config.RoutesREST, config.RoutesLegacy} {
		t.Run(routes, func(t *testing.T) {
			svc, _ := newService(t, routes)
			ctx := context.Background()
			if _, err := svc.SavePlantType(ctx, garden.TypeRule{Name: "cactus", SummerWeeks: 4, WinterWeeks: 8}); err != nil {
				t.Fatalf("save: %v", err)
			}
			rules, _ := svc.PlantRules(ctx)
			if rules["cactus"].SummerWeeks != 4 {
				t.Fatalf("expected updated rule, got %#v", rules["cactus"])
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	svc, _ := newService(t, config.RoutesREST)
	ctx := context.Background()
	if _, err := svc.AddTask(ctx, garden.NewTask{Name: "Repot", FrequencyDays: 90}); err != nil {
		t.Fatalf("add task: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, "8"); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.DeleteTask(ctx, "7"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, _ := svc.Tasks(ctx)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Urgency(june) != 100 {
			t.Fatalf("%s should be fresh, urgency %v", task.Name, task.Urgency(june))
		}
	}
}

func TestChartSurvivesMissingConfig(t *testing.T) {
	svc, backend := newService(t, config.RoutesREST)
	backend.Fail(http.MethodGet, "/config", http.StatusNotFound)

	chart, err := svc.Chart(context.Background(), "24h")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if chart.Config != nil {
		t.Fatalf("config should be absent")
	}
	if len(chart.History.Series) != 2 || len(chart.History.Series[0].Points) == 0 {
		t.Fatalf("unexpected history %#v", chart.History)
	}
}

func TestChartFailsWithHistory(t *testing.T) {
	svc, backend := newService(t, config.RoutesREST)
	backend.Fail(http.MethodGet, "/history", http.StatusInternalServerError)
	if _, err := svc.Chart(context.Background(), "7d"); err == nil {
		t.Fatalf("expected history failure to fail the chart")
	}
}

func TestTipsForTypeDeduplicates(t *testing.T) {
	svc, backend := newService(t, config.RoutesREST)
	tips, err := svc.TipsForType(context.Background(), "Ficus", 0)
	if err != nil {
		t.Fatalf("tips: %v", err)
	}
	if got := backend.Hits(http.MethodGet, "/tip_for_type/{type}"); got != 5 {
		t.Fatalf("expected 5 requests, got %d", got)
	}
	if len(tips) != 3 {
		t.Fatalf("expected 3 distinct tips, got %v", tips)
	}
}

func TestSensorsPlaceholders(t *testing.T) {
	svc, backend := newService(t, config.RoutesREST)
	backend.DisableSensors()
	in, err := svc.Interior(context.Background())
	if err != nil {
		t.Fatalf("interior: %v", err)
	}
	out, err := svc.Distant(context.Background())
	if err != nil {
		t.Fatalf("distant: %v", err)
	}
	if in.Temperature != nil || out.Temperature != nil {
		t.Fatalf("placeholders carry no reading")
	}
}

func TestMissingBackendAndID(t *testing.T) {
	var svc Service
	if _, err := svc.Plants(context.Background()); !errors.Is(err, errNoBackend) {
		t.Fatalf("expected errNoBackend, got %v", err)
	}
	svc2, _ := newService(t, config.RoutesREST)
	if _, err := svc2.WaterPlant(context.Background(), ""); !errors.Is(err, errNoID) {
		t.Fatalf("expected errNoID, got %v", err)
	}
}
