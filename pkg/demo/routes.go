package demo

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
)

func (b *Backend) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.instrument)

	r.HandleFunc("/plants", b.listPlants).Methods(http.MethodGet)
	r.HandleFunc("/plants", b.createPlant).Methods(http.MethodPost)
	r.HandleFunc("/add_plant", b.createPlantLegacy).Methods(http.MethodPost)
	r.HandleFunc("/plant/{id}", b.getPlant).Methods(http.MethodGet)
	r.HandleFunc("/plant/{id}", b.updatePlant).Methods(http.MethodPut)
	r.HandleFunc("/plant/{id}", b.deletePlant).Methods(http.MethodDelete)
	r.HandleFunc("/delete_plant/{id}", b.deletePlant).Methods(http.MethodPost)
	r.HandleFunc("/plant/{id}/water", b.waterPlant).Methods(http.MethodPost)
	r.HandleFunc("/watered/{id}", b.waterPlant).Methods(http.MethodPost)
	r.HandleFunc("/plant_history/{id}", b.plantHistory).Methods(http.MethodGet)

	r.HandleFunc("/plant_types", b.listTypes).Methods(http.MethodGet)
	r.HandleFunc("/plant_types", b.saveType).Methods(http.MethodPost)
	r.HandleFunc("/add_plant_type", b.saveType).Methods(http.MethodPost)
	r.HandleFunc("/plant_rules", b.listRules).Methods(http.MethodGet)

	r.HandleFunc("/tasks", b.listTasks).Methods(http.MethodGet)
	r.HandleFunc("/add_task", b.createTask).Methods(http.MethodPost)
	r.HandleFunc("/complete_task/{id}", b.completeTask).Methods(http.MethodPost)
	r.HandleFunc("/delete_task/{id}", b.deleteTask).Methods(http.MethodPost)

	r.HandleFunc("/weather", b.weather).Methods(http.MethodGet)
	r.HandleFunc("/alldata", b.allData).Methods(http.MethodGet)
	r.HandleFunc("/sensehat_latest", b.interior).Methods(http.MethodGet)
	r.HandleFunc("/esp32_latest", b.distant).Methods(http.MethodGet)
	r.HandleFunc("/history", b.history).Methods(http.MethodGet)
	r.HandleFunc("/config", b.chartConfig).Methods(http.MethodGet)
	r.HandleFunc("/refresh/all", b.refreshAll).Methods(http.MethodPost)

	r.HandleFunc("/smart_recommendation", b.smartRecommendation).Methods(http.MethodGet)
	r.HandleFunc("/random_tip", b.randomTip).Methods(http.MethodGet)
	r.HandleFunc("/weather_tip", b.weatherTip).Methods(http.MethodGet)
	r.HandleFunc("/tip_for_type/{type}", b.tipForType).Methods(http.MethodGet)
	return r
}

// instrument counts the hit and applies any injected failure before the
// handler runs.
func (b *Backend) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		template := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if t, err := route.GetPathTemplate(); err == nil {
				template = t
			}
		}
		key := routeKey(r.Method, template)

		b.mu.Lock()
		b.hits[key]++
		status, failing := b.failures[key]
		b.mu.Unlock()

		b.log.Debug("demo request", zap.String("route", key), zap.Bool("failing", failing))

		if !failing {
			next.ServeHTTP(w, r)
			return
		}
		if status == 0 {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
					return
				}
			}
			status = http.StatusBadGateway
		}
		sendError(w, fmt.Sprintf("injected failure on %s", key), status)
	})
}

func sendJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, garden.Confirmation{Status: "error", Message: message}, status)
}

func sendOK(w http.ResponseWriter, message string) {
	sendJSON(w, garden.Confirmation{Status: "success", Message: message}, http.StatusOK)
}

func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func pathID(r *http.Request) garden.ID {
	return garden.ID(mux.Vars(r)["id"])
}

func (b *Backend) listPlants(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	out := make([]garden.Plant, 0, len(b.plants))
	for _, p := range b.plants {
		out = append(out, b.plantView(p, now))
	}
	sendJSON(w, out, http.StatusOK)
}

func (b *Backend) getPlant(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.plantIndex(pathID(r))
	if i < 0 {
		sendError(w, "Plant not found", http.StatusNotFound)
		return
	}
	sendJSON(w, b.plantView(b.plants[i], b.now()), http.StatusOK)
}

func (b *Backend) createPlant(w http.ResponseWriter, r *http.Request) {
	var req garden.NewPlant
	if err := decode(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	var pt garden.PlantType
	switch {
	case req.IsNewType:
		if _, exists := b.typeByName(req.TypeName); exists {
			sendError(w, fmt.Sprintf("Type %q already exists", req.TypeName), http.StatusConflict)
			return
		}
		pt = garden.PlantType{ID: b.id(), Name: strings.TrimSpace(req.TypeName), SummerWeeks: req.SummerWeeks, WinterWeeks: req.WinterWeeks}
		b.types = append(b.types, pt)
	case req.TypeID != "":
		t, ok := b.typeByID(req.TypeID)
		if !ok {
			sendError(w, "Unknown type", http.StatusBadRequest)
			return
		}
		pt = t
	default:
		t, ok := b.typeByName(req.TypeName)
		if !ok {
			sendError(w, "Unknown type", http.StatusBadRequest)
			return
		}
		pt = t
	}

	now := b.now()
	rec := &plantRecord{ID: b.id(), Name: strings.TrimSpace(req.Name), TypeID: pt.ID}
	watered := garden.NewDate(now)
	if req.NextWatering != "" {
		next, _ := garden.ParseDate(req.NextWatering)
		watered = garden.Date{Time: next.AddDate(0, 0, -pt.Interval(now))}
	}
	rec.Watered = []garden.Date{watered}
	b.plants = append(b.plants, rec)
	sendJSON(w, garden.Confirmation{Status: "success", Message: fmt.Sprintf("%s added", rec.Name)}, http.StatusCreated)
}

func (b *Backend) createPlantLegacy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"nom"`
		Type string `json:"type"`
	}
	if err := decode(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		sendError(w, "name is required", http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	pt, ok := b.typeByName(req.Type)
	if !ok {
		pt, ok = b.typeByID(garden.ID(req.Type))
	}
	if !ok {
		sendError(w, "Unknown type", http.StatusBadRequest)
		return
	}
	rec := &plantRecord{ID: b.id(), Name: strings.TrimSpace(req.Name), TypeID: pt.ID, Watered: []garden.Date{garden.NewDate(b.now())}}
	b.plants = append(b.plants, rec)
	sendOK(w, fmt.Sprintf("%s added", rec.Name))
}

func (b *Backend) updatePlant(w http.ResponseWriter, r *http.Request) {
	var req garden.PlantUpdate
	if err := decode(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.plantIndex(pathID(r))
	if i < 0 {
		sendError(w, "Plant not found", http.StatusNotFound)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		b.plants[i].Name = name
	}
	if req.Type != "" {
		if _, ok := b.typeByID(req.Type); !ok {
			sendError(w, "Unknown type", http.StatusBadRequest)
			return
		}
		b.plants[i].TypeID = req.Type
	}
	sendOK(w, "Plant updated")
}

func (b *Backend) deletePlant(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.plantIndex(pathID(r))
	if i < 0 {
		sendError(w, "Plant not found", http.StatusNotFound)
		return
	}
	b.plants = append(b.plants[:i], b.plants[i+1:]...)
	sendOK(w, "Plant deleted")
}

func (b *Backend) waterPlant(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.plantIndex(pathID(r))
	if i < 0 {
		sendError(w, "Plant not found", http.StatusNotFound)
		return
	}
	b.plants[i].Watered = append(b.plants[i].Watered, garden.NewDate(b.now()))
	sendOK(w, fmt.Sprintf("%s watered", b.plants[i].Name))
}

func (b *Backend) plantHistory(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.plantIndex(pathID(r))
	if i < 0 {
		sendError(w, "Plant not found", http.StatusNotFound)
		return
	}
	watered := b.plants[i].Watered
	out := make([]string, 0, len(watered))
	for j := len(watered) - 1; j >= 0; j-- {
		out = append(out, watered[j].String())
	}
	sendJSON(w, out, http.StatusOK)
}

func (b *Backend) listTypes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]garden.PlantType, len(b.types))
	copy(out, b.types)
	sendJSON(w, out, http.StatusOK)
}

func (b *Backend) listRules(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rules := garden.Rules{}
	for _, t := range b.types {
		rules[garden.RuleKey(t.Name)] = garden.Rule{SummerWeeks: t.SummerWeeks, WinterWeeks: t.WinterWeeks}
	}
	sendJSON(w, rules, http.StatusOK)
}

// saveType accepts both the legacy TypeRule body and the {name, summer_freq,
// winter_freq} body. An existing type with the same key is updated in place.
func (b *Backend) saveType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		TypeName   string `json:"type_name"`
		SummerFreq int    `json:"summer_freq"`
		WinterFreq int    `json:"winter_freq"`
		Summer     int    `json:"summer_weeks"`
		Winter     int    `json:"winter_weeks"`
	}
	if err := decode(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	rule := garden.TypeRule{Name: req.Name, SummerWeeks: req.SummerFreq, WinterWeeks: req.WinterFreq}
	if rule.Name == "" {
		rule.Name = req.TypeName
	}
	if rule.SummerWeeks == 0 {
		rule.SummerWeeks = req.Summer
	}
	if rule.WinterWeeks == 0 {
		rule.WinterWeeks = req.Winter
	}
	if err := rule.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := garden.RuleKey(rule.Name)
	for i, t := range b.types {
		if garden.RuleKey(t.Name) == key {
			b.types[i].SummerWeeks = rule.SummerWeeks
			b.types[i].WinterWeeks = rule.WinterWeeks
			sendOK(w, fmt.Sprintf("%s updated", t.Name))
			return
		}
	}
	b.types = append(b.types, garden.PlantType{
		ID:          b.id(),
		Name:        strings.TrimSpace(rule.Name),
		SummerWeeks: rule.SummerWeeks,
		WinterWeeks: rule.WinterWeeks,
	})
	sendOK(w, fmt.Sprintf("%s added", rule.Name))
}

func (b *Backend) listTasks(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	out := make([]garden.Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, b.taskView(t, now))
	}
	sendJSON(w, out, http.StatusOK)
}

func (b *Backend) createTask(w http.ResponseWriter, r *http.Request) {
	var req garden.NewTask
	if err := decode(r, &req); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = append(b.tasks, &taskRecord{
		ID:        b.id(),
		Name:      strings.TrimSpace(req.Name),
		Frequency: req.FrequencyDays,
		Done:      garden.NewDate(b.now()),
	})
	sendOK(w, "Task added")
}

func (b *Backend) completeTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(pathID(r))
	if i < 0 {
		sendError(w, "Task not found", http.StatusNotFound)
		return
	}
	b.tasks[i].Done = garden.NewDate(b.now())
	sendOK(w, "Task completed")
}

func (b *Backend) deleteTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.taskIndex(pathID(r))
	if i < 0 {
		sendError(w, "Task not found", http.StatusNotFound)
		return
	}
	b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	sendOK(w, "Task deleted")
}

func ptr(v float64) *float64 {
	return &v
}

// wave is a smooth daily cycle peaking mid afternoon.
func wave(t time.Time, mean, amplitude float64) float64 {
	hours := float64(t.Hour()) + float64(t.Minute())/60
	v := mean + amplitude*math.Sin((hours-9)/24*2*math.Pi)
	return math.Round(v*10) / 10
}

func (b *Backend) weather(w http.ResponseWriter, r *http.Request) {
	now := b.now()
	temp := wave(now, 14, 6)
	sendJSON(w, climate.Weather{
		Temperature: ptr(temp),
		FeelsLike:   ptr(temp - 1.5),
		Humidity:    ptr(wave(now, 70, -15)),
		Pressure:    ptr(1016),
		Description: "partly cloudy",
		Icon:        "02d",
	}, http.StatusOK)
}

func (b *Backend) allData(w http.ResponseWriter, r *http.Request) {
	now := b.now()
	sendJSON(w, climate.Current{
		Temperature: ptr(wave(now, 21, 1.5)),
		Humidity:    ptr(wave(now, 48, -5)),
		Pressure:    ptr(1015.2),
		HeatIndex:   ptr(wave(now, 21.4, 1.5)),
	}, http.StatusOK)
}

func (b *Backend) interior(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	enabled := b.sensors
	b.mu.Unlock()
	if !enabled {
		sendJSON(w, climate.Sensor{Timestamp: climate.IndoorDisabled}, http.StatusOK)
		return
	}
	now := b.now()
	sendJSON(w, climate.Sensor{
		Temperature: ptr(wave(now, 21, 1.5)),
		Humidity:    ptr(wave(now, 48, -5)),
		Pressure:    ptr(1015.2),
		Timestamp:   now.Format("2006-01-02 15:04:05"),
	}, http.StatusOK)
}

func (b *Backend) distant(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	enabled := b.sensors
	b.mu.Unlock()
	if !enabled {
		sendJSON(w, climate.Sensor{Timestamp: climate.RemoteNoData}, http.StatusOK)
		return
	}
	now := b.now()
	sendJSON(w, climate.Sensor{
		Temperature: ptr(wave(now, 17, 3)),
		Humidity:    ptr(wave(now, 60, -8)),
		Timestamp:   now.Format("2006-01-02 15:04:05"),
	}, http.StatusOK)
}

var periodSteps = map[string]struct {
	span, step time.Duration
}{
	"8h":  {8 * time.Hour, 15 * time.Minute},
	"24h": {24 * time.Hour, 30 * time.Minute},
	"7d":  {7 * 24 * time.Hour, 3 * time.Hour},
	"30d": {30 * 24 * time.Hour, 12 * time.Hour},
}

type wirePoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

type wireDataset struct {
	Label string      `json:"label"`
	Data  []wirePoint `json:"data"`
}

func (b *Backend) history(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	steps, ok := periodSteps[period]
	if !ok {
		sendError(w, fmt.Sprintf("unknown period %q", period), http.StatusBadRequest)
		return
	}
	end := b.now().Truncate(steps.step)
	temp := wireDataset{Label: "Temperature (°C)"}
	hum := wireDataset{Label: "Humidity (%)"}
	for t := end.Add(-steps.span); !t.After(end); t = t.Add(steps.step) {
		x := t.Format("2006-01-02T15:04:05")
		temp.Data = append(temp.Data, wirePoint{X: x, Y: wave(t, 21, 1.5)})
		hum.Data = append(hum.Data, wirePoint{X: x, Y: wave(t, 48, -5)})
	}
	sendJSON(w, map[string]interface{}{"datasets": []wireDataset{temp, hum}}, http.StatusOK)
}

func (b *Backend) chartConfig(w http.ResponseWriter, r *http.Request) {
	day := b.now().Format("2006-01-02")
	sendJSON(w, climate.ChartConfig{
		Sunrise:  day + " 07:12",
		Sunset:   day + " 19:48",
		IdealMin: ptr(18),
		IdealMax: ptr(24),
	}, http.StatusOK)
}

func (b *Backend) refreshAll(w http.ResponseWriter, r *http.Request) {
	sendOK(w, "All sensors refreshed")
}

func (b *Backend) smartRecommendation(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sendJSON(w, b.recommendation(b.now()), http.StatusOK)
}

var randomTips = []climate.Advice{
	{Icon: "fas fa-lightbulb", Message: "Water in the morning so leaves dry before night."},
	{Icon: "fas fa-sun", Message: "Turn pots a quarter turn each week for even growth."},
	{Icon: "fas fa-seedling", Message: "Yellow lower leaves often mean too much water."},
}

func (b *Backend) randomTip(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	tip := randomTips[b.tipSeq%len(randomTips)]
	b.tipSeq++
	b.mu.Unlock()
	sendJSON(w, tip, http.StatusOK)
}

func (b *Backend) weatherTip(w http.ResponseWriter, r *http.Request) {
	temp := wave(b.now(), 14, 6)
	tip := climate.Advice{Icon: "fas fa-cloud-sun", Message: "Mild outside, a good day to air the room."}
	switch {
	case temp < 5:
		tip = climate.Advice{Icon: "fas fa-snowflake", Message: "Cold outside, keep plants away from the windows tonight."}
	case temp > 26:
		tip = climate.Advice{Icon: "fas fa-sun", Message: "Hot outside, check the soil of small pots this evening."}
	}
	sendJSON(w, tip, http.StatusOK)
}

var typeTips = []climate.TypeTip{
	{Category: "watering", Tip: "Let the top two centimetres of soil dry between waterings."},
	{Category: "light", Tip: "Bright indirect light, no afternoon sun."},
	{Category: "humidity", Tip: "Mist the leaves when the heating is on."},
}

// tipForType cycles through a short list so repeated calls return duplicates.
func (b *Backend) tipForType(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	tip := typeTips[b.tipSeq%len(typeTips)]
	b.tipSeq++
	b.mu.Unlock()
	if _, ok := b.typeByNameLocked(mux.Vars(r)["type"]); !ok {
		sendError(w, "No tips for this type", http.StatusNotFound)
		return
	}
	sendJSON(w, tip, http.StatusOK)
}

func (b *Backend) typeByNameLocked(name string) (garden.PlantType, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.typeByName(name)
}
