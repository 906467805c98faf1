// Package demo is an in-memory stand-in for the plant backend. It serves every
// endpoint the dashboard calls, counts hits per route and can be told to fail
// a route, which makes it the fixture for dashboard tests as well as the
// backend of `plantdash demo`.
package demo

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/logging"
)

// Backend holds the demo state. All methods are safe for concurrent use.
type Backend struct {
	mu sync.Mutex

	now func() time.Time
	log *zap.Logger

	nextID  int
	plants  []*plantRecord
	types   []garden.PlantType
	tasks   []*taskRecord
	advice  climate.Advice
	pinned  bool
	tipSeq  int
	sensors bool
	empty   bool

	hits     map[string]int
	failures map[string]int
	router   *mux.Router
}

type plantRecord struct {
	ID      garden.ID
	Name    string
	TypeID  garden.ID
	Watered []garden.Date
}

type taskRecord struct {
	ID        garden.ID
	Name      string
	Frequency int
	Done      garden.Date
}

// Option customizes a Backend.
type Option func(*Backend)

// WithClock pins the backend's notion of today.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger logs every request at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.log = logging.OrNop(l) }
}

// Empty starts without seed plants, types or tasks.
func Empty() Option {
	return func(b *Backend) { b.empty = true }
}

// New returns a seeded backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		now:      time.Now,
		log:      zap.NewNop(),
		hits:     make(map[string]int),
		failures: make(map[string]int),
		sensors:  true,
		advice: climate.Advice{
			Icon:    "fas fa-lightbulb",
			Message: "Group humidity lovers together in winter.",
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	if !b.empty {
		b.seed()
	}
	b.router = b.routes()
	return b
}

func (b *Backend) id() garden.ID {
	b.nextID++
	return garden.ID(strconv.Itoa(b.nextID))
}

func (b *Backend) seed() {
	today := garden.NewDate(b.now())
	ago := func(days int) garden.Date {
		return garden.Date{Time: today.AddDate(0, 0, -days)}
	}
	ficus := garden.PlantType{ID: b.id(), Name: "Ficus", SummerWeeks: 1, WinterWeeks: 2}
	cactus := garden.PlantType{ID: b.id(), Name: "Cactus", SummerWeeks: 3, WinterWeeks: 6}
	fern := garden.PlantType{ID: b.id(), Name: "Boston Fern", SummerWeeks: 1, WinterWeeks: 1}
	b.types = []garden.PlantType{ficus, cactus, fern}

	b.plants = []*plantRecord{
		{ID: b.id(), Name: "Ficus", TypeID: ficus.ID, Watered: []garden.Date{ago(21), ago(7)}},
		{ID: b.id(), Name: "Prickly Pete", TypeID: cactus.ID, Watered: []garden.Date{ago(3)}},
		{ID: b.id(), Name: "Fernando", TypeID: fern.ID, Watered: []garden.Date{ago(9)}},
	}
	b.tasks = []*taskRecord{
		{ID: b.id(), Name: "Clean the windows", Frequency: 14, Done: ago(2)},
		{ID: b.id(), Name: "Change the filter", Frequency: 30, Done: ago(29)},
	}
}

// Handler returns the router serving every backend route.
func (b *Backend) Handler() http.Handler {
	return b.router
}

// Serve listens on addr until ctx is done.
func (b *Backend) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return b.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done. Callers that need the
// backend reachable before they continue listen first and hand ln over.
func (b *Backend) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           b.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	select {
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func routeKey(method, template string) string {
	return method + " " + template
}

// Hits returns how often method and route template were called, for example
// Hits("GET", "/plants") or Hits("DELETE", "/plant/{id}").
func (b *Backend) Hits(method, template string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[routeKey(method, template)]
}

// ResetHits forgets every counted request.
func (b *Backend) ResetHits() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits = make(map[string]int)
}

// Fail makes method on route template answer status until Recover is called.
// A status of zero drops the connection instead of answering.
func (b *Backend) Fail(method, template string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[routeKey(method, template)] = status
}

// Recover clears every injected failure.
func (b *Backend) Recover() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]int)
}

// SetAdvice pins what /smart_recommendation answers, overriding the
// recommendations derived from plants and tasks.
func (b *Backend) SetAdvice(a climate.Advice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advice = a
	b.pinned = true
}

// DisableSensors makes the sensor endpoints answer with their placeholder
// timestamps instead of readings.
func (b *Backend) DisableSensors() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sensors = false
}

// PlantNames lists the stored plants, sorted.
func (b *Backend) PlantNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.plants))
	for _, p := range b.plants {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func (b *Backend) typeByID(id garden.ID) (garden.PlantType, bool) {
	for _, t := range b.types {
		if t.ID == id {
			return t, true
		}
	}
	return garden.PlantType{}, false
}

func (b *Backend) typeByName(name string) (garden.PlantType, bool) {
	key := garden.RuleKey(name)
	for _, t := range b.types {
		if garden.RuleKey(t.Name) == key {
			return t, true
		}
	}
	return garden.PlantType{}, false
}

func (b *Backend) plantIndex(id garden.ID) int {
	for i, p := range b.plants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) taskIndex(id garden.ID) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) plantView(p *plantRecord, now time.Time) garden.Plant {
	out := garden.Plant{ID: p.ID, Name: p.Name, TypeID: p.TypeID}
	if t, ok := b.typeByID(p.TypeID); ok {
		out.TypeName = t.Name
		out.WateringFrequency = t.Interval(now)
	}
	if n := len(p.Watered); n > 0 {
		out.LastWatered = p.Watered[n-1]
		since := garden.DaysBetween(out.LastWatered.Time, now)
		out.DaysSinceWatered = &since
	}
	return out
}

func (b *Backend) taskView(t *taskRecord, now time.Time) garden.Task {
	out := garden.Task{ID: t.ID, Name: t.Name, FrequencyDays: t.Frequency, LastCompleted: t.Done}
	if !t.Done.IsZero() {
		since := garden.DaysBetween(t.Done.Time, now)
		urgency := garden.Remaining(since, t.Frequency)
		out.DaysSinceCompleted = &since
		out.UrgencyPercentage = &urgency
	}
	return out
}

// recommendation mirrors the backend's priority order: a thirsty plant, then
// an overdue task, then the configured advice.
func (b *Backend) recommendation(now time.Time) climate.Advice {
	if b.pinned {
		return b.advice
	}
	for _, p := range b.plants {
		if view := b.plantView(p, now); view.WateringFrequency > 0 && view.IsDue(now) {
			return climate.Advice{
				Icon:    "fas " + climate.AlertWatering,
				Message: fmt.Sprintf("%s needs water.", p.Name),
			}
		}
	}
	for _, t := range b.tasks {
		if b.taskView(t, now).Urgency(now) <= 0 {
			return climate.Advice{
				Icon:    "fas " + climate.AlertTask,
				Message: fmt.Sprintf("Time to %s.", lowerFirst(t.Name)),
			}
		}
	}
	return b.advice
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
