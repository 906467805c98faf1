package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

// WaterState is the state of a plant's water action.
type WaterState int

const (
	WaterIdle WaterState = iota
	// WaterBusy disables the action while the request is in flight.
	WaterBusy
	// WaterDone is the short success flash.
	WaterDone
)

// WaterLabel is the text of a plant's water action in state s.
func WaterLabel(s WaterState) string {
	switch s {
	case WaterBusy:
		return "Watering…"
	case WaterDone:
		return "✓ Watered"
	default:
		return "[w] Water now"
	}
}

// PlantsView is everything the plant cards depend on.
type PlantsView struct {
	Plants   []garden.Plant
	Err      error
	Loaded   bool
	Selected int
	Focused  bool
	Water    map[garden.ID]WaterState
	Width    int
}

// Plants renders one card per plant.
func Plants(th theme.Theme, v PlantsView, now time.Time) string {
	switch {
	case v.Err != nil:
		return th.Panel.Error.Render(Unavailable("plants"))
	case !v.Loaded:
		return th.Panel.Muted.Render(Loading)
	case len(v.Plants) == 0:
		return th.Panel.Muted.Render("No plants found.")
	}
	cards := make([]string, 0, len(v.Plants))
	for i, p := range v.Plants {
		selected := v.Focused && i == v.Selected
		cards = append(cards, PlantCard(th, p, v.Water[p.ID], selected, now))
	}
	return grid(cards, v.Width)
}

// PlantCard renders a single plant.
func PlantCard(th theme.Theme, p garden.Plant, water WaterState, selected bool, now time.Time) string {
	inner := cardWidth - 4
	tier := p.Tier(now)

	name := th.Card.Name.Render(fit(p.Name, inner-len(tier.String())-1))
	badge := th.Card.Tier(tier).Render(strings.ToUpper(tier.String()))
	gap := inner - lipgloss.Width(name) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	header := name + strings.Repeat(" ", gap) + badge

	meta := th.Card.Meta.Render(fit(fmt.Sprintf("%s · %s", p.Label(), wateredText(p, now)), inner))
	bar := Bar(th.Card, tier, p.Remaining(now), inner-5)
	status := th.Card.Tier(tier).Render(p.Status(now))

	action := th.Card.Action
	switch water {
	case WaterBusy:
		action = th.Card.Busy
	case WaterDone:
		action = th.Card.Done
	}

	frame := th.Card.Frame
	if selected {
		frame = th.Card.Selected
	}
	body := lipgloss.JoinVertical(lipgloss.Left, header, meta, bar, status, action.Render(WaterLabel(water)))
	return frame.Width(cardWidth).Render(body)
}

func wateredText(p garden.Plant, now time.Time) string {
	if p.LastWatered.IsZero() && p.DaysSinceWatered == nil && p.DaysUntilWatering == nil {
		return "never watered"
	}
	switch elapsed := p.Elapsed(now); elapsed {
	case 0:
		return "watered today"
	default:
		return fmt.Sprintf("watered %s ago", garden.DayCount(elapsed))
	}
}

// TasksView is everything the task cards depend on.
type TasksView struct {
	Tasks    []garden.Task
	Err      error
	Loaded   bool
	Selected int
	Focused  bool
	Busy     map[garden.ID]bool
	Width    int
}

// Tasks renders one card per task.
func Tasks(th theme.Theme, v TasksView, now time.Time) string {
	switch {
	case v.Err != nil:
		return th.Panel.Error.Render(Unavailable("tasks"))
	case !v.Loaded:
		return th.Panel.Muted.Render(Loading)
	case len(v.Tasks) == 0:
		return th.Panel.Muted.Render("No tasks yet.")
	}
	cards := make([]string, 0, len(v.Tasks))
	for i, t := range v.Tasks {
		cards = append(cards, TaskCard(th, t, v.Busy[t.ID], v.Focused && i == v.Selected, now))
	}
	return grid(cards, v.Width)
}

// TaskCard renders a single task.
func TaskCard(th theme.Theme, t garden.Task, busy, selected bool, now time.Time) string {
	inner := cardWidth - 4
	tier := t.Tier(now)

	name := th.Card.Name.Render(fit(t.Name, inner))
	meta := th.Card.Meta.Render(fit(t.FrequencyText()+" · "+doneText(t, now), inner))
	bar := Bar(th.Card, tier, t.Urgency(now), inner-5)

	label, style := "[c] Complete", th.Card.Action
	if busy {
		label, style = "Saving…", th.Card.Busy
	}
	frame := th.Card.Frame
	if selected {
		frame = th.Card.Selected
	}
	body := lipgloss.JoinVertical(lipgloss.Left, name, meta, bar, style.Render(label))
	return frame.Width(cardWidth).Render(body)
}

func doneText(t garden.Task, now time.Time) string {
	elapsed, ok := t.Elapsed(now)
	switch {
	case !ok:
		return "never done"
	case elapsed == 0:
		return "done today"
	default:
		return fmt.Sprintf("done %s ago", garden.DayCount(elapsed))
	}
}
