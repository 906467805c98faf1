// Package printers writes plantdash data for the non-interactive commands.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
)

// PrettyPrint renders tables to Out, color.Output when nil.
type PrettyPrint struct {
	Out    io.Writer
	Now    time.Time
	ShowID bool
}

var tierColors = map[garden.Tier]*color.Color{
	garden.TierSafe:    color.New(color.FgGreen),
	garden.TierSoon:    color.New(color.FgYellow),
	garden.TierDue:     color.New(color.FgHiRed),
	garden.TierOverdue: color.New(color.FgRed, color.Bold),
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)
	if count == 1 {
		_, _ = c.Fprintln(pp.out(), " "+noun)
	} else {
		_, _ = c.Fprintln(pp.out(), " "+noun+"s")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) table(header ...interface{}) *uitable.Table {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.ShowID {
		header = append([]interface{}{"ID"}, header...)
	}
	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = bold.Sprint(h)
	}
	tbl.AddRow(cells...)
	return tbl
}

func (pp *PrettyPrint) row(tbl *uitable.Table, id garden.ID, cells ...interface{}) {
	if pp.ShowID {
		y := color.New(color.FgHiYellow, color.Italic, color.Faint)
		cells = append([]interface{}{y.Sprint(id.String())}, cells...)
	}
	tbl.AddRow(cells...)
}

// Plants prints one row per plant with its status tier.
func (pp *PrettyPrint) Plants(plants []garden.Plant) {
	pp.TitleWithCount("Plants", len(plants), "plant")
	if len(plants) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := pp.table("Name", "Type", "Every", "Last watered", "Status")
	for _, p := range plants {
		tier := p.Tier(now)
		last := "never"
		switch {
		case !p.LastWatered.IsZero():
			last = p.LastWatered.String()
		case p.DaysSinceWatered != nil:
			last = garden.DayCount(*p.DaysSinceWatered) + " ago"
		}
		pp.row(tbl, p.ID, p.Name, p.Label(), garden.DayCount(p.Interval()), last,
			tierColors[tier].Sprintf("%-8s %s", strings.ToUpper(tier.String()), p.Status(now)))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Tasks prints one row per task with its urgency.
func (pp *PrettyPrint) Tasks(tasks []garden.Task) {
	pp.TitleWithCount("Tasks", len(tasks), "task")
	if len(tasks) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := pp.table("Task", "Frequency", "Last done", "Remaining")
	for _, t := range tasks {
		last := "never"
		if elapsed, ok := t.Elapsed(now); ok {
			last = garden.DayCount(elapsed) + " ago"
		}
		tier := t.Tier(now)
		pp.row(tbl, t.ID, t.Name, t.FrequencyText(), last, tierColors[tier].Sprintf("%3.0f%%", t.Urgency(now)))
	}
	tbl.RightAlign(len(tbl.Rows[0].Cells) - 1)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Types prints the watering rules with the interval in effect today.
func (pp *PrettyPrint) Types(types []garden.PlantType) {
	pp.TitleWithCount("Plant types", len(types), "type")
	if len(types) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	season := garden.SeasonFor(now.Month())
	tbl := pp.table("Type", "Summer", "Winter", "Now ("+string(season)+")")
	for _, t := range garden.SortTypes(types) {
		pp.row(tbl, t.ID, t.Name,
			fmt.Sprintf("%dw", t.SummerWeeks), fmt.Sprintf("%dw", t.WinterWeeks),
			garden.DayCount(t.Interval(now)))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Snapshot prints the weather and both sensors.
func (pp *PrettyPrint) Snapshot(w *climate.Weather, interior, distant *climate.Sensor) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "

	if w != nil && w.Valid() {
		tbl.AddRow(bold.Sprint("Outside"), fmt.Sprintf("%s %s", climate.IconFor(w.Icon).Glyph(), w.Description),
			reading(w.Temperature, "°C"), reading(w.Humidity, "%"), reading(w.Pressure, "hPa"))
	} else {
		tbl.AddRow(bold.Sprint("Outside"), faint.Sprint("unavailable"))
	}
	for _, s := range []struct {
		name   string
		sensor *climate.Sensor
	}{{"Indoor", interior}, {"Remote", distant}} {
		switch {
		case s.sensor == nil:
			tbl.AddRow(bold.Sprint(s.name), faint.Sprint("unavailable"))
		case s.sensor.State() == climate.SensorDisabled:
			tbl.AddRow(bold.Sprint(s.name), faint.Sprint("sensor disabled"))
		case s.sensor.State() != climate.SensorReading:
			tbl.AddRow(bold.Sprint(s.name), faint.Sprint("waiting for data"))
		default:
			tbl.AddRow(bold.Sprint(s.name), "at "+s.sensor.Clock(),
				reading(s.sensor.Temperature, "°C"), reading(s.sensor.Humidity, "%"), reading(s.sensor.Pressure, "hPa"))
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func reading(v *float64, unit string) string {
	if v == nil {
		return "-- " + unit
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}

// JSON writes v as indented JSON.
func JSON(out io.Writer, v interface{}) error {
	if out == nil {
		out = color.Output
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
