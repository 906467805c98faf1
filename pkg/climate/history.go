package climate

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Periods the chart can be asked for, shortest first.
var Periods = []string{"8h", "24h", "7d", "30d"}

// NextPeriod cycles through Periods.
func NextPeriod(current string) string {
	for i, p := range Periods {
		if p == current {
			return Periods[(i+1)%len(Periods)]
		}
	}
	return Periods[0]
}

// Point is one sample of a series.
type Point struct {
	At    time.Time
	Value float64
}

// Series is an ordered run of samples for one measured quantity.
type Series struct {
	Label  string
	Points []Point
}

// Span is the time between the first and last sample.
func (s Series) Span() time.Duration {
	if len(s.Points) < 2 {
		return 0
	}
	return s.Points[len(s.Points)-1].At.Sub(s.Points[0].At)
}

// History is a chart payload. Backends have served three shapes over time:
//
//	{"datasets":[{"label":..,"data":[{"x":..,"y":..}]}]}
//	{"labels":[..],"datasets":[{"label":..,"data":[numbers]}]}
//	{"datetime":[..],"temp":[..],"hum":[..],"pres":[..],"heat_index":[..]}
//
// All of them decode to the same list of series.
type History struct {
	Series []Series
}

type wireDataset struct {
	Label string            `json:"label"`
	Data  []json.RawMessage `json:"data"`
}

type wireHistory struct {
	Labels    []string      `json:"labels"`
	Datasets  []wireDataset `json:"datasets"`
	Datetime  []string      `json:"datetime"`
	Temp      []*float64    `json:"temp"`
	Hum       []*float64    `json:"hum"`
	Pres      []*float64    `json:"pres"`
	HeatIndex []*float64    `json:"heat_index"`
}

type wirePoint struct {
	X string   `json:"x"`
	Y *float64 `json:"y"`
}

func (h *History) UnmarshalJSON(b []byte) error {
	var w wireHistory
	if err := json.Unmarshal(b, &w); err != nil {
		return fmt.Errorf("climate: invalid history: %w", err)
	}
	h.Series = nil
	if len(w.Datasets) > 0 {
		for _, ds := range w.Datasets {
			s, err := decodeDataset(ds, w.Labels)
			if err != nil {
				return err
			}
			h.Series = append(h.Series, s)
		}
		return nil
	}
	if len(w.Datetime) == 0 {
		return nil
	}
	times := make([]time.Time, len(w.Datetime))
	for i, raw := range w.Datetime {
		t, err := ParseTime(raw)
		if err != nil {
			return err
		}
		times[i] = t
	}
	columns := []struct {
		label  string
		values []*float64
	}{
		{"Temperature (°C)", w.Temp},
		{"Heat index (°C)", w.HeatIndex},
		{"Humidity (%)", w.Hum},
		{"Pressure (hPa)", w.Pres},
	}
	for _, col := range columns {
		if len(col.values) == 0 {
			continue
		}
		s := Series{Label: col.label}
		for i, v := range col.values {
			if v == nil || i >= len(times) {
				continue
			}
			s.Points = append(s.Points, Point{At: times[i], Value: *v})
		}
		h.Series = append(h.Series, s)
	}
	return nil
}

func decodeDataset(ds wireDataset, labels []string) (Series, error) {
	s := Series{Label: ds.Label}
	for i, raw := range ds.Data {
		var p wirePoint
		if err := json.Unmarshal(raw, &p); err == nil && p.X != "" {
			if p.Y == nil {
				continue
			}
			t, err := ParseTime(p.X)
			if err != nil {
				return Series{}, err
			}
			s.Points = append(s.Points, Point{At: t, Value: *p.Y})
			continue
		}
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return Series{}, fmt.Errorf("climate: invalid sample in %q: %w", ds.Label, err)
		}
		if v == nil || i >= len(labels) {
			continue
		}
		t, err := ParseTime(labels[i])
		if err != nil {
			return Series{}, err
		}
		s.Points = append(s.Points, Point{At: t, Value: *v})
	}
	return s, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts the timestamp layouts seen in chart payloads. Labels of the
// yearless "dd/mm HH:MM" form are placed in the current year.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse("02/01 15:04", s); err == nil {
		return t.AddDate(time.Now().Year(), 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("climate: unrecognized timestamp %q", s)
}

// ChartConfig carries optional overlay data for the chart.
type ChartConfig struct {
	Sunrise  string   `json:"sunrise,omitempty"`
	Sunset   string   `json:"sunset,omitempty"`
	IdealMin *float64 `json:"temp_ideal_min,omitempty"`
	IdealMax *float64 `json:"temp_ideal_max,omitempty"`
}

// Daylight returns sunrise and sunset when both parse.
func (c ChartConfig) Daylight() (time.Time, time.Time, bool) {
	if c.Sunrise == "" || c.Sunset == "" {
		return time.Time{}, time.Time{}, false
	}
	rise, err := ParseTime(c.Sunrise)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	set, err := ParseTime(c.Sunset)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return rise, set, true
}

// IdealRange returns the ideal temperature band when both bounds are set.
func (c ChartConfig) IdealRange() (float64, float64, bool) {
	if c.IdealMin == nil || c.IdealMax == nil {
		return 0, 0, false
	}
	return *c.IdealMin, *c.IdealMax, true
}
