// Package chart draws the environment history. The dashboard only talks to the
// Adapter interface so the plotting library can be swapped or faked.
package chart

import (
	"errors"
	"time"

	"tableflip.dev/plantdash/pkg/climate"
)

// Adapter is one chart instance. An instance cannot change its axes in place:
// to draw a different period the dashboard destroys it and builds a new one.
type Adapter interface {
	Render(series []climate.Series, cfg Config) error
	View() string
	Destroy()
}

// Factory builds a fresh Adapter.
type Factory func() Adapter

// Config describes how to draw a set of series.
type Config struct {
	Period string
	Width  int
	Height int
	// Overlay is optional; nil draws no night shading and no ideal range.
	Overlay *climate.ChartConfig
}

// ErrDestroyed is returned when rendering on a destroyed instance.
var ErrDestroyed = errors.New("chart: instance destroyed")

// Bucket is the time granularity points are grouped by.
type Bucket string

const (
	Hour Bucket = "hour"
	Day  Bucket = "day"
)

// dailySpan is the span above which points are grouped per day.
const dailySpan = 48 * time.Hour

// BucketFor picks the granularity for a period. 8h and 24h are always hourly,
// 7d always daily; anything else is daily once the data spans more than two
// days.
func BucketFor(period string, series []climate.Series) Bucket {
	switch period {
	case "8h", "24h":
		return Hour
	case "7d":
		return Day
	}
	var span time.Duration
	for _, s := range series {
		if d := s.Span(); d > span {
			span = d
		}
	}
	if span > dailySpan {
		return Day
	}
	return Hour
}

func (b Bucket) truncate(t time.Time) time.Time {
	if b == Day {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return t.Truncate(time.Hour)
}

// Aggregate averages the points of s per bucket, keeping time order.
func Aggregate(s climate.Series, b Bucket) climate.Series {
	out := climate.Series{Label: s.Label}
	var (
		current time.Time
		sum     float64
		n       int
	)
	flush := func() {
		if n > 0 {
			out.Points = append(out.Points, climate.Point{At: current, Value: sum / float64(n)})
		}
	}
	for _, p := range s.Points {
		at := b.truncate(p.At)
		if n > 0 && !at.Equal(current) {
			flush()
			sum, n = 0, 0
		}
		current = at
		sum += p.Value
		n++
	}
	flush()
	return out
}

// IsNight reports whether t falls outside the sunrise to sunset window of the
// overlay, comparing times of day only.
func IsNight(t time.Time, overlay *climate.ChartConfig) bool {
	if overlay == nil {
		return false
	}
	rise, set, ok := overlay.Daylight()
	if !ok {
		return false
	}
	clock := func(t time.Time) int { return t.Hour()*60 + t.Minute() }
	c := clock(t)
	return c < clock(rise) || c >= clock(set)
}
