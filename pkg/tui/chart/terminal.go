package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"tableflip.dev/plantdash/pkg/climate"
)

const (
	defaultWidth  = 60
	defaultHeight = 8
	nightGlyph    = "░"
	dayGlyph      = " "
)

// Terminal plots each series as its own asciigraph panel.
type Terminal struct {
	view      string
	destroyed bool
}

// NewTerminal is a Factory for Terminal charts.
func NewTerminal() Adapter {
	return &Terminal{}
}

func (t *Terminal) Render(series []climate.Series, cfg Config) error {
	if t.destroyed {
		return ErrDestroyed
	}
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	bucket := BucketFor(cfg.Period, series)

	var panels []string
	for _, s := range series {
		agg := Aggregate(s, bucket)
		if len(agg.Points) == 0 {
			continue
		}
		values := make([]float64, len(agg.Points))
		for i, p := range agg.Points {
			values[i] = p.Value
		}
		data := [][]float64{values}
		colors := []asciigraph.AnsiColor{asciigraph.Default}
		if lo, hi, ok := idealRange(s.Label, cfg.Overlay); ok {
			data = append(data, constant(lo, len(values)), constant(hi, len(values)))
			colors = append(colors, asciigraph.Green, asciigraph.Green)
		}
		caption := fmt.Sprintf("%s · %s · %sly", s.Label, cfg.Period, bucket)
		plot := asciigraph.PlotMany(data,
			asciigraph.Height(height),
			asciigraph.Width(width),
			asciigraph.Precision(1),
			asciigraph.SeriesColors(colors...),
			asciigraph.Caption(caption),
		)
		if strip := nightStrip(agg, width, cfg.Overlay); strip != "" {
			plot += "\n" + strip
		}
		panels = append(panels, plot)
	}
	if len(panels) == 0 {
		t.view = fmt.Sprintf("No data for %s.", cfg.Period)
		return nil
	}
	t.view = strings.Join(panels, "\n\n")
	return nil
}

func (t *Terminal) View() string {
	return t.view
}

func (t *Terminal) Destroy() {
	t.view = ""
	t.destroyed = true
}

// idealRange applies only to temperature series.
func idealRange(label string, overlay *climate.ChartConfig) (float64, float64, bool) {
	if overlay == nil || !strings.Contains(strings.ToLower(label), "temp") {
		return 0, 0, false
	}
	return overlay.IdealRange()
}

func constant(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// nightStrip is a row under the plot shading the columns that fall at night.
func nightStrip(s climate.Series, width int, overlay *climate.ChartConfig) string {
	if overlay == nil || len(s.Points) < 2 {
		return ""
	}
	if _, _, ok := overlay.Daylight(); !ok {
		return ""
	}
	first, span := s.Points[0].At, s.Span()
	var b strings.Builder
	shaded := false
	for col := 0; col < width; col++ {
		at := first.Add(time.Duration(float64(span) * float64(col) / float64(width-1)))
		if IsNight(at, overlay) {
			b.WriteString(nightGlyph)
			shaded = true
		} else {
			b.WriteString(dayGlyph)
		}
	}
	if !shaded {
		return ""
	}
	return b.String()
}
