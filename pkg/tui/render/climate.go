package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

const panelWidth = 28

func panel(th theme.Theme, title string, lines ...string) string {
	content := make([]string, 0, len(lines)+1)
	content = append(content, th.Panel.Title.Render(title))
	content = append(content, lines...)
	return th.Panel.Frame.Width(panelWidth).Render(strings.Join(content, "\n"))
}

// Weather renders the outdoor tile.
func Weather(th theme.Theme, w *climate.Weather, err error) string {
	const title = "Outside"
	switch {
	case err != nil:
		return panel(th, title, th.Panel.Error.Render(Unavailable("weather")))
	case w == nil:
		return panel(th, title, th.Panel.Muted.Render(Loading))
	case !w.Valid():
		return panel(th, title, th.Panel.Muted.Render("Waiting for data…"))
	}
	icon := climate.IconFor(w.Icon)
	return panel(th, title,
		th.Panel.Body.Render(fmt.Sprintf("%s  %s", icon.Glyph(), fit(w.Description, panelWidth-7))),
		th.Panel.Body.Render(reading(w.Temperature, "°C")+"  feels "+reading(w.FeelsLike, "°C")),
		th.Panel.Body.Render(reading(w.Humidity, "%")+"  "+reading(w.Pressure, "hPa")),
	)
}

// Sensor renders an indoor or remote sensor tile. A disabled or silent sensor
// is shown distinctly from a genuine zero reading.
func Sensor(th theme.Theme, title string, s *climate.Sensor, err error) string {
	switch {
	case err != nil:
		return panel(th, title, th.Panel.Error.Render(Unavailable(strings.ToLower(title))))
	case s == nil:
		return panel(th, title, th.Panel.Muted.Render(Loading))
	}
	switch s.State() {
	case climate.SensorDisabled:
		return panel(th, title,
			th.Panel.Body.Render("-- °C / -- % / -- hPa"),
			th.Panel.Muted.Render("Sensor disabled"),
		)
	case climate.SensorNoData, climate.SensorWaiting:
		return panel(th, title, th.Panel.Muted.Render("Waiting for data…"))
	}
	values := reading(s.Temperature, "°C") + " / " + reading(s.Humidity, "%")
	if s.Pressure != nil {
		values += " / " + reading(s.Pressure, "hPa")
	}
	lines := []string{th.Panel.Body.Render(wrap(values, panelWidth-4))}
	if clock := s.Clock(); clock != "" {
		lines = append(lines, th.Panel.Muted.Render("at "+clock))
	}
	return panel(th, title, lines...)
}

// Advice renders the recommendation or tip banner. Alerts use the alert style.
func Advice(th theme.Theme, a *climate.Advice, err error, what string, width int) string {
	if width <= 0 {
		width = 80
	}
	switch {
	case err != nil:
		return th.Panel.Error.Render(Unavailable(what))
	case a == nil:
		return th.Panel.Muted.Render(Loading)
	}
	style := th.Banner.Info
	if a.IsAlert() {
		style = th.Banner.Alert
	}
	text := wrap(fmt.Sprintf("%s  %s", a.Glyph(), a.Message), width-2)
	return style.Render(text)
}

// Chart frames the chart view with the period selector.
func Chart(th theme.Theme, period, view string, err error, loading bool) string {
	tabs := make([]string, 0, len(climate.Periods))
	for _, p := range climate.Periods {
		if p == period {
			tabs = append(tabs, th.Header.ActiveTab.Render(p))
			continue
		}
		tabs = append(tabs, th.Header.Tab.Render(p))
	}
	header := th.Panel.Title.Render("History ") + lipgloss.JoinHorizontal(lipgloss.Top, tabs...) +
		th.Footer.Help.Render("  [p] period")

	var body string
	switch {
	case err != nil:
		body = th.Panel.Error.Render(Unavailable("chart"))
	case loading && view == "":
		body = th.Panel.Muted.Render(Loading)
	default:
		body = th.Chart.Axis.Render(view)
	}
	return th.Chart.Frame.Render(header + "\n" + body)
}
