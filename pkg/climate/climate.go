// Package climate holds the weather, sensor, chart and advisory payloads the
// dashboard displays.
package climate

import (
	"strings"
)

// Weather is the outdoor snapshot from the weather provider. A snapshot is
// always replaced wholesale; an empty payload decodes to a zero Weather.
type Weather struct {
	Temperature *float64 `json:"temperature"`
	FeelsLike   *float64 `json:"feels_like"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
}

// Valid reports whether the snapshot carries a reading.
func (w Weather) Valid() bool {
	return w.Temperature != nil
}

// Current is the combined SenseHAT reading served by /alldata on older backends.
type Current struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidite"`
	Pressure    *float64 `json:"pression"`
	HeatIndex   *float64 `json:"heat_index"`
}

// WeatherIcon names the animated icon shown for a provider icon code.
type WeatherIcon string

const (
	IconSunny        WeatherIcon = "sunny"
	IconCloudy       WeatherIcon = "cloudy"
	IconSunShower    WeatherIcon = "sun-shower"
	IconRainy        WeatherIcon = "rainy"
	IconThunderStorm WeatherIcon = "thunder-storm"
	IconFlurries     WeatherIcon = "flurries"
)

// IconFor maps an OpenWeatherMap icon code ("01d", "10n", ...) by its prefix.
func IconFor(code string) WeatherIcon {
	prefix := code
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	switch prefix {
	case "01":
		return IconSunny
	case "02", "03", "04":
		return IconCloudy
	case "09":
		return IconSunShower
	case "10":
		return IconRainy
	case "11":
		return IconThunderStorm
	case "13":
		return IconFlurries
	default:
		return IconCloudy
	}
}

// Glyph is the terminal rendition of the icon.
func (i WeatherIcon) Glyph() string {
	switch i {
	case IconSunny:
		return "☀"
	case IconSunShower:
		return "🌦"
	case IconRainy:
		return "🌧"
	case IconThunderStorm:
		return "⛈"
	case IconFlurries:
		return "🌨"
	default:
		return "☁"
	}
}

// Advice is a recommendation or tip banner: a Font Awesome icon class and a
// message. The client never interprets the message.
type Advice struct {
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

// Icon classes the backend uses for alerts that must stay visible.
const (
	AlertWatering = "fa-tint"
	AlertTask     = "fa-broom"
	AlertHeating  = "fa-fire"
)

var alertIcons = []string{AlertWatering, AlertTask, AlertHeating}

// IsAlert reports whether the icon marks a watering, task or heating alert.
func (a Advice) IsAlert() bool {
	for _, icon := range alertIcons {
		if strings.Contains(a.Icon, icon) {
			return true
		}
	}
	return false
}

// Glyph maps the icon class onto a terminal glyph.
func (a Advice) Glyph() string {
	switch {
	case strings.Contains(a.Icon, AlertWatering):
		return "💧"
	case strings.Contains(a.Icon, AlertTask):
		return "🧹"
	case strings.Contains(a.Icon, AlertHeating):
		return "🔥"
	case strings.Contains(a.Icon, "fa-lightbulb"):
		return "💡"
	case strings.Contains(a.Icon, "fa-sun"):
		return "☀"
	case strings.Contains(a.Icon, "fa-snowflake"):
		return "❄"
	default:
		return "🌱"
	}
}

// TypeTip is one care tip for a plant type.
type TypeTip struct {
	Category string `json:"category"`
	Tip      string `json:"tip"`
}
