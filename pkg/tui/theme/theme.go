package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/plantdash/pkg/garden"
)

// Mode is the persisted light/dark preference.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ParseMode accepts "light" or "dark" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("theme: unknown mode %q", s)
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

func (m Mode) String() string {
	return string(m)
}

// Theme centralizes Lip Gloss styles for the dashboard.
type Theme struct {
	Mode   Mode
	Header HeaderTheme
	Footer FooterTheme
	Panel  PanelTheme
	Card   CardTheme
	Banner BannerTheme
	Modal  ModalTheme
	Chart  ChartTheme
}

// HeaderTheme styles the title line and section tabs.
type HeaderTheme struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

// PanelTheme styles framed panels such as the weather and sensor tiles.
type PanelTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
	Muted lipgloss.Style
	Error lipgloss.Style
}

// CardTheme styles plant and task cards. TierColors are hex colors, the
// progress bar blends from the tier color towards BarTrack.
type CardTheme struct {
	Frame      lipgloss.Style
	Selected   lipgloss.Style
	Name       lipgloss.Style
	Meta       lipgloss.Style
	Action     lipgloss.Style
	Busy       lipgloss.Style
	Done       lipgloss.Style
	TierColors map[garden.Tier]string
	BarTrack   string
}

// Tier returns a bold style in the tier's color.
func (c CardTheme) Tier(t garden.Tier) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.TierColors[t]))
}

// BannerTheme styles the recommendation and tip banners.
type BannerTheme struct {
	Alert lipgloss.Style
	Info  lipgloss.Style
}

// ModalTheme styles centered modal overlays.
type ModalTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Label  lipgloss.Style
	Hint   lipgloss.Style
	Danger lipgloss.Style
}

// ChartTheme styles the history chart.
type ChartTheme struct {
	Frame lipgloss.Style
	Axis  lipgloss.Style
	Night lipgloss.Style
	Ideal lipgloss.Style
}

type palette struct {
	fg, muted, faint, accent, border, alertBg, alertFg string
	safe, soon, due, overdue, track                    string
}

var (
	lightPalette = palette{
		fg: "#1f2d1f", muted: "#5b6b5b", faint: "#9aa59a", accent: "#2e7d32", border: "#a5c8a5",
		alertBg: "#fff3e0", alertFg: "#bf360c",
		safe: "#2e7d32", soon: "#f9a825", due: "#ef6c00", overdue: "#c62828", track: "#e0e0e0",
	}
	darkPalette = palette{
		fg: "#e6efe6", muted: "#9fb39f", faint: "#5f6f5f", accent: "#81c784", border: "#3e5c3e",
		alertBg: "#4e2a12", alertFg: "#ffcc80",
		safe: "#66bb6a", soon: "#ffee58", due: "#ffa726", overdue: "#ef5350", track: "#303830",
	}
)

// Default returns the light theme.
func Default() Theme {
	return For(Light)
}

// For returns the built-in theme for mode.
func For(m Mode) Theme {
	p := lightPalette
	if m == Dark {
		p = darkPalette
	}
	c := lipgloss.Color

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c(p.border)).
		Padding(0, 1)

	return Theme{
		Mode: m,
		Header: HeaderTheme{
			Title:     lipgloss.NewStyle().Bold(true).Foreground(c(p.accent)),
			Tab:       lipgloss.NewStyle().Foreground(c(p.muted)).Padding(0, 1),
			ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(c(p.fg)).Underline(true).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(c(p.faint)),
			Status:  lipgloss.NewStyle().Foreground(c(p.muted)),
			Error:   lipgloss.NewStyle().Foreground(c(p.overdue)).Bold(true),
			Success: lipgloss.NewStyle().Foreground(c(p.safe)).Bold(true),
		},
		Panel: PanelTheme{
			Frame: frame,
			Title: lipgloss.NewStyle().Bold(true).Foreground(c(p.accent)),
			Body:  lipgloss.NewStyle().Foreground(c(p.fg)),
			Muted: lipgloss.NewStyle().Foreground(c(p.muted)).Italic(true),
			Error: lipgloss.NewStyle().Foreground(c(p.overdue)),
		},
		Card: CardTheme{
			Frame:    frame,
			Selected: frame.BorderForeground(c(p.accent)).BorderStyle(lipgloss.ThickBorder()),
			Name:     lipgloss.NewStyle().Bold(true).Foreground(c(p.fg)),
			Meta:     lipgloss.NewStyle().Foreground(c(p.muted)),
			Action:   lipgloss.NewStyle().Foreground(c(p.accent)),
			Busy:     lipgloss.NewStyle().Foreground(c(p.faint)).Italic(true),
			Done:     lipgloss.NewStyle().Foreground(c(p.safe)).Bold(true),
			TierColors: map[garden.Tier]string{
				garden.TierSafe:    p.safe,
				garden.TierSoon:    p.soon,
				garden.TierDue:     p.due,
				garden.TierOverdue: p.overdue,
			},
			BarTrack: p.track,
		},
		Banner: BannerTheme{
			Alert: lipgloss.NewStyle().Bold(true).Foreground(c(p.alertFg)).Background(c(p.alertBg)).Padding(0, 1),
			Info:  lipgloss.NewStyle().Foreground(c(p.fg)).Padding(0, 1),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(c(p.accent)).
				Padding(1, 2),
			Title:  lipgloss.NewStyle().Bold(true).Foreground(c(p.accent)),
			Body:   lipgloss.NewStyle().Foreground(c(p.fg)),
			Label:  lipgloss.NewStyle().Foreground(c(p.muted)),
			Hint:   lipgloss.NewStyle().Foreground(c(p.faint)),
			Danger: lipgloss.NewStyle().Bold(true).Foreground(c(p.overdue)),
		},
		Chart: ChartTheme{
			Frame: frame,
			Axis:  lipgloss.NewStyle().Foreground(c(p.muted)),
			Night: lipgloss.NewStyle().Foreground(c(p.faint)),
			Ideal: lipgloss.NewStyle().Foreground(c(p.safe)),
		},
	}
}
