// Package session holds the dashboard's shared UI state: the live chart
// instance, the plant cache used for search, and the open modal. It is only
// changed through its setters.
package session

import (
	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/tui/chart"
)

// Modal identifies the overlay currently shown.
type Modal int

const (
	ModalNone Modal = iota
	ModalAddPlant
	ModalEditPlant
	ModalConfirm
	ModalAlert
	ModalHistory
	ModalTips
	ModalAddTask
	ModalManageTypes
)

func (m Modal) String() string {
	switch m {
	case ModalNone:
		return "none"
	case ModalAddPlant:
		return "add-plant"
	case ModalEditPlant:
		return "edit-plant"
	case ModalConfirm:
		return "confirm"
	case ModalAlert:
		return "alert"
	case ModalHistory:
		return "history"
	case ModalTips:
		return "tips"
	case ModalAddTask:
		return "add-task"
	case ModalManageTypes:
		return "manage-types"
	default:
		return "unknown"
	}
}

// Session is created at startup and torn down on quit.
type Session struct {
	newChart chart.Factory
	chart    chart.Adapter
	period   string
	plants   []garden.Plant
	modal    Modal
}

// New returns a session building charts with factory.
func New(factory chart.Factory) *Session {
	if factory == nil {
		factory = chart.NewTerminal
	}
	return &Session{newChart: factory}
}

// ReplaceChart destroys the current chart, if any, then builds and renders a
// new one. The old instance is destroyed exactly once.
func (s *Session) ReplaceChart(series []climate.Series, cfg chart.Config) error {
	if s.chart != nil {
		s.chart.Destroy()
		s.chart = nil
	}
	c := s.newChart()
	s.chart = c
	s.period = cfg.Period
	return c.Render(series, cfg)
}

// Chart is the live chart, nil before the first ReplaceChart.
func (s *Session) Chart() chart.Adapter {
	return s.chart
}

// ChartView is the rendered chart, empty when none exists.
func (s *Session) ChartView() string {
	if s.chart == nil {
		return ""
	}
	return s.chart.View()
}

// Period is the period of the live chart.
func (s *Session) Period() string {
	return s.period
}

// SetPlants replaces the plant cache.
func (s *Session) SetPlants(plants []garden.Plant) {
	s.plants = append([]garden.Plant(nil), plants...)
}

// Plants returns a copy of the cache, filtered by query. Callers may modify
// the result freely.
func (s *Session) Plants(query string) []garden.Plant {
	return garden.Filter(s.plants, query)
}

// Plant finds a cached plant by id.
func (s *Session) Plant(id garden.ID) (garden.Plant, bool) {
	for _, p := range s.plants {
		if p.ID == id {
			return p, true
		}
	}
	return garden.Plant{}, false
}

func (s *Session) OpenModal(m Modal) {
	s.modal = m
}

func (s *Session) CloseModal() {
	s.modal = ModalNone
}

// Modal is the open overlay.
func (s *Session) Modal() Modal {
	return s.modal
}

// Teardown destroys the chart and clears every cache.
func (s *Session) Teardown() {
	if s.chart != nil {
		s.chart.Destroy()
		s.chart = nil
	}
	s.plants = nil
	s.modal = ModalNone
}
