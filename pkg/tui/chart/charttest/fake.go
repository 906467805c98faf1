// Package charttest provides a recording chart.Adapter for tests.
package charttest

import (
	"fmt"
	"sync"

	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/tui/chart"
)

// Fake records every call made on it.
type Fake struct {
	ID        int
	Renders   int
	Destroys  int
	LastCfg   chart.Config
	LastCount int
}

// Recorder hands out numbered fakes and remembers them in creation order.
type Recorder struct {
	mu    sync.Mutex
	Fakes []*Fake
}

// Factory returns a chart.Factory that builds fakes owned by r.
func (r *Recorder) Factory() chart.Factory {
	return func() chart.Adapter {
		r.mu.Lock()
		defer r.mu.Unlock()
		f := &Fake{ID: len(r.Fakes) + 1}
		r.Fakes = append(r.Fakes, f)
		return f
	}
}

// Created is the number of adapters built so far.
func (r *Recorder) Created() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Fakes)
}

func (f *Fake) Render(series []climate.Series, cfg chart.Config) error {
	if f.Destroys > 0 {
		return chart.ErrDestroyed
	}
	f.Renders++
	f.LastCfg = cfg
	f.LastCount = len(series)
	return nil
}

func (f *Fake) View() string {
	return fmt.Sprintf("fake chart #%d (%s, %d series)", f.ID, f.LastCfg.Period, f.LastCount)
}

func (f *Fake) Destroy() {
	f.Destroys++
}
