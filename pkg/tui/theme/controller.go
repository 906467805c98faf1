package theme

import (
	"errors"

	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/logging"
	"tableflip.dev/plantdash/pkg/store"
)

// PreferenceKey is the store entry holding the mode.
const PreferenceKey = "theme"

// Controller owns the light/dark preference. It only reads and writes the
// store and never touches the rest of the dashboard.
type Controller struct {
	prefs    store.Preferences
	log      *zap.Logger
	fallback func() bool
	mode     Mode
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger reports store failures to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = logging.OrNop(l) }
}

// WithDarkDetector replaces the terminal background detection used when no valid
// preference is stored.
func WithDarkDetector(isDark func() bool) Option {
	return func(c *Controller) { c.fallback = isDark }
}

// NewController reads the stored mode, falling back to the terminal background
// when it is missing or invalid. prefs may be nil, in which case nothing is
// persisted.
func NewController(prefs store.Preferences, opts ...Option) *Controller {
	c := &Controller{
		prefs:    prefs,
		log:      zap.NewNop(),
		fallback: termenv.HasDarkBackground,
	}
	for _, opt := range opts {
		opt(c)
	}
	if m, ok := c.stored(); ok {
		c.mode = m
	} else {
		c.mode = c.detect()
	}
	return c
}

func (c *Controller) detect() Mode {
	if c.fallback != nil && c.fallback() {
		return Dark
	}
	return Light
}

func (c *Controller) stored() (Mode, bool) {
	if c.prefs == nil {
		return "", false
	}
	raw, err := c.prefs.Get(PreferenceKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.log.Warn("read theme preference", zap.Error(err))
		}
		return "", false
	}
	m, err := ParseMode(raw)
	if err != nil {
		c.log.Warn("ignoring stored theme", zap.String("value", raw))
		return "", false
	}
	return m, true
}

// Mode is the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Theme is the style set for the current mode.
func (c *Controller) Theme() Theme {
	return For(c.mode)
}

// Set switches to m and persists it. The mode changes even when persisting
// fails; the error is returned for the caller to surface.
func (c *Controller) Set(m Mode) error {
	c.mode = m
	if c.prefs == nil {
		return nil
	}
	if err := c.prefs.Set(PreferenceKey, string(m)); err != nil {
		c.log.Warn("persist theme preference", zap.Error(err))
		return err
	}
	return nil
}

// Toggle flips the mode, persists it and returns the new mode.
func (c *Controller) Toggle() (Mode, error) {
	next := c.mode.Toggle()
	return next, c.Set(next)
}

// Reload re-reads the store and reports whether the mode changed. It is called
// when another process edits the preference.
func (c *Controller) Reload() bool {
	m, ok := c.stored()
	if !ok || m == c.mode {
		return false
	}
	c.mode = m
	return true
}
