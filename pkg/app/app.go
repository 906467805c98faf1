package app

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tableflip.dev/plantdash/pkg/api"
	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/config"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/logging"
)

// Backend is the part of api.Client the service needs.
type Backend interface {
	Request(ctx context.Context, method, path string, body, out interface{}) error
}

// Service provides one typed loader per backend resource. It wraps the API
// client so the dashboard and the CLI share the same calls. Loaders never
// catch errors; callers decide how a failure is shown.
type Service struct {
	Backend Backend
	// Routes is config.RoutesREST or config.RoutesLegacy.
	Routes string
	Log    *zap.Logger
}

var _ Backend = (*api.Client)(nil)

var (
	errNoBackend = errors.New("app: no backend configured")
	errNoID      = errors.New("app: id required")
)

func (s *Service) get(ctx context.Context, path string, out interface{}) error {
	if s.Backend == nil {
		return errNoBackend
	}
	return s.Backend.Request(ctx, http.MethodGet, path, nil, out)
}

func (s *Service) send(ctx context.Context, method, path string, body interface{}) (*garden.Confirmation, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	conf := &garden.Confirmation{}
	if err := s.Backend.Request(ctx, method, path, body, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

func (s *Service) legacy() bool {
	return s.Routes == config.RoutesLegacy
}

func idPath(prefix string, id garden.ID, suffix string) (string, error) {
	if id == "" {
		return "", errNoID
	}
	return prefix + url.PathEscape(id.String()) + suffix, nil
}

// Weather loads the outdoor snapshot.
func (s *Service) Weather(ctx context.Context) (*climate.Weather, error) {
	w := &climate.Weather{}
	if err := s.get(ctx, "/weather", w); err != nil {
		return nil, err
	}
	return w, nil
}

// Current loads the combined SenseHAT reading older backends serve.
func (s *Service) Current(ctx context.Context) (*climate.Current, error) {
	c := &climate.Current{}
	if err := s.get(ctx, "/alldata", c); err != nil {
		return nil, err
	}
	return c, nil
}

// Interior loads the indoor SenseHAT snapshot.
func (s *Service) Interior(ctx context.Context) (*climate.Sensor, error) {
	sensor := &climate.Sensor{}
	if err := s.get(ctx, "/sensehat_latest", sensor); err != nil {
		return nil, err
	}
	return sensor, nil
}

// Distant loads the remote ESP32 snapshot.
func (s *Service) Distant(ctx context.Context) (*climate.Sensor, error) {
	sensor := &climate.Sensor{}
	if err := s.get(ctx, "/esp32_latest", sensor); err != nil {
		return nil, err
	}
	return sensor, nil
}

// History loads the chart series for period.
func (s *Service) History(ctx context.Context, period string) (*climate.History, error) {
	h := &climate.History{}
	if err := s.get(ctx, "/history?period="+url.QueryEscape(period), h); err != nil {
		return nil, err
	}
	return h, nil
}

// ChartConfig loads the chart overlay configuration.
func (s *Service) ChartConfig(ctx context.Context) (*climate.ChartConfig, error) {
	c := &climate.ChartConfig{}
	if err := s.get(ctx, "/config", c); err != nil {
		return nil, err
	}
	return c, nil
}

// Chart is a history plus its optional overlay configuration.
type Chart struct {
	Period  string
	History *climate.History
	Config  *climate.ChartConfig
}

// Chart loads history and overlay config concurrently. A config failure only
// drops the overlays; a history failure fails the chart.
func (s *Service) Chart(ctx context.Context, period string) (*Chart, error) {
	chart := &Chart{Period: period}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.History(gctx, period)
		if err != nil {
			return err
		}
		chart.History = h
		return nil
	})
	g.Go(func() error {
		c, err := s.ChartConfig(gctx)
		if err != nil {
			logging.OrNop(s.Log).Info("chart config unavailable, drawing without overlays", zap.Error(err))
			return nil
		}
		chart.Config = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chart, nil
}

// Recommendation loads the smart recommendation banner.
func (s *Service) Recommendation(ctx context.Context) (*climate.Advice, error) {
	a := &climate.Advice{}
	if err := s.get(ctx, "/smart_recommendation", a); err != nil {
		return nil, err
	}
	return a, nil
}

// RandomTip loads a low-priority tip for the banner.
func (s *Service) RandomTip(ctx context.Context) (*climate.Advice, error) {
	a := &climate.Advice{}
	if err := s.get(ctx, "/random_tip", a); err != nil {
		return nil, err
	}
	return a, nil
}

// WeatherTip loads the contextual weather tip.
func (s *Service) WeatherTip(ctx context.Context) (*climate.Advice, error) {
	a := &climate.Advice{}
	if err := s.get(ctx, "/weather_tip", a); err != nil {
		return nil, err
	}
	return a, nil
}

// TipForType loads one random tip for a plant type.
func (s *Service) TipForType(ctx context.Context, plantType string) (*climate.TypeTip, error) {
	if plantType == "" {
		return nil, errors.New("app: plant type required")
	}
	tip := &climate.TypeTip{}
	if err := s.get(ctx, "/tip_for_type/"+url.PathEscape(plantType), tip); err != nil {
		return nil, err
	}
	return tip, nil
}

// TipsForType asks for n tips concurrently and returns the distinct texts in
// the order they were requested.
func (s *Service) TipsForType(ctx context.Context, plantType string, n int) ([]string, error) {
	if n <= 0 {
		n = 5
	}
	tips := make([]*climate.TypeTip, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			tip, err := s.TipForType(gctx, plantType)
			if err != nil {
				return err
			}
			tips[i] = tip
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for _, tip := range tips {
		if tip == nil || tip.Tip == "" {
			continue
		}
		if _, dup := seen[tip.Tip]; dup {
			continue
		}
		seen[tip.Tip] = struct{}{}
		out = append(out, tip.Tip)
	}
	return out, nil
}

// RefreshAll asks the backend to re-read every sensor now.
func (s *Service) RefreshAll(ctx context.Context) (*garden.Confirmation, error) {
	return s.send(ctx, http.MethodPost, "/refresh/all", nil)
}
