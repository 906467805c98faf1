package commands

import (
	"context"
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/commands/options"
	"tableflip.dev/plantdash/pkg/metrics"
	"tableflip.dev/plantdash/pkg/store"
	"tableflip.dev/plantdash/pkg/tui/dashboard"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

var errNoTerminal = errors.New("the dashboard needs an interactive terminal")

func addUI(topLevel *cobra.Command) {
	so := &options.ServerOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the dashboard.",
		Example: `
plantdash ui
plantdash ui --server http://192.168.1.20:5000
plantdash ui --routes legacy
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(so)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runDashboard(cmd.Context(), rt)
		},
	}
	options.AddServerArgs(cmd, so)

	topLevel.AddCommand(cmd)
}

// runDashboard opens preferences, starts the optional metrics endpoint and
// blocks until the dashboard exits.
func runDashboard(ctx context.Context, rt *runtime) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errNoTerminal
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prefs, err := store.Open(rt.cfg.StatePath)
	if err != nil {
		return err
	}

	if addr := rt.cfg.MetricsAddr; addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr, rt.registry); err != nil {
				rt.log.Warn("metrics endpoint stopped", zap.String("addr", addr), zap.Error(err))
			}
		}()
	}

	rt.log.Info("dashboard starting",
		zap.String("server", rt.cfg.Server),
		zap.String("routes", rt.cfg.RouteStyle))

	m := dashboard.New(rt.svc, dashboard.Options{
		Context: ctx,
		Theme:   theme.NewController(prefs, theme.WithLogger(rt.log)),
		Prefs:   prefs,
		Metrics: rt.metrics,
		Log:     rt.log,
		Period:  rt.cfg.DefaultPeriod,
		Fast:    rt.cfg.FastInterval,
		Slow:    rt.cfg.SlowInterval,
	})
	return dashboard.Run(m)
}
