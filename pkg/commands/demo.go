package commands

import (
	"context"
	"fmt"
	"net"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/config"
	"tableflip.dev/plantdash/pkg/demo"
)

func addDemo(topLevel *cobra.Command) {
	addr := "127.0.0.1:5050"
	serveOnly := false
	routes := config.RoutesREST

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the dashboard against an in-memory demo backend.",
		Example: `
plantdash demo
plantdash demo --serve-only --addr 0.0.0.0:5050
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("demo backend: %w", err)
			}
			cfg.Server = "http://" + ln.Addr().String()
			cfg.RouteStyle = routes
			if err := cfg.Validate(); err != nil {
				_ = ln.Close()
				return err
			}

			rt, err := runtimeFor(cfg)
			if err != nil {
				_ = ln.Close()
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			backend := demo.New(demo.WithLogger(rt.log))
			if serveOnly {
				_, _ = fmt.Fprintf(color.Output, "demo backend listening on %s\n", cfg.Server)
				return backend.ServeListener(ctx, ln)
			}

			go func() {
				if err := backend.ServeListener(ctx, ln); err != nil {
					rt.log.Warn("demo backend stopped", zap.Error(err))
				}
			}()
			return runDashboard(ctx, rt)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Address for the demo backend.")
	cmd.Flags().BoolVar(&serveOnly, "serve-only", false, "Serve the demo backend without opening the dashboard.")
	cmd.Flags().StringVar(&routes, "routes", routes, `Route style the dashboard uses, "rest" or "legacy".`)

	topLevel.AddCommand(cmd)
}
