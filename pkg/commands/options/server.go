package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/plantdash/pkg/config"
)

// ServerOptions override the configured backend for one invocation.
type ServerOptions struct {
	Server string
	Routes string
}

func AddServerArgs(cmd *cobra.Command, so *ServerOptions) {
	cmd.Flags().StringVar(&so.Server, "server", "",
		"Backend base URL. Overrides the server config key.")
	cmd.Flags().StringVar(&so.Routes, "routes", "",
		`Backend route style, "rest" or "legacy". Overrides route_style.`)
}

// Apply copies the set flags onto cfg and revalidates it.
func (so *ServerOptions) Apply(cfg *config.Config) error {
	if so.Server != "" {
		cfg.Server = so.Server
	}
	if so.Routes != "" {
		cfg.RouteStyle = so.Routes
	}
	return cfg.Validate()
}
