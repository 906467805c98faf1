package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/climate"
	"tableflip.dev/plantdash/pkg/commands/options"
	"tableflip.dev/plantdash/pkg/printers"
)

type snapshot struct {
	Weather  *climate.Weather `json:"weather,omitempty"`
	Interior *climate.Sensor  `json:"interior,omitempty"`
	Distant  *climate.Sensor  `json:"distant,omitempty"`
}

func addRefresh(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ask the backend to refresh all sources and print a reading snapshot.",
		Example: `
plantdash refresh
plantdash refresh --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(so)
			if err != nil {
				return oo.HandleError(err)
			}
			defer rt.Close()
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if _, err := rt.svc.RefreshAll(ctx); err != nil {
				return oo.HandleError(err)
			}

			// Missing readings are shown as such; only the refresh itself is fatal.
			var snap snapshot
			if snap.Weather, err = rt.svc.Weather(ctx); err != nil {
				rt.log.Warn("weather unavailable", zap.Error(err))
			}
			if snap.Interior, err = rt.svc.Interior(ctx); err != nil {
				rt.log.Warn("indoor sensor unavailable", zap.Error(err))
			}
			if snap.Distant, err = rt.svc.Distant(ctx); err != nil {
				rt.log.Warn("remote sensor unavailable", zap.Error(err))
			}

			if oo.JSON {
				return printers.JSON(color.Output, snap)
			}
			pp := &printers.PrettyPrint{}
			pp.Snapshot(snap.Weather, snap.Interior, snap.Distant)
			return nil
		},
	}
	options.AddServerArgs(cmd, so)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
