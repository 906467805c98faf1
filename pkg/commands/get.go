package commands

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/commands/options"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/printers"
)

const requestTimeout = 15 * time.Second

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, requestTimeout)
}

func addPlants(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "plants",
		Short: "List plants with their watering status.",
		Example: `
plantdash plants
plantdash plants --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(so)
			if err != nil {
				return oo.HandleError(err)
			}
			defer rt.Close()
			ctx, cancel := requestContext(cmd)
			defer cancel()

			plants, err := rt.svc.Plants(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(color.Output, plants)
			}
			// Types only fill in intervals the backend left out.
			types, err := rt.svc.PlantTypes(ctx)
			if err != nil {
				rt.log.Warn("plant types unavailable", zap.Error(err))
			}
			plants = garden.ResolveIntervals(plants, types, time.Now())
			pp := &printers.PrettyPrint{ShowID: true}
			pp.TitleWithCount("Plants", len(plants), "plant")
			pp.Plants(plants)
			return nil
		},
	}
	options.AddServerArgs(cmd, so)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addTasks(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List recurring tasks with their urgency.",
		Example: `
plantdash tasks
plantdash tasks --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(so)
			if err != nil {
				return oo.HandleError(err)
			}
			defer rt.Close()
			ctx, cancel := requestContext(cmd)
			defer cancel()

			tasks, err := rt.svc.Tasks(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(color.Output, tasks)
			}
			pp := &printers.PrettyPrint{ShowID: true}
			pp.TitleWithCount("Tasks", len(tasks), "task")
			pp.Tasks(tasks)
			return nil
		},
	}
	options.AddServerArgs(cmd, so)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addTypes(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List plant types and their seasonal watering intervals.",
		Example: `
plantdash types
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(so)
			if err != nil {
				return oo.HandleError(err)
			}
			defer rt.Close()
			ctx, cancel := requestContext(cmd)
			defer cancel()

			types, err := rt.svc.PlantTypes(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(color.Output, types)
			}
			pp := &printers.PrettyPrint{}
			pp.TitleWithCount("Types", len(types), "type")
			pp.Types(types)
			return nil
		},
	}
	options.AddServerArgs(cmd, so)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
