package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/plantdash/pkg/commands/options"
	"tableflip.dev/plantdash/pkg/garden"
	"tableflip.dev/plantdash/pkg/printers"
)

func addWater(topLevel *cobra.Command) {
	so := &options.ServerOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "water <plant id>",
		Short: "Record a watering for one plant.",
		Example: `
plantdash water 3
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return errors.New("expected exactly one plant id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(so)
			if err != nil {
				return oo.HandleError(err)
			}
			defer rt.Close()
			ctx, cancel := requestContext(cmd)
			defer cancel()

			conf, err := rt.svc.WaterPlant(ctx, garden.ID(strings.TrimSpace(args[0])))
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(color.Output, conf)
			}
			msg := "Watered."
			if conf != nil && conf.Message != "" {
				msg = conf.Message
			}
			_, _ = fmt.Fprintln(color.Output, msg)
			return nil
		},
	}
	options.AddServerArgs(cmd, so)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
