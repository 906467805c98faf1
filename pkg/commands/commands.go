package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "plantdash",
		Short: base.Wrap80("Plant watering and environment dashboard for the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addDemo(topLevel)
	addPlants(topLevel)
	addTasks(topLevel)
	addTypes(topLevel)
	addWater(topLevel)
	addRefresh(topLevel)
	addTheme(topLevel)
	addVersion(topLevel)
}
