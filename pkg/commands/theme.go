package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/plantdash/pkg/config"
	"tableflip.dev/plantdash/pkg/store"
	"tableflip.dev/plantdash/pkg/tui/theme"
)

func addTheme(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the persisted dashboard theme.",
		ValidArgs: []string{"light", "dark", "toggle"},
		Example: `
plantdash theme
plantdash theme dark
plantdash theme toggle
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			prefs, err := store.Open(cfg.StatePath)
			if err != nil {
				return err
			}
			mode, err := applyTheme(theme.NewController(prefs), args)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(color.Output, mode)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func applyTheme(c *theme.Controller, args []string) (theme.Mode, error) {
	if len(args) == 0 {
		return c.Mode(), nil
	}
	if args[0] == "toggle" {
		return c.Toggle()
	}
	mode, err := theme.ParseMode(args[0])
	if err != nil {
		return "", errors.New(`expected "light", "dark" or "toggle"`)
	}
	return mode, c.Set(mode)
}
