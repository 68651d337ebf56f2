package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the recipe metadata, options, requirements and package id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			return c.app.Inspect(cmd.Context(), app.InspectOptions{
				RunOptions: runOptions(cmd),
				Format:     format,
			})
		},
	}
	addRecipeFlags(cmd)
	cmd.Flags().String("format", app.FormatYAML, "Report format: yaml or json")
	return cmd
}
