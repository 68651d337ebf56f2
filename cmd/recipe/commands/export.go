package commands

import "github.com/spf13/cobra"

func (c *CLI) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the recipe and its sources into the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Export(cmd.Context(), runOptions(cmd))
		},
	}
	addRecipeFlags(cmd)
	return cmd
}
