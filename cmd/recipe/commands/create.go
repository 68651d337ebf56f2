package commands

import "github.com/spf13/cobra"

func (c *CLI) newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Export, build, test and package the recipe into the local cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Create(cmd.Context(), runOptions(cmd))
		},
	}
	addRecipeFlags(cmd)
	return cmd
}
