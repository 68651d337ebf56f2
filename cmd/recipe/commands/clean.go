package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the build folder and local cache content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")
			cache, _ := cmd.Flags().GetBool("cache")
			all, _ := cmd.Flags().GetBool("all")

			opts := app.CleanOptions{RecipePath: file}
			switch {
			case all:
				opts.Build = true
				opts.Cache = true
			case cache:
				opts.Cache = true
			default:
				opts.Build = true
			}

			return c.app.Clean(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringP("file", "f", "", "Recipe file or directory (default: search upwards for recipe.yaml)")
	cmd.Flags().Bool("cache", false, "Clean the local package store, packages and exports")
	cmd.Flags().BoolP("all", "a", false, "Clean the build folder and the local cache")

	return cmd
}
