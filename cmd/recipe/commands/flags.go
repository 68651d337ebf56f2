package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

// addRecipeFlags registers the flags selecting a recipe and its configuration.
func addRecipeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Recipe file or directory (default: search upwards for recipe.yaml)")
	cmd.Flags().StringP("profile", "p", "", "Settings profile file")
	cmd.Flags().StringArrayP("settings", "s", nil, "Setting override as key=value (repeatable)")
	cmd.Flags().StringArrayP("options", "o", nil, "Option override as key=value (repeatable)")
	cmd.Flags().StringArrayP("conf", "c", nil, "Conf value as section:key=value (repeatable)")
	cmd.Flags().String("output-mode", "auto", "Output mode: auto, interactive, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
}

// runOptions reads the flags registered by addRecipeFlags.
func runOptions(cmd *cobra.Command) app.RunOptions {
	file, _ := cmd.Flags().GetString("file")
	profile, _ := cmd.Flags().GetString("profile")
	settings, _ := cmd.Flags().GetStringArray("settings")
	options, _ := cmd.Flags().GetStringArray("options")
	conf, _ := cmd.Flags().GetStringArray("conf")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")

	if ci {
		outputMode = "linear"
	}

	return app.RunOptions{
		RecipePath: file,
		Profile:    profile,
		Settings:   settings,
		Options:    options,
		Conf:       conf,
		OutputMode: outputMode,
	}
}
