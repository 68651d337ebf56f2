// Package commands implements the CLI commands for the recipe driver.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
	"go.trai.ch/recipe/internal/build"
)

// CLI represents the command line interface for recipe.
type CLI struct {
	app     Application
	logger  LogConfigurer
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Create(ctx context.Context, opts app.RunOptions) error
	Build(ctx context.Context, opts app.RunOptions) error
	Export(ctx context.Context, opts app.RunOptions) error
	Inspect(ctx context.Context, opts app.InspectOptions) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// LogConfigurer switches the logger between pretty and JSON output.
type LogConfigurer interface {
	SetJSON(enable bool)
}

// New creates a new CLI instance with the given app. logger may be nil.
func New(a Application, logger LogConfigurer) *CLI {
	rootCmd := &cobra.Command{
		Use:           "recipe",
		Short:         "Build and package native C++ libraries from a declarative recipe",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if c.logger == nil {
			return
		}
		if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs {
			c.logger.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newCreateCmd())
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
