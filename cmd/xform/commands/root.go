// Package commands implements the CLI commands for xform.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/xform/internal/app"
	"go.trai.ch/xform/internal/build"
	"go.trai.ch/xform/internal/core/domain"
)

// LogSettings is the part of the logger the global flags control.
type LogSettings interface {
	SetJSON(enable bool)
	SetLevel(level domain.LogLevel)
}

// CLI represents the command line interface for xform.
type CLI struct {
	app     *app.App
	log     LogSettings
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app. log may be nil.
func New(a *app.App, log LogSettings) *CLI {
	rootCmd := &cobra.Command{
		Use:           "xform",
		Short:         "A caching source transformer for JavaScript projects",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}
	rootCmd.SetVersionTemplate("xform version {{.Version}} (" + build.Commit + ", " + build.Date + ")\n")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to xform.yaml (default: discovered from the working directory)")
	rootCmd.PersistentFlags().Bool("json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		log:     log,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configureLogging

	rootCmd.AddCommand(c.newTransformCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configureLogging(cmd *cobra.Command, _ []string) error {
	if c.log == nil {
		return nil
	}
	jsonLogs, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	c.log.SetJSON(jsonLogs)
	if verbose {
		c.log.SetLevel(domain.LogLevelDebug)
	}
	return nil
}

// loadOptions reads the global flags shared by every command.
func loadOptions(cmd *cobra.Command) app.LoadOptions {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return app.LoadOptions{ConfigPath: configPath, Verbose: verbose}
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

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(out, errOut io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(errOut)
}
