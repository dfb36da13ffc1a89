// Package cli implements the depview command-line interface.
//
// The root command resolves the transitive dependencies of one package from
// an EUPS distribution server and prints the graph as Graphviz DOT (or SVG/
// PNG). The serve subcommand exposes the same pipeline over HTTP.
//
// All commands log to stderr via charmbracelet/log; --verbose (-v) raises
// the level to debug, which also surfaces malformed index lines.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/eupsforge/depview/pkg/buildinfo"
)

// appName is the application name used for directories and display.
const appName = "depview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	opts := defaultGraphOptions()

	root := &cobra.Command{
		Use:   appName + " <package>",
		Short: "depview renders a package's dependency graph as Graphviz DOT",
		Long: `depview resolves the transitive build dependencies of a package from an
EUPS distribution server and prints the graph in Graphviz DOT format, ready
to be fed to Graphviz or compatible viewers.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				// Usage goes to stdout with exit status 1.
				return &ExitError{Code: 1, Message: "Usage: " + appName + " <package>"}
			}
			applyConfig(cmd, &opts)
			return c.runGraph(cmd.Context(), args[0], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().StringVarP(&opts.output, "output", "o", "", "write the graph to a file instead of stdout")
	root.Flags().StringVarP(&opts.format, "format", "f", FormatDOT, "output format: dot (default), svg, png")
	root.Flags().StringVar(&opts.baseURL, "base-url", opts.baseURL, "distribution server root URL")
	root.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-fetch timeout")

	root.AddCommand(c.serveCommand())

	return root
}
