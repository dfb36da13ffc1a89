package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/eupsforge/depview/internal/server"
	"github.com/eupsforge/depview/pkg/errors"
	"github.com/eupsforge/depview/pkg/integrations"
	"github.com/eupsforge/depview/pkg/integrations/eups"
)

// serveCommand creates the serve subcommand, exposing the resolve-and-render
// pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	cfg := server.Config{
		Listen:  server.DefaultListen,
		BaseURL: eups.DefaultBaseURL,
		Timeout: integrations.DefaultTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency graphs over HTTP",
		Long: `Serve dependency graphs over HTTP.

GET /graphs/{package} returns the package's dependency graph in Graphviz DOT
format; ?format=svg returns a rendered SVG instead. Every request fetches the
distribution's package list fresh, so responses always reflect the current
index.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyServeConfig(cmd, &cfg)
			if err := errors.ValidateURL(cfg.BaseURL); err != nil {
				return err
			}
			return server.New(cfg, c.Logger).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Listen, "listen", cfg.Listen, "address to listen on")
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "distribution server root URL")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-fetch timeout")

	return cmd
}

func applyServeConfig(cmd *cobra.Command, cfg *server.Config) {
	file, err := loadConfig()
	if err != nil {
		return
	}
	if file.Listen != "" && !cmd.Flags().Changed("listen") {
		cfg.Listen = file.Listen
	}
	if file.BaseURL != "" && !cmd.Flags().Changed("base-url") {
		cfg.BaseURL = file.BaseURL
	}
	if file.Timeout != 0 && !cmd.Flags().Changed("timeout") {
		cfg.Timeout = time.Duration(file.Timeout)
	}
}
