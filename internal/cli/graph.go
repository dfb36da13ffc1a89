package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eupsforge/depview/pkg/deps"
	"github.com/eupsforge/depview/pkg/errors"
	"github.com/eupsforge/depview/pkg/integrations"
	"github.com/eupsforge/depview/pkg/integrations/eups"
	"github.com/eupsforge/depview/pkg/render"
)

// Output formats for the resolved graph.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ExitError carries a process exit status and a message destined for stdout.
// main maps it onto os.Exit.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

type graphOptions struct {
	output  string
	format  string
	baseURL string
	timeout time.Duration
}

func defaultGraphOptions() graphOptions {
	return graphOptions{
		format:  FormatDOT,
		baseURL: eups.DefaultBaseURL,
		timeout: integrations.DefaultTimeout,
	}
}

func validateFormat(format string) error {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want dot, svg, or png)", format)
	}
}

// runGraph is the root-command pipeline: fetch the index, validate the
// target against it, resolve the dependency tree, render, write.
func (c *CLI) runGraph(ctx context.Context, name string, opts graphOptions) error {
	if err := errors.ValidatePackageName(name); err != nil {
		return err
	}
	if err := errors.ValidateURL(opts.baseURL); err != nil {
		return err
	}
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	client := eups.NewClient(opts.baseURL, opts.timeout)
	client.SetLogger(c.Logger.Debugf)

	p := newProgress(c.Logger)
	index, err := client.FetchIndex(ctx)
	if err != nil {
		return fmt.Errorf("fetch package list: %w", err)
	}
	c.Logger.Debugf("index holds %d packages", len(index))

	// The target must be known before any manifest fetch happens. An
	// unknown target is the one condition with its own exit code.
	if !index.Has(name) {
		return &ExitError{
			Code:    2,
			Message: fmt.Sprintf("Error: %q is not in %s.", name, client.IndexURL()),
		}
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Resolving %s...", name))
	spinner.Start()

	resolver := deps.NewResolver(index, client.BaseURL(), client)
	root, err := resolver.Resolve(ctx, name, deps.Options{Logger: c.Logger.Debugf})
	if err != nil {
		spinner.StopWithError("Resolution failed")
		return fmt.Errorf("resolve %s: %w", name, err)
	}
	spinner.Stop()
	p.done(fmt.Sprintf("Resolved %d packages", root.Count()))

	dot := render.ToDOT(root, "Dependencies for "+name)

	var out []byte
	switch opts.format {
	case FormatDOT:
		out = []byte(dot)
	case FormatSVG:
		out, err = render.SVG(dot)
	case FormatPNG:
		out, err = render.PNG(dot)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", opts.format, err)
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	c.Logger.Info(StyleSuccess.Render("Wrote " + opts.output))
	return nil
}
