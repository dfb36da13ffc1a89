// Package eups provides the client and parsers for EUPS distribution
// servers: a package list document (current.list) naming every resolved
// package coordinate, and a per-package manifest (the.manifest) declaring
// its direct dependencies.
package eups

import (
	"context"
	"strings"
	"time"

	"github.com/eupsforge/depview/pkg/deps"
	"github.com/eupsforge/depview/pkg/errors"
	"github.com/eupsforge/depview/pkg/integrations"
)

// DefaultBaseURL is the LSST software distribution root.
const DefaultBaseURL = "http://dev.lsstcorp.org/dmspkgs"

const (
	indexFile    = "current.list"
	manifestFile = "the.manifest"
)

// Client talks to one EUPS distribution server. It performs no caching and
// no retries: every call is a fresh, single fetch.
type Client struct {
	*integrations.Client
	baseURL string
	logf    func(string, ...any)
}

// NewClient creates a client for the distribution rooted at baseURL.
// An empty baseURL selects DefaultBaseURL. A non-positive timeout falls
// back to integrations.DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(timeout, nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// SetLogger installs a diagnostic callback used for non-fatal conditions
// such as malformed index lines. Pass nil to discard diagnostics.
func (c *Client) SetLogger(logf func(string, ...any)) { c.logf = logf }

// BaseURL returns the distribution root this client fetches from.
func (c *Client) BaseURL() string { return c.baseURL }

// IndexURL returns the location of the distribution's package list.
func (c *Client) IndexURL() string { return c.baseURL + "/" + indexFile }

// FetchIndex retrieves and parses the distribution's current package list.
// The returned index is built once per run and read-only thereafter.
func (c *Client) FetchIndex(ctx context.Context) (deps.Index, error) {
	lines, err := c.GetLines(ctx, c.IndexURL())
	if err != nil {
		return nil, err
	}
	return ParseIndex(lines, c.logf), nil
}

// Dependencies fetches pkg's manifest and returns its declared direct
// dependencies in manifest order. It satisfies deps.Fetcher.
//
// A missing manifest is fatal to the caller's resolution run, so the error
// names the manifest location rather than being absorbed.
func (c *Client) Dependencies(ctx context.Context, pkg *deps.Package) ([]string, error) {
	url := pkg.URL() + "/" + manifestFile
	lines, err := c.GetLines(ctx, url)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no manifest for %s at %s", pkg.Name, url)
		}
		return nil, err
	}
	return ParseManifest(lines), nil
}
