// Package integrations provides the shared HTTP transport used by
// distribution-server clients.
package integrations

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/eupsforge/depview/pkg/errors"
)

// DefaultTimeout bounds each remote fetch. It is a safety net rather than a
// tuning knob and does not change the strictly sequential fetch ordering.
const DefaultTimeout = 10 * time.Second

// Client provides shared HTTP functionality for distribution-server clients.
// Requests are issued one at a time by the caller; the client itself holds
// no mutable state and is safe for concurrent use.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given per-request timeout and default
// headers. A non-positive timeout falls back to DefaultTimeout. Pass nil for
// headers if no defaults are needed.
func NewClient(timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// GetLines performs an HTTP GET and returns the response body split into
// lines. Fetch failures are reported as coded errors: ErrCodeNotFound for a
// 404, ErrCodeTimeout for an expired deadline, ErrCodeNetwork otherwise.
// Failures are not retried.
func (c *Client) GetLines(ctx context.Context, url string) ([]string, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var lines []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)
	}
	return lines, nil
}

// GetText performs an HTTP GET and returns the whole response body.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "read %s", url)
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}

	if err := checkStatus(resp.StatusCode, url); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s not found", url)
	default:
		return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, code)
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return stderrors.Is(err, context.DeadlineExceeded)
}
