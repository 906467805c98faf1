// Package api is the single gateway between the dashboard and the backend.
// Every request goes through Client.Request, which turns non-2xx answers and
// transport failures into one error channel.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/plantdash/pkg/logging"
	"tableflip.dev/plantdash/pkg/metrics"
)

// Client performs JSON requests against the backend.
type Client struct {
	base    *url.URL
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Collector
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the diagnostic logger failures are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = logging.OrNop(l) }
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New returns a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get is Request with GET and no body.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Request(ctx, http.MethodGet, path, nil, out)
}

// Post is Request with POST.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Request(ctx, http.MethodPost, path, body, out)
}

// Request sends body (JSON encoded, when non-nil) to path and decodes a 2xx
// answer into out. A 204 or an empty body leaves out untouched. Non-2xx
// answers come back as *Error; transport failures are returned unchanged.
// Every failure is logged before it is returned. There are no retries.
func (c *Client) Request(ctx context.Context, method, path string, body, out interface{}) error {
	endpoint := Endpoint(path)
	start := time.Now()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		c.fail("request", endpoint, method, path, 0, err)
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(endpoint, method, "transport", time.Since(start))
		c.fail("transport", endpoint, method, path, 0, err)
		return err
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(endpoint, method, strconv.Itoa(resp.StatusCode), time.Since(start))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.fail("transport", endpoint, method, path, resp.StatusCode, err)
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Status:  resp.StatusCode,
			Message: messageFrom(resp.StatusCode, data),
			Method:  method,
			Path:    path,
		}
		c.fail("http", endpoint, method, path, resp.StatusCode, apiErr)
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		err = fmt.Errorf("api: decode %s %s: %w", method, path, err)
		c.fail("decode", endpoint, method, path, resp.StatusCode, err)
		return err
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("api: parse path %q: %w", path, err)
	}
	target := *c.base
	target.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
	target.RawQuery = ref.RawQuery

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) fail(kind, endpoint, method, path string, status int, err error) {
	c.metrics.RecordError(kind, endpoint)
	c.log.Warn("backend request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.String("error_type", kind),
		zap.Error(err),
	)
}

// Endpoint collapses a concrete path into a low-cardinality metrics label:
// the query is dropped and identifier segments become {id}.
func Endpoint(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return "/" + strings.Join(parts, "/")
	}
	switch parts[0] {
	case "plant", "watered", "delete_plant", "plant_history", "complete_task", "delete_task":
		parts[1] = "{id}"
	case "tip_for_type":
		parts[1] = "{type}"
	}
	return "/" + strings.Join(parts, "/")
}
