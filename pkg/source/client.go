// Package source implements the adapters to external sources: an HTTP
// liveness probe, a best-effort phone scraper, the Nominatim geocoder, and the
// politeness limiters that pace requests according to each source's usage policy.
//
// A Client is built per run. Expected failures (timeouts, 4xx/5xx, empty
// matches) are normalized into return values so that the checkers decide
// whether to continue or abort.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultProbeTimeout      = 10 * time.Second
	DefaultListTimeout       = 30 * time.Second
	DefaultDocumentTimeout   = 60 * time.Second
	DefaultNominatimInterval = 1100 * time.Millisecond
	DefaultScrapeInterval    = 500 * time.Millisecond

	maxPageBytes = 4 << 20
)

// Param configures a Client. Zero durations disable the corresponding limiter
// or fall back to the defaults for timeouts.
type Param struct {
	UserAgent         string
	ProbeTimeout      time.Duration
	ListTimeout       time.Duration
	DocumentTimeout   time.Duration
	NominatimInterval time.Duration
	ScrapeInterval    time.Duration
	HTTPClient        *http.Client
}

// Client performs HTTP requests to external sources with a fixed identifying
// User-Agent and paces requests with token bucket limiters.
type Client struct {
	http            *http.Client
	userAgent       string
	probeTimeout    time.Duration
	listTimeout     time.Duration
	documentTimeout time.Duration
	nominatim       *rate.Limiter
	scrape          *rate.Limiter
}

// New creates a Client.
func New(param *Param) *Client {
	hc := param.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		http:            hc,
		userAgent:       param.UserAgent,
		probeTimeout:    orDefault(param.ProbeTimeout, DefaultProbeTimeout),
		listTimeout:     orDefault(param.ListTimeout, DefaultListTimeout),
		documentTimeout: orDefault(param.DocumentTimeout, DefaultDocumentTimeout),
		nominatim:       newLimiter(param.NominatimInterval),
		scrape:          newLimiter(param.ScrapeInterval),
	}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// NominatimDelay blocks until the geocoder may be called again.
// Nominatim's usage policy allows at most one request per second.
func (c *Client) NominatimDelay(ctx context.Context) error {
	if err := c.nominatim.Wait(ctx); err != nil {
		return fmt.Errorf("wait for the geocoder rate limit: %w", err)
	}
	return nil
}

// ScrapeDelay blocks until the next organization website request may be sent.
func (c *Client) ScrapeDelay(ctx context.Context) error {
	if err := c.scrape.Wait(ctx); err != nil {
		return fmt.Errorf("wait for the scrape rate limit: %w", err)
	}
	return nil
}

// StatusError is returned by Get when the server responds with a non 2xx status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Status)
}

// GetList fetches a list page or API response within the list timeout.
func (c *Client) GetList(ctx context.Context, u string) ([]byte, error) {
	return c.get(ctx, u, c.listTimeout, maxPageBytes)
}

// GetDocument fetches a large document such as a PDF within the document timeout.
func (c *Client) GetDocument(ctx context.Context, u string) ([]byte, error) {
	return c.get(ctx, u, c.documentTimeout, 8*maxPageBytes) //nolint:mnd
}

func (c *Client) get(ctx context.Context, u string, timeout time.Duration, limit int64) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := c.newRequest(ctx, http.MethodGet, u)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send a HTTP request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: u, Status: resp.StatusCode}
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read a response body: %w", err)
	}
	return b, nil
}

func (c *Client) newRequest(ctx context.Context, method, u string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create a HTTP request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}
