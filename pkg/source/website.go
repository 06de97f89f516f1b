package source

import (
	"context"
	"io"
	"net/http"
)

// WebsiteStatus is the result of a liveness probe.
// Status is 0 when no HTTP response was received.
type WebsiteStatus struct {
	OK     bool
	Status int
}

// CheckWebsite probes u with HEAD, retrying once with GET when the server
// doesn't support HEAD. Redirects are followed and any final status below 400
// counts as reachable.
//
// CheckWebsite never returns an error: network failures and timeouts yield
// {OK: false, Status: 0} so a single flaky site can't abort a run.
func (c *Client) CheckWebsite(ctx context.Context, u string) WebsiteStatus {
	if u == "" {
		return WebsiteStatus{}
	}
	status := c.probe(ctx, http.MethodHead, u)
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status = c.probe(ctx, http.MethodGet, u)
	}
	return WebsiteStatus{
		OK:     status >= 200 && status < 400,
		Status: status,
	}
}

func (c *Client) probe(ctx context.Context, method, u string) int {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()
	req, err := c.newRequest(ctx, method, u)
	if err != nil {
		return 0
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))
	return resp.StatusCode
}
