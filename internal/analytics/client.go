// Package analytics queries the Simple Analytics stats API for per-day visitor counts.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/stmartin/internal/foundation"
	"git.home.luguber.info/inful/stmartin/internal/foundation/errors"
	"git.home.luguber.info/inful/stmartin/internal/version"
)

// maxBodyBytes bounds how much of a stats response is read.
const maxBodyBytes = 1 << 20

// Client fetches daily visitor totals. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client for the API rooted at baseURL. Every request is bounded by timeout;
// a request that exceeds it is reported as a failed fetch.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  "stmartin-visitorcount/" + version.Version,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// statsResponse is the subset of the stats payload we read. A missing or null visitors field
// means no visitors were recorded.
type statsResponse struct {
	Visitors *int64 `json:"visitors"`
}

// DailyVisitors returns the visitor count for a single calendar day (YYYY-MM-DD) of domain.
// Transport, HTTP status and decoding problems are returned as Err so callers can tell an
// unknown count apart from a day with zero visitors.
func (c *Client) DailyVisitors(ctx context.Context, domain, day string) foundation.Result[int, error] {
	endpoint, err := c.statsURL(domain, day)
	if err != nil {
		return foundation.Err[int, error](err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return foundation.Err[int, error](errors.AnalyticsError("failed to create stats request").
			WithCause(err).
			WithContext("url", endpoint).
			Build())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return foundation.Err[int, error](errors.NetworkError("failed to execute stats request").
			WithCause(err).
			WithContext("day", day).
			WithContext("url", endpoint).
			Build())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return foundation.Err[int, error](errors.AnalyticsError(fmt.Sprintf("stats API error: %s", resp.Status)).
			WithContext("day", day).
			WithContext("code", resp.StatusCode).
			WithContext("response", strings.ReplaceAll(string(limitedBody), "\n", " ")).
			Build())
	}

	var payload statsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return foundation.Err[int, error](errors.AnalyticsError("failed to decode stats response").
			WithCause(err).
			WithContext("day", day).
			Build())
	}

	if payload.Visitors == nil {
		return foundation.Ok[int, error](0)
	}
	if *payload.Visitors < 0 {
		return foundation.Err[int, error](errors.AnalyticsError("stats API returned a negative visitor count").
			WithContext("day", day).
			WithContext("visitors", *payload.Visitors).
			Build())
	}
	return foundation.Ok[int, error](int(*payload.Visitors))
}

// statsURL builds {base}/{domain}.json with a single-day start/end window.
func (c *Client) statsURL(domain, day string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.ConfigError("failed to parse analytics API URL").
			WithCause(err).
			WithContext("api_url", c.baseURL).
			Build()
	}
	u.Path = path.Join("/", u.Path, domain+".json")

	q := url.Values{}
	q.Set("version", "6")
	q.Set("fields", "visitors")
	q.Set("info", "false")
	q.Set("start", day)
	q.Set("end", day)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
