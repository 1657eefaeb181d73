package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/hsbacot/bysykkel/fetch"
)

const (
	// DefaultGBFSBaseURL is Urban Sharing's GBFS feed root
	DefaultGBFSBaseURL = "https://gbfs.urbansharing.com"
	// DefaultAirQualityBaseURL is NILU's open air quality API
	DefaultAirQualityBaseURL = "https://api.nilu.no"

	// ClientIdentifier is sent on every request. Urban Sharing's preflight
	// response does not list the header in Access-Control-Allow-Headers, so
	// it has to travel on the actual request.
	ClientIdentifier = "stigjb-norske-api-er"
)

// Client is an HTTP client for the bike-share and air quality APIs
type Client struct {
	httpClient        *http.Client
	gbfsBaseURL       string
	airQualityBaseURL string
	logger            *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithGBFSBaseURL points system information requests at another host
func WithGBFSBaseURL(u string) Option {
	return func(c *Client) { c.gbfsBaseURL = u }
}

// WithAirQualityBaseURL points air quality requests at another host
func WithAirQualityBaseURL(u string) Option {
	return func(c *Client) { c.airQualityBaseURL = u }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new API client. Requests have no timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:        &http.Client{},
		gbfsBaseURL:       DefaultGBFSBaseURL,
		airQualityBaseURL: DefaultAirQualityBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON performs a GET against url and decodes the body into out.
// Every failure is returned as a *fetch.Error.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetch.Transport(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Client-Identifier", ClientIdentifier)

	c.debug("GET", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fetch.Transport(err, "failed to make request")
	}
	defer resp.Body.Close()

	// Check status code
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.debug("Request rejected", "url", url, "status", resp.StatusCode)
		return fetch.Transport(nil, fmt.Sprintf("request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetch.Transport(err, "failed to read response body")
	}

	if !json.Valid(body) {
		return fetch.Serialization(nil, "response body is not valid JSON")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fetch.Serialization(err, "failed to parse response")
	}

	c.debug("Request completed", "url", url, "bytes", len(body))
	return nil
}

func (c *Client) debug(msg string, keyvals ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, keyvals...)
	}
}
