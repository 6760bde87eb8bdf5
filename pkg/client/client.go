// Package client provides the Hub'Eau HTTP client adapter: URL building,
// single GET requests and response validation.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/hubeau-client/pkg/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Hub'Eau client operations.
var (
	hubeauRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubeau_requests_total",
		Help: "Total Hub'Eau requests by endpoint and status",
	}, []string{"endpoint", "status"})

	hubeauRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hubeau_request_duration_seconds",
		Help:    "Hub'Eau request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"endpoint"})

	hubeauErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubeau_errors_total",
		Help: "Total Hub'Eau errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the public Hub'Eau API root.
	DefaultBaseURL = "https://hubeau.eaufrance.fr/api"

	// DefaultVersion is the API version used when none is given.
	DefaultVersion = "v1"

	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "hubeau-client/0.1.0"
)

// Doer executes HTTP requests. *http.Client satisfies it; wrap it to add
// retries or tracing without touching fetch logic.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoint addresses one remote resource collection.
type Endpoint struct {
	BaseURL string
	Version string
	Path    string
}

// URL joins base URL, version and path with "/". No slash normalization is
// applied.
func (e Endpoint) URL() string {
	return e.BaseURL + "/" + e.Version + "/" + e.Path
}

// String implements fmt.Stringer.
func (e Endpoint) String() string {
	return e.Version + "/" + e.Path
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root, without version (e.g. https://hubeau.eaufrance.fr/api)
	BaseURL string

	// Version is the API version segment (v0, v1, v2)
	Version string

	// UserAgent header sent with every request
	UserAgent string

	// Timeout per request. Zero keeps the transport default (no timeout).
	Timeout time.Duration

	// HTTPClient overrides the HTTP boundary (for testing or retry wrappers).
	HTTPClient Doer
}

// DefaultConfig returns the default configuration for the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Version:   DefaultVersion,
		UserAgent: DefaultUserAgent,
	}
}

// Client is the Hub'Eau client adapter.
type Client struct {
	doer   Doer
	config Config
	logger zerolog.Logger
}

// RawResponse is an unvalidated HTTP response.
type RawResponse struct {
	URL        string
	StatusCode int
	Body       []byte
}

// New creates a new Hub'Eau client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base url must include scheme and host (got %q)", cfg.BaseURL)
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("version is required")
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative (got %s)", cfg.Timeout)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		doer:   doer,
		config: cfg,
		logger: log.With().Str("component", "hubeau-client").Logger(),
	}, nil
}

// WithVersion returns a client sharing this client's HTTP boundary but
// addressing another API version.
func (c *Client) WithVersion(version string) *Client {
	clone := *c
	clone.config.Version = version
	return &clone
}

// Version returns the API version segment.
func (c *Client) Version() string {
	return c.config.Version
}

// Endpoint binds path to the client's base URL and version.
func (c *Client) Endpoint(path string) Endpoint {
	return Endpoint{BaseURL: c.config.BaseURL, Version: c.config.Version, Path: path}
}

// BuildURL returns {base}/{version}/{path}.
func (c *Client) BuildURL(path string) string {
	return c.Endpoint(path).URL()
}

// GetRaw issues one GET request and returns the unvalidated response.
// Transport failures are returned as *TransportError. No retries.
func (c *Client) GetRaw(ctx context.Context, path string, params url.Values) (*RawResponse, error) {
	target := c.BuildURL(path)
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	startTime := time.Now()
	defer func() {
		hubeauRequestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", path).
		Str("url", target).
		Msg("Executing Hub'Eau request")

	resp, err := c.doer.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("endpoint", path).Msg("HTTP request failed")
		hubeauErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		hubeauRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, &TransportError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		hubeauErrorsTotal.WithLabelValues(string(ErrorClassTransport)).Inc()
		hubeauRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, &TransportError{URL: target, Err: fmt.Errorf("read body: %w", err)}
	}

	hubeauRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	return &RawResponse{
		URL:        target,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

// Fetch issues one GET request and validates the response.
//
// The body alone decides the outcome; the HTTP status is only recorded on
// errors. Hub'Eau rejects pages beyond its depth limit with a 400 JSON body
// carrying no status field, which validates as an empty page.
func (c *Client) Fetch(ctx context.Context, path string, params url.Values) (*Payload, error) {
	raw, err := c.GetRaw(ctx, path, params)
	if err != nil {
		return nil, err
	}

	payload, err := Validate(raw.Body)
	if err != nil {
		var malformed *MalformedResponse
		var remote *RemoteAPIError
		switch {
		case errors.As(err, &malformed):
			malformed.URL = raw.URL
			malformed.StatusCode = raw.StatusCode
		case errors.As(err, &remote):
			remote.URL = raw.URL
			remote.StatusCode = raw.StatusCode
		}
		c.logFailure(path, raw.StatusCode, err)
		return nil, err
	}

	if raw.StatusCode >= http.StatusBadRequest {
		c.logger.Warn().
			Str("endpoint", path).
			Int("status", raw.StatusCode).
			Int("records", payload.Data.Len()).
			Msg("Hub'Eau answered an error status with a valid body")
	}

	return payload, nil
}

// Get issues a single unpaginated request and returns its data records.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (*table.Table, error) {
	payload, err := c.Fetch(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func (c *Client) logFailure(path string, status int, err error) {
	class := ClassOf(err)
	hubeauErrorsTotal.WithLabelValues(string(class)).Inc()
	c.logger.Warn().
		Err(err).
		Str("endpoint", path).
		Int("status", status).
		Str("error_class", string(class)).
		Msg("Hub'Eau request error")
}
