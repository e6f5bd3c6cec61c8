// Package client provides the HTTP client for the upstream post collection, with
// conditional-request caching and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/post-pager/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream requests.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_upstream_requests_total",
		Help: "Total upstream requests by HTTP status",
	}, []string{"status"})

	upstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "posts_upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_upstream_errors_total",
		Help: "Total upstream errors by class",
	}, []string{"class"})
)

// Client talks to the upstream REST API.
type Client struct {
	httpClient *http.Client
	store      cache.Store
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the upstream API, e.g. "https://jsonplaceholder.typicode.com"
	BaseURL string

	// CollectionPath is the path of the post collection endpoint
	CollectionPath string

	// UserAgent header sent with every request
	UserAgent string

	// Timeout per HTTP request
	Timeout time.Duration

	// Store for upstream responses (optional). With a store, repeated requests
	// are revalidated with If-None-Match / If-Modified-Since.
	Store cache.Store
}

// DefaultConfig returns the configuration for the public JSONPlaceholder API.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://jsonplaceholder.typicode.com",
		CollectionPath: "/posts",
		UserAgent:      "post-pager/0.1.0",
		Timeout:        30 * time.Second,
	}
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.CollectionPath == "" {
		cfg.CollectionPath = "/posts"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		store:   cfg.Store,
		baseURL: base,
		config:  cfg,
		logger:  log.With().Str("component", "client").Logger(),
	}, nil
}

// Do performs an HTTP request with response caching and error classification.
// Transport failures and statuses >= 400 are returned as *NetworkError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	cacheKey := cache.KeyForURL(req.URL)

	var cachedEntry *cache.StoredResponse
	if c.store != nil && req.Method == http.MethodGet {
		entry, err := c.store.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		cachedEntry = entry
	}

	if cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(req, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing upstream request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errClass := c.classifyError(nil, err)
		upstreamErrorsTotal.WithLabelValues(string(errClass)).Inc()
		upstreamRequestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &NetworkError{
			ErrorClass: errClass,
			Message:    "request failed",
			Err:        err,
		}
	}

	upstreamRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		cache.NotModifiedResponses.Inc()
		resp.Body.Close()

		if newExpires := cache.ExpiresFromHeaders(resp.Header); newExpires.After(cachedEntry.Expires) {
			if err := cache.UpdateTTL(ctx, c.store, cacheKey, newExpires); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
			}
		}
		return cache.ReplayResponse(cachedEntry), nil
	}

	if resp.StatusCode >= 400 {
		errClass := c.classifyError(resp, nil)
		upstreamErrorsTotal.WithLabelValues(string(errClass)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Upstream request error")

		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		resp.Body.Close()
		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	if c.store != nil && resp.StatusCode == http.StatusOK && req.Method == http.MethodGet {
		entry, err := cache.CaptureResponse(resp)
		if err != nil {
			// CaptureResponse consumed the body; surface as transport failure
			upstreamErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			return nil, &NetworkError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Message:    "read response body",
				Err:        err,
			}
		}
		if err := c.store.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("ttl", entry.TTL()).
				Msg("Cached response")
		}
	}

	return resp, nil
}

// classifyError categorizes an error for observability and handling.
func (c *Client) classifyError(resp *http.Response, err error) ErrorClass {
	if err != nil {
		return ErrorClassNetwork
	}

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return ErrorClassClient
	case resp.StatusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Get performs a GET request to a path relative to the base URL.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.urlFor(path).String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// GetJSON performs a GET request and decodes the JSON body into out.
// A malformed body, including one with data after the JSON value, is returned
// as *DecodeError and is dropped from the store so a retry goes upstream.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	err = dec.Decode(out)
	if err == nil {
		if _, tokErr := dec.Token(); tokErr != io.EOF {
			err = ErrTrailingData
		}
	}
	if err != nil {
		return c.decodeFailed(ctx, path, err)
	}
	return nil
}

func (c *Client) decodeFailed(ctx context.Context, path string, err error) error {
	upstreamErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
	c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to decode response")
	c.Invalidate(ctx, path)
	return &DecodeError{Path: path, Err: err}
}

// Invalidate drops the stored response for path, if any.
func (c *Client) Invalidate(ctx context.Context, path string) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, cache.KeyForURL(c.urlFor(path))); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to drop stored response")
	}
}

func (c *Client) urlFor(path string) *url.URL {
	return c.baseURL.JoinPath(strings.TrimPrefix(path, "/"))
}

// CollectionPath returns the configured path of the post collection.
func (c *Client) CollectionPath() string {
	return c.config.CollectionPath
}

// Close releases the response store, if any.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
