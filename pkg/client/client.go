// Package client provides the core Help Scout Mailbox API client: token
// management, request dispatch with typed error mapping, and paginated
// search collection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jhelmers/helpscout-client/pkg/auth"
	"github.com/jhelmers/helpscout-client/pkg/ratelimit"
)

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpscout_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "helpscout_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "helpscout_errors_total",
		Help: "Total API errors by kind",
	}, []string{"kind"})

	authRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "helpscout_auth_retries_total",
		Help: "Total requests retried after a 401 token refresh",
	})
)

// APIVersion selects which Mailbox API generation the client talks to. The
// two generations differ in 401 handling and search envelope shape, so the
// version is explicit configuration, never guessed.
type APIVersion string

const (
	// APIVersionV1 is the legacy API: 401 responses surface immediately and
	// search pages report items/pages at the top level.
	APIVersionV1 APIVersion = "v1"

	// APIVersionV2 is the current API: a 401 triggers one token refresh and
	// a single retry, and search pages use the _embedded/page.totalPages
	// envelope.
	APIVersionV2 APIVersion = "v2"
)

const (
	defaultBaseURL = "https://api.helpscout.net"
	tokenPath      = "/v2/oauth2/token"
)

// Client is the Mailbox API client. One instance performs sequential
// blocking round trips; every call returns its own Response value.
type Client struct {
	httpClient *http.Client
	tokens     *auth.Manager
	limits     *ratelimit.Observer
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// App credentials for the client-credentials grant (REQUIRED).
	ClientID     string
	ClientSecret string

	// APIVersion selects v1 or v2 behavior (default: v2).
	APIVersion APIVersion

	// BaseURL overrides the API host, mainly for tests.
	BaseURL string

	// HTTPClient overrides the transport; callers needing timeouts beyond
	// the 30s default configure them here.
	HTTPClient *http.Client

	// Redis shares rate-limit observations across processes. Optional;
	// nil keeps the state process-local.
	Redis *redis.Client
}

// DefaultConfig returns a v2 configuration for the given app credentials.
func DefaultConfig(clientID, clientSecret string) Config {
	return Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		APIVersion:   APIVersionV2,
	}
}

// RequestOptions shapes a single request. All fields are optional.
type RequestOptions struct {
	// Query parameters appended to the endpoint URL.
	Query url.Values

	// Body is serialized to JSON when present.
	Body any

	// Headers are merged into the request. Content-Type is only set to
	// application/json when the caller has not provided one.
	Headers http.Header
}

// New creates a Mailbox API client and acquires the initial bearer token.
// A token acquisition failure here is fatal: the error is unauthorized-kind
// and no resource call has been attempted.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client id and secret are required")
	}

	switch cfg.APIVersion {
	case "":
		cfg.APIVersion = APIVersionV2
	case APIVersionV1, APIVersionV2:
	default:
		return nil, fmt.Errorf("unknown api version %q", cfg.APIVersion)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger := log.With().Str("component", "helpscout-client").Logger()

	c := &Client{
		httpClient: httpClient,
		tokens:     auth.NewManager(cfg.ClientID, cfg.ClientSecret, cfg.BaseURL+tokenPath, httpClient, logger),
		limits:     ratelimit.NewObserver(cfg.Redis, logger),
		config:     cfg,
		logger:     logger,
	}

	if _, err := c.tokens.Token(ctx); err != nil {
		return nil, &APIError{
			Kind:    ErrorKindUnauthorized,
			Message: "token acquisition failed",
			Err:     err,
		}
	}

	return c, nil
}

// Do dispatches one API request and maps the response status to a Response
// or a typed error. The only automatic retry is the v2 401 path: one token
// refresh followed by a single replay of the same request.
func (c *Client) Do(ctx context.Context, method, path string, opts *RequestOptions) (*Response, error) {
	endpoint := "/" + strings.TrimPrefix(path, "/")

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	var bodyBytes []byte
	if opts != nil && opts.Body != nil {
		var err error
		bodyBytes, err = json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, endpoint, opts, bodyBytes)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.config.APIVersion == APIVersionV2 {
		c.logger.Warn().Str("endpoint", endpoint).Msg("Bearer token rejected, refreshing and retrying once")
		authRetriesTotal.Inc()

		if _, refreshErr := c.tokens.Refresh(ctx); refreshErr != nil {
			errorsTotal.WithLabelValues(string(ErrorKindUnauthorized)).Inc()
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Kind:       ErrorKindUnauthorized,
				Message:    "token refresh failed",
				Err:        refreshErr,
			}
		}

		resp, err = c.send(ctx, method, endpoint, opts, bodyBytes)
		if err != nil {
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return nil, err
		}
	}

	c.limits.Observe(ctx, resp.StatusCode, resp.Header)
	requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("method", method).
			Int("status", resp.StatusCode).
			Msg("Request complete")
		return resp, nil
	}

	apiErr := errorFromResponse(resp)
	errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()

	c.logger.Warn().
		Str("endpoint", endpoint).
		Str("method", method).
		Int("status", resp.StatusCode).
		Str("kind", string(apiErr.Kind)).
		Msg("API request error")

	return nil, apiErr
}

// send performs one HTTP round trip with the current bearer token and reads
// the full response body.
func (c *Client) send(ctx context.Context, method, endpoint string, opts *RequestOptions, bodyBytes []byte) (*Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, &APIError{
			Kind:    ErrorKindUnauthorized,
			Message: "token acquisition failed",
			Err:     err,
		}
	}

	fullURL := c.config.BaseURL + "/" + string(c.config.APIVersion) + endpoint
	if opts != nil && len(opts.Query) > 0 {
		fullURL += "?" + opts.Query.Encode()
	}

	var reqBody io.Reader
	if bodyBytes != nil {
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if opts != nil {
		for key, values := range opts.Headers {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if bodyBytes != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, endpoint, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       raw,
	}, nil
}

// FetchPage fetches one page of a search-style endpoint. It implements
// pagination.PageFetcher.
func (c *Client) FetchPage(ctx context.Context, path string, query url.Values, page int) ([]byte, error) {
	q := url.Values{}
	for key, values := range query {
		q[key] = values
	}
	q.Set("page", fmt.Sprintf("%d", page))

	resp, err := c.Do(ctx, http.MethodGet, path, &RequestOptions{Query: q})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// RateLimits returns the rate-limit observer's current snapshot.
func (c *Client) RateLimits(ctx context.Context) (*ratelimit.State, error) {
	return c.limits.Snapshot(ctx)
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
