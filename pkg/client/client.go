// Package client provides the api-football HTTP client with provider header
// injection, bounded retry, quota gating, and error classification.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matchpulse/footdata/pkg/cache"
	"github.com/matchpulse/footdata/pkg/ratelimit"
)

// DefaultBaseURL is the api-football v3 host, shared by both providers.
const DefaultBaseURL = "https://v3.football.api-sports.io"

// snippetLimit bounds how much of an error body is carried in an APIError.
const snippetLimit = 256

// Prometheus metrics for provider requests.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "footdata_requests_total",
		Help: "Total provider requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "footdata_request_duration_seconds",
		Help:    "Provider request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "footdata_errors_total",
		Help: "Total provider errors by class",
	}, []string{"class"})
)

// Paging mirrors the api-football paging block.
type Paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Envelope is the api-football response wrapper: a `response` array payload
// plus a `results` count.
type Envelope struct {
	Get        string          `json:"get"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Errors     json.RawMessage `json:"errors,omitempty"`
	Results    int             `json:"results"`
	Paging     Paging          `json:"paging"`
	Response   json.RawMessage `json:"response"`
}

// HasAPIErrors reports whether the provider flagged errors inside a 200
// response. api-football encodes "no errors" as [] or {}.
func (e *Envelope) HasAPIErrors() bool {
	trimmed := string(e.Errors)
	return trimmed != "" && trimmed != "[]" && trimmed != "{}" && trimmed != "null"
}

// Config holds the client configuration.
type Config struct {
	// Provider selects the header scheme. Required.
	Provider Provider

	// APIKey authenticates against the selected provider. Required.
	APIKey string

	// BaseURL overrides the api-football host. Defaults to DefaultBaseURL.
	BaseURL string

	// DefaultTimezone is added as a timezone param to every request unless
	// the caller sets its own. Empty disables injection.
	DefaultTimezone string

	// Timeout applies per HTTP attempt.
	Timeout time.Duration

	// Retry configures the bounded retry on 429/5xx/network failures.
	Retry RetryConfig

	// Quota optionally gates requests on the shared daily budget.
	Quota *ratelimit.Tracker

	// HTTPClient overrides the underlying transport (for testing).
	HTTPClient *http.Client
}

// DefaultConfig returns a safe default configuration for the given provider.
func DefaultConfig(provider Provider, apiKey string) Config {
	return Config{
		Provider:        provider,
		APIKey:          apiKey,
		BaseURL:         DefaultBaseURL,
		DefaultTimezone: "Asia/Seoul",
		Timeout:         15 * time.Second,
		Retry:           DefaultRetryConfig(),
	}
}

// Client is the api-football HTTP client.
type Client struct {
	httpClient *http.Client
	config     Config
	host       string
	logger     zerolog.Logger
}

// New creates a new api-football client.
func New(cfg Config) (*Client, error) {
	if !cfg.Provider.Valid() {
		return nil, fmt.Errorf("provider is required (apisports or rapidapi)")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		host:       parsed.Host,
		logger:     log.With().Str("component", "football-client").Logger(),
	}, nil
}

// Get fetches an api-football endpoint with the canonical parameter form,
// retrying transient failures up to the configured bound.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]any) (*Envelope, error) {
	key := cache.Key{Endpoint: endpoint, Params: c.withDefaults(params)}
	requestURL := key.URL(c.config.BaseURL)

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if c.config.Quota != nil {
		allowed, err := c.config.Quota.ShouldAllowRequest(ctx)
		if err != nil {
			// Quota state being unreachable must not take the client down.
			c.logger.Warn().Err(err).Msg("Quota check failed, allowing request")
		} else if !allowed {
			requestsTotal.WithLabelValues(endpoint, "quota_blocked").Inc()
			return nil, ErrQuotaExceeded
		}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", requestURL).
		Msg("Executing provider request")

	var envelope *Envelope
	err := retryWithBackoff(ctx, c.config.Retry, c.logger, func() (ErrorClass, error) {
		env, class, attemptErr := c.doOnce(ctx, endpoint, requestURL)
		if attemptErr != nil {
			return class, attemptErr
		}
		envelope = env
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	return envelope, nil
}

// doOnce executes a single HTTP attempt and classifies its outcome.
func (c *Client) doOnce(ctx context.Context, endpoint, requestURL string) (*Envelope, ErrorClass, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, ErrorClassClient, fmt.Errorf("create request: %w", err)
	}

	c.config.Provider.apply(req.Header, c.config.APIKey, c.host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, ErrorClassNetwork, err
	}
	defer resp.Body.Close()

	if c.config.Quota != nil {
		if err := c.config.Quota.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update quota from headers")
		}
	}

	requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Provider request error")

		return nil, class, &APIError{
			StatusCode: resp.StatusCode,
			Class:      class,
			Snippet:    readSnippet(resp.Body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, ErrorClassNetwork, fmt.Errorf("read response body: %w", err)
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// A body that is not JSON is a permanent failure, not worth retrying.
		errorsTotal.WithLabelValues(string(ErrorClassClient)).Inc()
		return nil, ErrorClassClient, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &envelope, "", nil
}

// withDefaults merges the default timezone into the caller's parameters.
func (c *Client) withDefaults(params map[string]any) map[string]any {
	if c.config.DefaultTimezone == "" {
		return params
	}
	merged := make(map[string]any, len(params)+1)
	merged["timezone"] = c.config.DefaultTimezone
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// readSnippet reads at most snippetLimit bytes of an error body.
func readSnippet(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, snippetLimit))
	if err != nil {
		return ""
	}
	return string(data)
}
