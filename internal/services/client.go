// HTTP transport shared by every provider adapter
package services

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

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 5.0
	defaultBurst     = 5
)

// Options configures the transport of a provider adapter.
type Options struct {
	BaseURL    string       // Overrides the provider API root (tests point this at httptest)
	HTTPClient *http.Client // Base client; a new one with Timeout is built when nil
	Timeout    time.Duration
	RateLimit  float64 // Requests per second
	Burst      int
	Logger     *log.Logger
}

// OptionsFromConfig builds [Options] from the shared HTTP settings.
func OptionsFromConfig(cfg shared.HTTPConfig, logger *log.Logger) Options {
	return Options{
		Timeout:   cfg.Timeout(),
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Logger:    logger,
	}
}

func (o Options) baseURL(fallback string) string {
	if o.BaseURL == "" {
		return fallback
	}
	return strings.TrimRight(o.BaseURL, "/")
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (o Options) limiter() *rate.Limiter {
	limit, burst := o.RateLimit, o.Burst
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return rate.NewLimiter(rate.Limit(limit), burst)
}

func (o Options) logger(provider string) *log.Logger {
	l := o.Logger
	if l == nil {
		l = shared.NewLogger(nil)
	}
	return shared.WithLogger(l, "provider", provider)
}

// APIClient performs rate limited JSON requests against one provider API.
type APIClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	header     http.Header
}

// NewAPIClient creates a client for the provider called name rooted at baseURL.
func NewAPIClient(name, baseURL string, client *http.Client, limiter *rate.Limiter) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &APIClient{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    limiter,
		header:     http.Header{},
	}
}

// WithClient returns a copy of the client that sends requests through c.
//
// The limiter is shared with the receiver.
func (a *APIClient) WithClient(c *http.Client) *APIClient {
	cp := *a
	cp.httpClient = c
	return &cp
}

// WithHeader returns a copy of the client that sets key on every request.
func (a *APIClient) WithHeader(key, value string) *APIClient {
	cp := *a
	cp.header = a.header.Clone()
	cp.header.Set(key, value)
	return &cp
}

// HTTPClient exposes the underlying client, used to derive authorized clients.
func (a *APIClient) HTTPClient() *http.Client {
	return a.httpClient
}

// Get performs a GET request and decodes the JSON body into result.
func (a *APIClient) Get(ctx context.Context, path string, query url.Values, result any) error {
	return a.do(ctx, http.MethodGet, path, query, nil, result)
}

// Post performs a POST request with body encoded as JSON and decodes the response into result.
func (a *APIClient) Post(ctx context.Context, path string, body any, result any) error {
	return a.do(ctx, http.MethodPost, path, nil, body, result)
}

func (a *APIClient) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrRateLimited, a.name, err)
	}

	fullURL := a.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range a.header {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: request failed: %v", shared.ErrAPIRequest, a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s: status %d", shared.ErrRateLimited, a.name, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, a.name, resp.StatusCode)
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrDecode, a.name, err)
	}
	return nil
}
