package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/desertthunder/lineup/internal/shared"
	tu "github.com/desertthunder/lineup/internal/testing"
)

func TestAPIClient(t *testing.T) {
	t.Run("Get Decodes JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET method, got %s", r.Method)
			}
			if r.URL.Path != "/test" {
				t.Errorf("expected path '/test', got %s", r.URL.Path)
			}
			if r.URL.Query().Get("q") != "adele" {
				t.Errorf("expected query q=adele, got %s", r.URL.RawQuery)
			}
			if r.Header.Get("X-Custom") != "yes" {
				t.Errorf("expected custom header")
			}
			json.NewEncoder(w).Encode(map[string]string{"status": "success"})
		}))
		defer server.Close()

		api := NewAPIClient("test", server.URL+"/", nil, nil).WithHeader("X-Custom", "yes")

		var result map[string]string
		if err := api.Get(context.Background(), "/test", url.Values{"q": {"adele"}}, &result); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result["status"] != "success" {
			t.Errorf("expected status success, got %v", result)
		}
	})

	t.Run("Post Encodes Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "lineup" {
				t.Errorf("expected name lineup, got %v", body)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		api := NewAPIClient("test", server.URL, nil, nil)
		if err := api.Post(context.Background(), "/", map[string]string{"name": "lineup"}, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Error Mapping", func(t *testing.T) {
		tc := []struct {
			name   string
			status int
			body   string
			want   error
		}{
			{name: "server error", status: http.StatusInternalServerError, body: "{}", want: shared.ErrAPIRequest},
			{name: "unauthorized", status: http.StatusUnauthorized, body: "{}", want: shared.ErrAPIRequest},
			{name: "rate limited", status: http.StatusTooManyRequests, body: "{}", want: shared.ErrRateLimited},
			{name: "bad json", status: http.StatusOK, body: "{not json", want: shared.ErrDecode},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				var result map[string]any
				err := NewAPIClient("test", server.URL, nil, nil).Get(context.Background(), "/", nil, &result)
				if !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("network down"))}
		err := NewAPIClient("test", "http://example.invalid", client, nil).Get(context.Background(), "/", nil, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Read Failure", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		var result map[string]any
		err := NewAPIClient("test", "http://example.invalid", client, nil).Get(context.Background(), "/", nil, &result)
		if !errors.Is(err, shared.ErrDecode) {
			t.Errorf("expected ErrDecode, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		opts := Options{RateLimit: 0.001, Burst: 1}
		api := NewAPIClient("test", "http://example.invalid", nil, opts.limiter())
		api.limiter.Allow()

		if err := api.Get(ctx, "/", nil, nil); !errors.Is(err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})
}

func TestOptions(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		opts := Options{}
		if opts.httpClient().Timeout != defaultTimeout {
			t.Errorf("expected default timeout, got %v", opts.httpClient().Timeout)
		}
		if opts.baseURL("https://api") != "https://api" {
			t.Error("expected fallback base url")
		}
		if opts.limiter().Burst() != defaultBurst {
			t.Errorf("expected default burst, got %d", opts.limiter().Burst())
		}
	})

	t.Run("FromConfig", func(t *testing.T) {
		cfg := shared.DefaultConfig()
		opts := OptionsFromConfig(cfg.HTTP, nil)
		if opts.Timeout != cfg.HTTP.Timeout() {
			t.Errorf("expected timeout from config, got %v", opts.Timeout)
		}
	})
}
