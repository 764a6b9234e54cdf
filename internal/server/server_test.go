package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/oauth2"
)

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"abc","token_type":"Bearer","expires_in":3600,"refresh_token":"r"}`)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func oauthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		RedirectURL:  "http://localhost/callback",
	}
}

func TestBasicRouter(t *testing.T) {
	t.Run("filters methods", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "pong")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
			t.Errorf("GET = %d %q", rec.Code, rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST = %d, want 405", rec.Code)
		}
	})

	t.Run("applies middleware in order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("first"), mark("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			order = append(order, "handler")
		}))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("order = %s", got)
		}
	})
}

func TestRecover(t *testing.T) {
	logger := shared.NewLogger(io.Discard)
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestLogging(t *testing.T) {
	var buf strings.Builder
	logger := shared.NewLogger(&buf)
	logger.SetLevel(log.DebugLevel)

	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=secret", nil))

	out := buf.String()
	if !strings.Contains(out, "418") || !strings.Contains(out, "/callback") {
		t.Errorf("log line missing status or path: %q", out)
	}
	if strings.Contains(out, "secret") {
		t.Errorf("log line leaked query string: %q", out)
	}
}

func TestOAuthHandler(t *testing.T) {
	ts := tokenServer(t)

	t.Run("exchanges code", func(t *testing.T) {
		h := NewOAuthHandler(oauthConfig(ts.URL), "xyz")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("unexpected error: %v", result.Error())
		}
		if result.Token.AccessToken != "abc" {
			t.Errorf("token = %q", result.Token.AccessToken)
		}
	})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"state mismatch", "state=bad&code=good-code", http.StatusBadRequest},
		{"denied", "state=xyz&error=access_denied", http.StatusBadRequest},
		{"exchange failure", "state=xyz&code=bad-code", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOAuthHandler(oauthConfig(ts.URL), "xyz")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			result := <-h.Result()
			if !errors.Is(result.Error(), shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", result.Error())
			}
		})
	}

	t.Run("rejects second callback", func(t *testing.T) {
		h := NewOAuthHandler(oauthConfig(ts.URL), "xyz")
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=xyz&code=good-code", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	ts := tokenServer(t)
	logger := shared.NewLogger(io.Discard)

	t.Run("returns token", func(t *testing.T) {
		srv := NewCallbackServer("127.0.0.1:0", NewOAuthHandler(oauthConfig(ts.URL), "xyz"), logger)
		if err := srv.Start(); err != nil {
			t.Fatalf("start: %v", err)
		}

		go func() {
			resp, err := http.Get("http://" + srv.Addr() + "/callback?state=xyz&code=good-code")
			if err == nil {
				resp.Body.Close()
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		token, err := srv.Wait(ctx)
		if err != nil {
			t.Fatalf("wait: %v", err)
		}
		if token.AccessToken != "abc" {
			t.Errorf("token = %q", token.AccessToken)
		}
	})

	t.Run("times out", func(t *testing.T) {
		srv := NewCallbackServer("127.0.0.1:0", NewOAuthHandler(oauthConfig(ts.URL), "xyz"), logger)
		if err := srv.Start(); err != nil {
			t.Fatalf("start: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		if _, err := srv.Wait(ctx); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})
}
