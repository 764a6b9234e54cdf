package server

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/oauth2"
)

const callbackPath = "/callback"

const successPage = `<!DOCTYPE html>
<html>
<head>
    <title>All Star Music Lineup</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #111; }
        .card { text-align: center; background: #1b1b1b; padding: 2rem; border-radius: 8px; }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #aaa; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>Signed in</h1>
        <p>Your lineup is waiting in the terminal. You can close this window.</p>
    </div>
</body>
</html>
`

// OAuthResult contains the result of an OAuth authorization flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler handles the authorization code callback.
//
// Implements the [Handler] interface for registration with a [Router].
type OAuthHandler struct {
	config  *oauth2.Config
	state   string
	results chan OAuthResult
	once    sync.Once
	hit     atomic.Bool
}

// NewOAuthHandler creates a handler that accepts one callback carrying state.
// The state token should be random for CSRF protection.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:  config,
		state:   state,
		results: make(chan OAuthResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{callbackPath}
}

// ServeHTTP validates state, exchanges the code for a token and publishes the result.
func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.hit.CompareAndSwap(false, true) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("%w: invalid state parameter", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.Send(OAuthResult{err: fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, q.Get("error"), q.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("%w: token exchange failed: %v", shared.ErrAuthFailed, err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// Send publishes the result once and closes the channel.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result returns the channel receiving exactly one result.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}
