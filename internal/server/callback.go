package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lineup/internal/shared"
	"golang.org/x/oauth2"
)

const shutdownTimeout = 5 * time.Second

// CallbackServer serves a single [OAuthHandler] on a local address.
type CallbackServer struct {
	handler  *OAuthHandler
	logger   *log.Logger
	srv      *http.Server
	listener net.Listener
	errs     chan error
}

// NewCallbackServer wires handler into a [BasicRouter] with logging and panic recovery.
func NewCallbackServer(addr string, handler *OAuthHandler, logger *log.Logger) *CallbackServer {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	router.Handler(handler)

	return &CallbackServer{
		handler: handler,
		logger:  logger,
		srv:     &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
		errs:    make(chan error, 1),
	}
}

// Start binds the address and serves in the background.
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("%w: listen %s: %v", shared.ErrServiceUnavailable, s.srv.Addr, err)
	}
	s.listener = ln

	go func() {
		s.logger.Info("starting OAuth callback server", "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errs <- err
		}
	}()
	return nil
}

// Addr returns the bound address, which differs from the configured one for port 0.
func (s *CallbackServer) Addr() string {
	if s.listener == nil {
		return s.srv.Addr
	}
	return s.listener.Addr().String()
}

// Wait blocks until the callback completes or ctx ends, then shuts the server down.
func (s *CallbackServer) Wait(ctx context.Context) (*oauth2.Token, error) {
	defer s.shutdown()

	var result OAuthResult
	select {
	case result = <-s.handler.Result():
	case err := <-s.errs:
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrServiceUnavailable, err)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for authorization: %v", shared.ErrAuthFailed, ctx.Err())
	}

	if err := result.Error(); err != nil {
		return nil, err
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}

func (s *CallbackServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("error shutting down callback server", "err", err)
	}
}
