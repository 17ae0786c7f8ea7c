package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"brc-agent/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const (
	DefaultAddr = "127.0.0.1:8765"
	// Disabled as the listen address turns the control API off.
	Disabled = "off"
)

type Server struct {
	addr     string
	handlers *Handlers
	logger   output.LoggerPort
}

func NewServer(addr string, handlers *Handlers, logger output.LoggerPort) *Server {
	return &Server{addr: addr, handlers: handlers, logger: logger}
}

// Router builds the HTTP handler. httplog formats the access log; its
// events are handed to the agent logger so they share its sinks.
func (s *Server) Router() http.Handler {
	accessLog := httplog.NewLogger("brc-control", httplog.Options{
		JSON:    true,
		Concise: true,
	}).Output(accessWriter{logger: s.logger})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(httplog.RequestLogger(accessLog))
	s.handlers.RegisterRoutes(r)
	return r
}

// Serve listens until ctx is cancelled and then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Control API listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("control api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown control api: %w", err)
	}
	<-errCh
	s.logger.Info("Control API stopped")
	return nil
}
