// Package web serves the operator dashboard: HTML pages for inspecting the
// vault and JSON endpoints for triggering transitions.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/vaultflow/internal/vaultflow"
)

// Server wraps the HTTP listener and handlers backing the dashboard.
type Server struct {
	app        *vaultflow.App
	logger     zerolog.Logger
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a dashboard server over the given app.
func NewServer(app *vaultflow.App, logger zerolog.Logger) *Server {
	s := &Server{
		app:    app,
		logger: logger.With().Str("component", "web").Logger(),
	}
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with logging middleware applied.
// Exposed so tests can drive the server through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// HTML pages
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /pending_approval", s.handlePendingApproval)
	mux.HandleFunc("GET /needs_action", s.handleNeedsAction)
	mux.HandleFunc("GET /social_drafts", s.handleSocialDrafts)
	mux.HandleFunc("GET /logs", s.handleLogs)
	mux.HandleFunc("GET /view", s.handleViewFile)

	// Mutations; each returns the {success, error?} envelope.
	mux.HandleFunc("POST /approve_file", s.handleAction(actionApprove))
	mux.HandleFunc("POST /reject_file", s.handleAction(actionReject))
	mux.HandleFunc("POST /send_for_approval", s.handleAction(actionSend))
	mux.HandleFunc("POST /mark_done", s.handleAction(actionDone))

	// JSON reads
	mux.HandleFunc("GET /api/counts", s.handleAPICounts)
	mux.HandleFunc("GET /api/activity", s.handleAPIActivity)
	mux.HandleFunc("GET /api/logs", s.handleAPILogs)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRequestLog(mux)
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	addr := s.app.Config.Web.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.listener = listener
	s.httpServer.BaseContext = func(net.Listener) context.Context { return ctx }

	s.logger.Info().Str("addr", listener.Addr().String()).Msg("dashboard listening")

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("serve error")
		}
	}()
	return nil
}

// Addr returns the bound listen address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down dashboard")
	return s.httpServer.Shutdown(ctx)
}

// withRequestLog tags every request with an ID and logs its outcome.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug().
			Str("request_id", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
