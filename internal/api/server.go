// Package api exposes the HTTP surface of the service.
//
// Handlers stay thin: they decode the request, call into the auth gate,
// the stores, or the upload pipeline, and translate the result into a
// JSON response. All domain decisions live below this package.
package api

import (
	"context"
	"fmt"
	"net/http"

	"filevault/internal/logger"
	"filevault/pkg/auth"
	"filevault/pkg/config"
	"filevault/pkg/files"
	"filevault/pkg/metadata"
	"filevault/pkg/session"
)

// Server holds the shared handles every handler needs. Construct it once
// at startup, after the stores have connected.
type Server struct {
	cfg      config.ServerConfig
	metadata metadata.Store
	sessions session.Store
	files    *files.Service
	gate     *auth.Gate
}

// New creates an HTTP server over already-connected stores.
func New(cfg config.ServerConfig, meta metadata.Store, sessions session.Store, filesSvc *files.Service) *Server {
	return &Server{
		cfg:      cfg,
		metadata: meta,
		sessions: sessions,
		files:    filesSvc,
		gate:     &auth.Gate{Metadata: meta, Sessions: sessions},
	}
}

// Handler builds the route table. Exposed separately from Serve so tests
// can drive the full stack through httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /stats", s.handleStats)

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/me", s.handleMe)

	mux.HandleFunc("GET /connect", s.handleConnect)
	mux.HandleFunc("GET /disconnect", s.handleDisconnect)

	mux.HandleFunc("POST /files", s.handleUpload)

	return s.withRecover(mux)
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
	}

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		shutdownDone <- httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("HTTP server listening on port %d", s.cfg.Port)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}

	// ListenAndServe returns as soon as Shutdown is called; wait for the
	// drain to complete before reporting.
	if ctx.Err() != nil {
		return <-shutdownDone
	}
	return nil
}
