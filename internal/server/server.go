// Package server exposes the extraction pipeline over HTTP. It is thin by
// design: one multipart upload route, a health check, and the error mapping
// between pipeline stages and status codes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"cardscan/internal/logger"
	"cardscan/internal/pipeline"
)

// Server hosts the extraction HTTP API.
type Server struct {
	httpServer     *http.Server
	pipeline       *pipeline.Pipeline
	maxUploadBytes int64
	log            zerolog.Logger
}

// New creates the HTTP server for the given pipeline.
func New(addr string, p *pipeline.Pipeline, maxUploadMB int) *Server {
	s := &Server{
		pipeline:       p,
		maxUploadBytes: int64(maxUploadMB) << 20,
		log:            logger.WithComponent("server"),
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"cardscan"}`))
	})

	r.Post("/extract", s.handleExtract)

	return r
}

// Handler returns the configured router (for testing).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts serving and blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
