package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/custodia-labs/wilson-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wilson-cli/internal/logger"
)

// DefaultMaxUploadSize bounds the size of an uploaded document.
const DefaultMaxUploadSize = 64 << 20

// ErrMissingService is returned when a required service is not provided.
var ErrMissingService = errors.New("httpapi: ingestion, clause and document services are required")

// Ports aggregates the driving ports the HTTP API calls.
type Ports struct {
	Ingestion driving.IngestionService
	Clause    driving.ClauseService
	Document  driving.DocumentService
}

// Server is the HTTP API for wilson.
type Server struct {
	ports          Ports
	router         *mux.Router
	allowedOrigins []string
	tempDir        string
	maxUploadSize  int64
	metrics        *metrics
}

// Option configures the server.
type Option func(*Server)

// WithAllowedOrigins sets the origins permitted to make cross-origin requests.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		s.allowedOrigins = append(s.allowedOrigins, origins...)
	}
}

// WithTempDir sets where uploads are staged while being ingested.
func WithTempDir(dir string) Option {
	return func(s *Server) {
		s.tempDir = dir
	}
}

// WithMaxUploadSize sets the largest accepted upload in bytes.
func WithMaxUploadSize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadSize = n
		}
	}
}

// NewServer creates the HTTP API server.
func NewServer(ports Ports, opts ...Option) (*Server, error) {
	if ports.Ingestion == nil || ports.Clause == nil || ports.Document == nil {
		return nil, ErrMissingService
	}

	s := &Server{
		ports:          ports,
		tempDir:        os.TempDir(),
		maxUploadSize:  DefaultMaxUploadSize,
		metrics:        newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = mux.NewRouter()
	s.router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	s.router.HandleFunc("/upload/", s.handleUpload).Methods(http.MethodPost)
	s.router.HandleFunc("/clauses/{filename}", s.handleClauses).Methods(http.MethodGet)
	s.router.HandleFunc("/files", s.handleFiles).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metrics.handler()).Methods(http.MethodGet)
	s.router.Use(s.metrics.instrument)

	return s, nil
}

// Handler returns the root handler with CORS applied.
// CORS wraps the router so preflight requests are answered before routing.
// Without configured origins no cross-origin request is allowed.
func (s *Server) Handler() http.Handler {
	if len(s.allowedOrigins) == 0 {
		return s.router
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// Run serves the API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown: %v", err)
		}
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}
