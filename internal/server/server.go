// Package server implements the schemagraph HTTP API.
//
// The API wraps the same pipeline the CLI uses: clients POST a schema
// document and get back the extracted (and optionally laid-out) graph.
// The schema index is loaded once at startup; graph computation itself is
// a pure function, so handlers share nothing mutable.
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/osduviz/schemagraph/pkg/pipeline"
	"github.com/osduviz/schemagraph/pkg/schema"
)

// Server serves the schemagraph API.
type Server struct {
	runner *pipeline.Runner
	index  *schema.Index
	store  *GraphStore // nil when no Mongo store is configured
	logger *log.Logger
	router chi.Router
}

// New creates a server around a pipeline runner and schema index.
// The store may be nil; the saved-graph endpoints then return 503.
func New(runner *pipeline.Runner, ix *schema.Index, store *GraphStore, logger *log.Logger) *Server {
	s := &Server{
		runner: runner,
		index:  ix,
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(cors)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schemas", s.handleListSchemas)
		r.Post("/graph", s.handleBuildGraph)
		r.Post("/graphs", s.handleSaveGraph)
		r.Get("/graphs/{id}", s.handleGetGraph)
	})

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the server on addr and blocks.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting API server", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

// requestID tags every request with a correlation id, echoed in the
// response for client-side log matching.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

var allowedOrigin = envOr("CORS_ALLOWED_ORIGIN", "*")

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
