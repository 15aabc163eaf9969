// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz                 liveness probe
//	POST   /v1/solve                solve a document, reply with boxes
//	POST   /v1/render?format=svg    solve and render one format
//	POST   /v1/graph                constraint graph as DOT (works on unsolvable documents)
//	POST   /v1/layouts              store a document
//	GET    /v1/layouts              list stored documents
//	GET    /v1/layouts/{id}         fetch a stored document
//	PUT    /v1/layouts/{id}         replace a stored document
//	DELETE /v1/layouts/{id}         delete a stored document
//	POST   /v1/layouts/{id}/solve   solve a stored document
//	GET    /v1/live                 websocket: each text message is a document,
//	                                each reply a solve response
//
// Request bodies are documents in JSON, YAML or TOML, chosen by Content-Type.
// Query parameters width, height, cell_width, cell_height, refresh, slots
// and highlight map onto pipeline.Options. Every response carries an
// X-Request-ID header; errors are JSON {code, message, unresolved?, cycles?}.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/relayout/pkg/pipeline"
	"github.com/matzehuels/relayout/pkg/store"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 1 << 20

// Config holds server dependencies.
type Config struct {
	Runner       *pipeline.Runner
	Store        store.Store
	Logger       *log.Logger
	MaxBodyBytes int64
}

// Server routes HTTP requests to the pipeline and the layout store.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	logger   *log.Logger
	maxBody  int64
	upgrader websocket.Upgrader
	router   chi.Router
}

// New creates a server. A nil Runner gets an uncached runner, a nil Store an
// in-memory store.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	s := &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		logger:  cfg.Logger,
		maxBody: cfg.MaxBodyBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/render", s.handleRender)
		r.Post("/graph", s.handleGraph)
		r.Get("/live", s.handleLive)

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", s.handleListLayouts)
			r.Post("/", s.handleCreateLayout)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetLayout)
				r.Put("/", s.handlePutLayout)
				r.Delete("/", s.handleDeleteLayout)
				r.Post("/solve", s.handleSolveLayout)
			})
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFoundRoute(r))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
