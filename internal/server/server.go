// Package server exposes interactive diagrams over HTTP.
//
// Each POST /diagrams creates a diagram session; the remaining routes drive
// that session's viewport, hover, selection and expansion and return its
// current SVG or state. Sessions expire after a period without requests.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/argmap/pkg/argument"
	"github.com/matzehuels/argmap/pkg/diagram"
	"github.com/matzehuels/argmap/pkg/session"
)

// MaxPayloadBytes caps the size of a diagram payload.
const MaxPayloadBytes = 8 << 20

// Config holds server configuration.
type Config struct {
	Addr           string
	RequestTimeout time.Duration
	AllowAll       bool // allow all CORS origins
}

// Factory builds a diagram for a decoded payload. The server uses it so
// every session shares the same layout engine, source and options.
type Factory func(ctx context.Context, p argument.Payload) (*diagram.Diagram, error)

// Server serves diagram sessions.
type Server struct {
	cfg        Config
	sessions   *session.Store
	newDiagram Factory
	logger     *log.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. The server does not own sessions; callers close the
// store after [Server.Shutdown].
func New(cfg Config, sessions *session.Store, factory Factory, logger *log.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{cfg: cfg, sessions: sessions, newDiagram: factory, logger: logger}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.Len()})
	})

	r.Route("/diagrams", func(r chi.Router) {
		r.Post("/", s.createDiagram)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(s.loadSession)
			r.Delete("/", s.deleteDiagram)
			r.Get("/svg", s.getSVG)
			r.Get("/state", s.getState)
			r.Get("/layout", s.getLayout)
			r.Post("/pointer", s.pointer)
			r.Post("/reset", s.reset)
			r.Post("/hover", s.hover)
			r.Post("/notice/dismiss", s.dismissNotice)
			r.Post("/nodes/{nodeID}/expand", s.expandNode)
			r.Post("/nodes/{nodeID}/click", s.clickNode)
		})
	})
	return r
}

// Router returns the chi router.
func (s *Server) Router() chi.Router { return s.router }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("argmap server listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
