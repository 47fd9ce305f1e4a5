package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/srcmap/internal/config"
	"github.com/dgallion1/srcmap/internal/preview"
	"github.com/dgallion1/srcmap/internal/sourcemap"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for srcmap.
type Server struct {
	router   chi.Router
	conv     sourcemap.Converter
	renderer *preview.Renderer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(conv sourcemap.Converter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		conv:     conv,
		renderer: preview.New(),
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/map", s.handleMap)
		r.Post("/api/outline", s.handleOutline)
		r.Post("/api/preview", s.handlePreview)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
