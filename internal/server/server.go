// Package server provides the HTTP server and routing for the MT5 bridge.
package server

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/mt5-bridge/internal/config"
	"github.com/aristath/mt5-bridge/internal/events"
	"github.com/aristath/mt5-bridge/internal/modules/snapshots"
	snapshothandlers "github.com/aristath/mt5-bridge/internal/modules/snapshots/handlers"
	"github.com/aristath/mt5-bridge/pkg/embedded"
)

// Posted batches are capped upstream by the EA; anything larger is noise
const maxIngestBodyBytes = 512 * 1024

// Config holds server configuration
type Config struct {
	Log             zerolog.Logger
	Config          *config.Config
	Port            int
	DevMode         bool
	SnapshotService *snapshots.Service
	Store           *snapshots.Store
	EventBus        *events.Bus
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	store          *snapshots.Store
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	// Register common MIME types to ensure correct Content-Type headers
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Config,
		store:          cfg.Store,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Store),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Body size cap (the EA posts small batches)
	s.router.Use(middleware.RequestSize(maxIngestBodyBytes))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", snapshothandlers.SecretHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(cfg Config) {
	// Health check (before SPA routing)
	s.router.Get("/healthz", s.systemHandlers.HandleHealthz)

	// System monitoring
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)
	})

	// Snapshot ingest + summary
	snapshotHandler := snapshothandlers.NewHandler(cfg.SnapshotService, cfg.EventBus, cfg.Config.SharedSecret, cfg.Log)
	snapshotHandler.RegisterRoutes(s.router)

	// Serve the dashboard from the embedded filesystem
	dashboardFS, err := fs.Sub(embedded.Files, "public")
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create dashboard filesystem from embedded files")
		return
	}

	fileServer := http.FileServer(http.FS(dashboardFS))
	s.router.Get("/", s.handleDashboard(dashboardFS))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
}

// handleDashboard serves the dashboard HTML from the embedded filesystem
func (s *Server) handleDashboard(dashboardFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		indexFile, err := dashboardFS.Open("index.html")
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to open embedded index.html")
			http.Error(w, "Dashboard not available", http.StatusInternalServerError)
			return
		}
		defer indexFile.Close()

		data, err := io.ReadAll(indexFile)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to read embedded index.html")
			http.Error(w, "Dashboard not available", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(data); err != nil {
			s.log.Error().Err(err).Msg("Failed to write index.html response")
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
