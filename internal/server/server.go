// Package server provides the HTTP server for the SwingSight analysis service.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/swingsight/internal/analysis"
	"github.com/ayusman/swingsight/internal/pose"
	"github.com/ayusman/swingsight/internal/server/api"
	"github.com/ayusman/swingsight/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Detector  pose.Detector

	// Video configures background video analyses. The zero value means
	// analysis.DefaultVideoConfig().
	Video analysis.VideoConfig
}

// Server represents the HTTP server for the SwingSight application.
type Server struct {
	config Config
	mux    *http.ServeMux
	runner *Runner
	hub    *ProgressHub
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewProgressHub(),
		start:  time.Now(),
	}
	if config.Store != nil && config.Detector != nil {
		video := config.Video
		if video == (analysis.VideoConfig{}) {
			video = analysis.DefaultVideoConfig()
		}
		s.runner = NewRunner(config.Store, config.Detector, s.hub, video)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register single-frame pose analysis if a detector is configured
	if s.config.Detector != nil {
		s.mux.Handle("/api/pose/analyze", api.NewPoseHandler(s.config.Detector))
	}

	// Register analysis API handlers if Store is configured
	if s.config.Store != nil {
		var starter api.AnalysisStarter
		if s.runner != nil {
			starter = s.runner
		}
		analysesHandler := api.NewAnalysesHandler(s.config.Store, starter)

		// Use a wrapper to route frame-metric requests: /api/analyses/{id}/frames
		framesHandler := api.NewFramesHandler(s.config.Store)
		analysesRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/frames") {
				framesHandler.ServeHTTP(w, r)
				return
			}
			analysesHandler.ServeHTTP(w, r)
		})

		s.mux.Handle("/api/analyses", analysesRouter)
		s.mux.Handle("/api/analyses/", analysesRouter)
	}

	// Progress WebSocket
	s.mux.Handle("/api/progress", s.hub)

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
