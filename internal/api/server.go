// Package api is the host-facing HTTP surface: it starts sessions, forwards
// player input and streams countdown ticks and results to the renderer.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/VeinDevTtv/qbx-minigames/internal/session"
	"github.com/VeinDevTtv/qbx-minigames/internal/sse"
)

// Server handles HTTP requests.
type Server struct {
	manager *session.Manager
	events  *sse.Broadcaster
}

// NewServer creates a new API server.
func NewServer(manager *session.Manager, events *sse.Broadcaster) *Server {
	return &Server{manager: manager, events: events}
}

// Routes sets up the HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	// The event stream is long-lived; only the JSON routes get a timeout.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/games", s.handleListGames)
		r.Post("/session", s.handleStartSession)
		r.Post("/session/{id}/input", s.handleInput)
		r.Post("/session/{id}/exit", s.handleExit)
		r.Get("/session/{id}", s.handleGetSession)
	})

	r.Get("/session/{id}/events", s.handleEvents)

	return r
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
