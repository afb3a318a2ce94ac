package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/games"
	"github.com/VeinDevTtv/qbx-minigames/internal/session"
)

// StartSessionRequest is the inbound session start contract.
type StartSessionRequest struct {
	Game       string            `json:"game"`
	Difficulty config.Difficulty `json:"difficulty"`
}

// StartSessionResponse describes a freshly started session.
type StartSessionResponse struct {
	ID         string            `json:"id"`
	Game       string            `json:"game"`
	Difficulty config.Difficulty `json:"difficulty"`
	Phase      games.Phase       `json:"phase"`
	DurationMS int64             `json:"durationMs"`
	View       map[string]any    `json:"view"`
}

// InputResponse carries the state after one applied player action.
type InputResponse struct {
	Phase games.Phase    `json:"phase"`
	View  map[string]any `json:"view"`
}

type gameListing struct {
	ID           string              `json:"id"`
	Difficulties []config.Difficulty `json:"difficulties"`
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	listings := make([]gameListing, 0, len(games.List()))
	for _, id := range games.List() {
		listings = append(listings, gameListing{ID: id, Difficulties: config.Difficulties()})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"games": listings})
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = config.Normal
	}

	sess, err := s.manager.Start(req.Game, req.Difficulty)
	switch {
	case errors.Is(err, config.ErrUnknownGame), errors.Is(err, config.ErrUnknownDifficulty):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, session.ErrSessionActive):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, StartSessionResponse{
		ID:         sess.ID,
		Game:       req.Game,
		Difficulty: req.Difficulty,
		Phase:      sess.Phase(),
		DurationMS: sess.Remaining().Milliseconds(),
		View:       sess.View(),
	})
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var in games.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	phase, view, err := sess.HandleInput(in)
	switch {
	case errors.Is(err, session.ErrSessionClosed), errors.Is(err, games.ErrWrongPhase):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, games.ErrInvalidInput):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, InputResponse{Phase: phase, View: view})
}

// handleExit always succeeds: the exit payload is empty and the host treats
// it as failure regardless of session state.
func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	if sess, err := s.manager.Get(chi.URLParam(r, "id")); err == nil {
		sess.Exit()
	}
	s.writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, InputResponse{Phase: sess.Phase(), View: sess.View()})
}

// handleEvents streams tick, phase and result events for one session over
// Server-Sent Events until the session reports or the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.manager.Get(id); err != nil {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.events.Subscribe(id)
	defer s.events.Unsubscribe(id, ch)

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
			if ev.Name == eventResult || ev.Name == eventExit {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}
