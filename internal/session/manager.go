package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
	"github.com/VeinDevTtv/qbx-minigames/internal/games"
)

var (
	// ErrSessionActive refuses a session start while another is live.
	ErrSessionActive = errors.New("session: a minigame session is already active")
	// ErrNotFound means no active session matches the given ID.
	ErrNotFound = errors.New("session: not found")
)

// EventSink receives session lifecycle events for fan-out to renderers.
type EventSink interface {
	SessionTick(id string, remaining time.Duration)
	SessionPhase(id string, phase games.Phase)
	SessionResult(id string, res Result)
	SessionExit(id string)
}

// Manager is the admission gate: it resolves configuration, generates the
// puzzle and admits at most one active session at a time. The slot is
// released when the session's result is dispatched or it exits.
type Manager struct {
	mu      sync.Mutex
	clock   engine.Clock
	sink    EventSink
	newRand func() engine.Rand
	active  *Session
}

// NewManager creates a manager. sink may be nil.
func NewManager(clock engine.Clock, sink EventSink) *Manager {
	return &Manager{
		clock:   clock,
		sink:    sink,
		newRand: engine.NewSessionRand,
	}
}

// SetRandFactory overrides the puzzle randomness source, for deterministic
// generation.
func (m *Manager) SetRandFactory(f func() engine.Rand) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.newRand = f
}

// Start resolves the configuration, generates a fresh puzzle and starts its
// session. Unknown types allocate nothing; a live session refuses admission.
func (m *Manager) Start(gameID string, difficulty config.Difficulty) (*Session, error) {
	cfg, err := config.Resolve(gameID, difficulty)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.active != nil {
		m.mu.Unlock()
		return nil, ErrSessionActive
	}
	game, err := games.New(gameID, cfg, m.newRand())
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	id := uuid.NewString()
	var s *Session
	s = New(id, cfg, game, m.clock, Hooks{
		OnTick: func(remaining time.Duration) {
			if m.sink != nil {
				m.sink.SessionTick(id, remaining)
			}
		},
		OnPhase: func(phase games.Phase) {
			if m.sink != nil {
				m.sink.SessionPhase(id, phase)
			}
		},
		OnComplete: func(res Result) {
			if m.sink != nil {
				m.sink.SessionResult(id, res)
			}
			m.release(s)
		},
		OnExit: func() {
			if m.sink != nil {
				m.sink.SessionExit(id)
			}
			m.release(s)
		},
	})
	m.active = s
	m.mu.Unlock()

	s.Start()
	return s, nil
}

// Get returns the active session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil || m.active.ID != id {
		return nil, ErrNotFound
	}
	return m.active, nil
}

// Active returns the live session, or nil.
func (m *Manager) Active() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Shutdown exits any live session so its timers are released.
func (m *Manager) Shutdown() {
	if s := m.Active(); s != nil {
		s.Exit()
	}
}

func (m *Manager) release(s *Session) {
	m.mu.Lock()
	if m.active == s {
		m.active = nil
	}
	m.mu.Unlock()
}
