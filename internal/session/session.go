// Package session runs one minigame instance against a countdown, serializes
// player input with timer ticks, and dispatches the outcome to the host after
// the presentation delay.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
	"github.com/VeinDevTtv/qbx-minigames/internal/games"
)

// ErrSessionClosed rejects input that arrives after a terminal transition or
// exit; the outcome is already decided.
var ErrSessionClosed = errors.New("session: session is no longer accepting input")

// Result is the outbound completion contract. A player-initiated exit is
// reported separately with an empty payload.
type Result struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

// State tracks the session envelope around the game's own phases.
type State string

const (
	// StateActive accepts input and countdown ticks.
	StateActive State = "active"
	// StateReporting holds the decided outcome through the presentation
	// delay; no input is accepted.
	StateReporting State = "reporting"
	// StateDone has dispatched its result (or exited).
	StateDone State = "done"
)

// Hooks are the session's outbound callbacks. All of them are optional and
// are invoked without the session lock held.
type Hooks struct {
	OnTick     func(remaining time.Duration)
	OnPhase    func(phase games.Phase)
	OnComplete func(res Result)
	OnExit     func()
}

// Session owns exactly one minigame and its countdown. A mutex serializes
// tick callbacks, player input and exit, so at most one transition is in
// flight at a time.
type Session struct {
	ID string

	mu        sync.Mutex
	cfg       config.Config
	game      games.Minigame
	clock     engine.Clock
	hooks     Hooks
	countdown *engine.Countdown
	report    engine.Timer
	state     State
	lastPhase games.Phase
}

// New wraps a generated minigame in a session. Call Start to begin play.
func New(id string, cfg config.Config, game games.Minigame, clock engine.Clock, hooks Hooks) *Session {
	return &Session{
		ID:    id,
		cfg:   cfg,
		game:  game,
		clock: clock,
		hooks: hooks,
		state: StateActive,
	}
}

// Start moves the game out of idle and starts its first countdown.
func (s *Session) Start() {
	s.mu.Lock()
	cmd := s.game.Begin()
	s.apply(cmd)
	phase := s.notePhase()
	s.mu.Unlock()

	s.emitPhase(phase)
}

// HandleInput applies one player action and returns the resulting phase and
// view. Input errors leave the session untouched.
func (s *Session) HandleInput(in games.Input) (games.Phase, map[string]any, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return "", nil, ErrSessionClosed
	}
	cmd, err := s.game.HandleInput(in)
	if err != nil {
		s.mu.Unlock()
		return "", nil, err
	}
	s.apply(cmd)
	phase := s.game.Phase()
	if phase.Terminal() {
		s.finish(phase)
	}
	changed := s.notePhase()
	view := s.game.View()
	s.mu.Unlock()

	s.emitPhase(changed)
	return phase, view, nil
}

// Exit is the player-initiated abort. It stops the countdown, cancels any
// pending report and emits the empty exit payload. Idempotent.
func (s *Session) Exit() {
	s.mu.Lock()
	if s.state == StateDone {
		s.mu.Unlock()
		return
	}
	s.state = StateDone
	if s.countdown != nil {
		s.countdown.Stop()
	}
	if s.report != nil {
		s.report.Stop()
	}
	cb := s.hooks.OnExit
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// Phase returns the game's current phase.
func (s *Session) Phase() games.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Phase()
}

// View returns the renderer projection of the current game state.
func (s *Session) View() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.View()
}

// Remaining reports the countdown's current remaining time.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()
	if cd == nil {
		return 0
	}
	return cd.Remaining()
}

// Countdown exposes the owned countdown so in-process drivers (and tests on
// a manual clock) can deliver ticks.
func (s *Session) Countdown() *engine.Countdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countdown
}

// apply executes a countdown command. Caller holds s.mu.
func (s *Session) apply(cmd games.Command) {
	if cmd.StartCountdown > 0 {
		if s.countdown != nil {
			s.countdown.Stop()
		}
		s.countdown = engine.NewCountdown(s.clock, cmd.StartCountdown, s.handleTick, s.handleExpiry)
		s.countdown.Start()
		return
	}
	if cmd.ResetCountdown && s.countdown != nil {
		s.countdown.Reset()
	}
	if cmd.StopCountdown && s.countdown != nil {
		s.countdown.Stop()
	}
}

func (s *Session) handleTick(remaining time.Duration) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	cb := s.hooks.OnTick
	s.mu.Unlock()

	if cb != nil {
		cb(remaining)
	}
}

func (s *Session) handleExpiry() {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	cmd := s.game.HandleExpiry()
	s.apply(cmd)
	phase := s.game.Phase()
	if phase.Terminal() {
		s.finish(phase)
	}
	changed := s.notePhase()
	s.mu.Unlock()

	s.emitPhase(changed)
}

// finish freezes the outcome and schedules the dispatch after the per-type
// presentation delay. Caller holds s.mu.
func (s *Session) finish(phase games.Phase) {
	s.state = StateReporting
	remaining := time.Duration(0)
	if s.countdown != nil {
		s.countdown.Stop()
		remaining = s.countdown.Remaining()
	}

	data := s.game.Metrics()
	if data == nil {
		data = map[string]any{}
	}
	data["timeRemaining"] = remaining.Milliseconds()
	res := Result{Success: phase == games.PhaseSuccess, Data: data}

	spec := s.game.Spec()
	delay := spec.FailureDelay
	if res.Success {
		delay = spec.SuccessDelay
	}
	s.report = s.clock.AfterFunc(delay, func() { s.dispatch(res) })
}

func (s *Session) dispatch(res Result) {
	s.mu.Lock()
	if s.state == StateDone {
		s.mu.Unlock()
		return
	}
	s.state = StateDone
	cb := s.hooks.OnComplete
	s.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// notePhase records a phase change and returns it, or "" when unchanged.
// Caller holds s.mu.
func (s *Session) notePhase() games.Phase {
	phase := s.game.Phase()
	if phase == s.lastPhase {
		return ""
	}
	s.lastPhase = phase
	return phase
}

func (s *Session) emitPhase(phase games.Phase) {
	if phase == "" || s.hooks.OnPhase == nil {
		return
	}
	s.hooks.OnPhase(phase)
}
