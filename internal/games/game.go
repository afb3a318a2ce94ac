// Package games implements the five minigame engines: procedural generation,
// timed phase state machines, input validation and win/lose rules. The
// package is UI-agnostic; rendering is a projection of View and never feeds
// back into the logic.
package games

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

// Phase is a named sub-state of a minigame session. It controls which player
// actions are valid and which countdown is active.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePlaying   Phase = "playing"
	PhaseObserving Phase = "observing"
	PhaseInput     Phase = "input"
	PhaseMemorize  Phase = "memorize"
	PhaseSolving   Phase = "solving"
	PhaseSuccess   Phase = "success"
	PhaseFailure   Phase = "failure"
)

// Terminal reports whether the phase ends the session.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailure
}

// Input is the envelope for one player action. Which fields are meaningful
// depends on Action; games reject inputs that do not belong to their current
// phase without mutating any state.
type Input struct {
	// Action is one of "rotate", "dial", "press", "guess", "select".
	Action string `json:"action"`
	// Cell is a flattened grid index (row*size+col).
	Cell int `json:"cell"`
	// Angle is the current pointer angle in degrees (safe cracker drag).
	Angle float64 `json:"angle"`
	// Guess holds palette indices for a full code guess; -1 marks an
	// unfilled slot.
	Guess []int `json:"guess"`
}

// Command tells the owning session what to do with its countdown after a
// transition.
type Command struct {
	// StartCountdown, when positive, replaces any current countdown with a
	// fresh one of this duration.
	StartCountdown time.Duration
	// ResetCountdown re-bases the running countdown's start to now.
	ResetCountdown bool
	// StopCountdown halts the countdown without starting another.
	StopCountdown bool
}

// Presentation delays between the internal decision instant and the outbound
// report, so a terminal visual state can be shown.
const (
	successDelay      = 1500 * time.Millisecond
	shortFailureDelay = 2 * time.Second
	longFailureDelay  = 2500 * time.Millisecond
)

// Spec describes a registered minigame.
type Spec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// SuccessDelay and FailureDelay are the presentation delays the
	// dispatcher waits before reporting a terminal outcome.
	SuccessDelay time.Duration `json:"-"`
	FailureDelay time.Duration `json:"-"`
}

// Minigame is one live puzzle instance plus its state machine. Instances are
// not safe for concurrent use; the session serializes access.
type Minigame interface {
	Spec() Spec
	Phase() Phase

	// Begin moves the game out of idle and returns the initial countdown
	// command.
	Begin() Command

	// HandleInput applies one player action. Invalid inputs return an error
	// and leave the state untouched.
	HandleInput(in Input) (Command, error)

	// HandleExpiry applies the countdown running out for the current phase.
	HandleExpiry() Command

	// Metrics returns the type-specific result fields. The session adds
	// timeRemaining on top.
	Metrics() map[string]any

	// View returns the renderer-facing projection of the current state.
	View() map[string]any
}

// Factory builds a fresh minigame instance from resolved configuration and a
// randomness source.
type Factory func(cfg config.Config, rng engine.Rand) Minigame

var registry = map[string]Factory{}

// Register adds a minigame factory under its type identifier.
func Register(id string, f Factory) {
	registry[id] = f
}

// New generates a fresh puzzle instance for the given type.
func New(id string, cfg config.Config, rng engine.Rand) (Minigame, error) {
	f, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("games: unknown minigame %q", id)
	}
	return f(cfg, rng), nil
}

// List returns all registered type identifiers, sorted.
func List() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var (
	// ErrWrongPhase rejects input that is not valid in the current phase.
	ErrWrongPhase = errors.New("games: input not valid in current phase")
	// ErrInvalidInput rejects malformed input (out-of-range cell, incomplete
	// guess, fixed piece). No state is mutated and no attempt is consumed.
	ErrInvalidInput = errors.New("games: invalid input")
)

func init() {
	Register(config.GameCircuitSolver, func(cfg config.Config, rng engine.Rand) Minigame {
		return NewCircuitSolver(cfg, rng)
	})
	Register(config.GameSafeCracker, func(cfg config.Config, rng engine.Rand) Minigame {
		return NewSafeCracker(cfg, rng)
	})
	Register(config.GameMemorySequence, func(cfg config.Config, rng engine.Rand) Minigame {
		return NewMemorySequence(cfg, rng)
	})
	Register(config.GameCodeCracker, func(cfg config.Config, rng engine.Rand) Minigame {
		return NewCodeCracker(cfg, rng)
	})
	Register(config.GameThermite, func(cfg config.Config, rng engine.Rand) Minigame {
		return NewThermite(cfg, rng)
	})
}
