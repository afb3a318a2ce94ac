package games

import (
	"fmt"
	"time"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

// memoryItemDelay is the per-item presentation pacing exported to renderers.
// The observe phase is governed by the countdown alone; when it expires the
// game moves to input even if the display has not finished presenting every
// item.
const memoryItemDelay = 600 * time.Millisecond

// MemorySequence is the observe-then-repeat minigame: a sequence of distinct
// cells is shown, then the player must click them back in order.
type MemorySequence struct {
	cfg   config.Config
	phase Phase

	gridSize int
	sequence []int
	cursor   int
	player   []int
}

// NewMemorySequence draws the session's sequence: SequenceLength distinct
// cell indices, uniform without replacement over the grid.
func NewMemorySequence(cfg config.Config, rng engine.Rand) *MemorySequence {
	cells := cfg.GridSize * cfg.GridSize
	length := cfg.SequenceLength
	if length > cells {
		length = cells
	}
	return &MemorySequence{
		cfg:      cfg,
		phase:    PhaseIdle,
		gridSize: cfg.GridSize,
		sequence: rng.Perm(cells)[:length],
		player:   []int{},
	}
}

func (g *MemorySequence) Spec() Spec {
	return Spec{
		ID:           config.GameMemorySequence,
		Name:         "Memory Sequence",
		SuccessDelay: successDelay,
		FailureDelay: shortFailureDelay,
	}
}

func (g *MemorySequence) Phase() Phase { return g.phase }

func (g *MemorySequence) Begin() Command {
	g.phase = PhaseObserving
	return Command{StartCountdown: g.cfg.Duration}
}

// HandleInput accepts cell presses during the input phase only; presses while
// the sequence is still being shown are rejected without mutating state.
func (g *MemorySequence) HandleInput(in Input) (Command, error) {
	if g.phase != PhaseInput {
		return Command{}, ErrWrongPhase
	}
	if in.Action != "press" {
		return Command{}, fmt.Errorf("%w: action %q", ErrInvalidInput, in.Action)
	}
	cells := g.gridSize * g.gridSize
	if in.Cell < 0 || in.Cell >= cells {
		return Command{}, fmt.Errorf("%w: cell %d out of range", ErrInvalidInput, in.Cell)
	}

	g.player = append(g.player, in.Cell)
	if in.Cell != g.sequence[g.cursor] {
		g.phase = PhaseFailure
		return Command{StopCountdown: true}, nil
	}
	g.cursor++
	if g.cursor == len(g.sequence) {
		g.phase = PhaseSuccess
		return Command{StopCountdown: true}, nil
	}
	return Command{}, nil
}

// HandleExpiry ends the observe phase by re-basing the same countdown for
// input; expiry during input is a failure.
func (g *MemorySequence) HandleExpiry() Command {
	switch g.phase {
	case PhaseObserving:
		g.phase = PhaseInput
		return Command{ResetCountdown: true}
	case PhaseInput:
		g.phase = PhaseFailure
	}
	return Command{}
}

func (g *MemorySequence) Metrics() map[string]any {
	return map[string]any{
		"sequenceLength": len(g.sequence),
		"playerSequence": append([]int(nil), g.player...),
	}
}

func (g *MemorySequence) View() map[string]any {
	return map[string]any{
		"gridSize":    g.gridSize,
		"sequence":    append([]int(nil), g.sequence...),
		"progress":    g.cursor,
		"itemDelayMs": memoryItemDelay.Milliseconds(),
	}
}
