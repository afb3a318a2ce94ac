package games

import (
	"fmt"
	"sort"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

// thermiteMaxMistakes is the number of wrong selections that ends the game.
const thermiteMaxMistakes = 3

// Thermite is the memorize-and-burn minigame: a pattern of cells is flashed,
// then the player must re-select exactly those cells.
type Thermite struct {
	cfg   config.Config
	phase Phase

	gridSize    int
	targetCount int
	pattern     map[int]bool
	selected    map[int]bool
	found       int
	mistakes    int
}

// NewThermite draws the pattern: every grid coordinate, uniformly shuffled,
// truncated to the target count (capped at the cell count).
func NewThermite(cfg config.Config, rng engine.Rand) *Thermite {
	cells := cfg.GridSize * cfg.GridSize
	count := cfg.TargetCount
	if count > cells {
		count = cells
	}
	pattern := make(map[int]bool, count)
	for _, cell := range rng.Perm(cells)[:count] {
		pattern[cell] = true
	}
	return &Thermite{
		cfg:         cfg,
		phase:       PhaseIdle,
		gridSize:    cfg.GridSize,
		targetCount: count,
		pattern:     pattern,
		selected:    make(map[int]bool),
	}
}

func (g *Thermite) Spec() Spec {
	return Spec{
		ID:           config.GameThermite,
		Name:         "Thermite",
		SuccessDelay: successDelay,
		FailureDelay: shortFailureDelay,
	}
}

func (g *Thermite) Phase() Phase { return g.phase }

func (g *Thermite) Begin() Command {
	g.phase = PhaseMemorize
	return Command{StartCountdown: g.cfg.DisplayTime}
}

// HandleExpiry swaps the memorize countdown for a fresh solving countdown;
// expiry while solving is a failure.
func (g *Thermite) HandleExpiry() Command {
	switch g.phase {
	case PhaseMemorize:
		g.phase = PhaseSolving
		return Command{StartCountdown: g.cfg.Duration}
	case PhaseSolving:
		g.phase = PhaseFailure
	}
	return Command{}
}

// HandleInput selects one cell during the solving phase. Each cell can be
// selected at most once; re-selections are rejected without counting.
func (g *Thermite) HandleInput(in Input) (Command, error) {
	if g.phase != PhaseSolving {
		return Command{}, ErrWrongPhase
	}
	if in.Action != "select" {
		return Command{}, fmt.Errorf("%w: action %q", ErrInvalidInput, in.Action)
	}
	cells := g.gridSize * g.gridSize
	if in.Cell < 0 || in.Cell >= cells {
		return Command{}, fmt.Errorf("%w: cell %d out of range", ErrInvalidInput, in.Cell)
	}
	if g.selected[in.Cell] {
		return Command{}, fmt.Errorf("%w: cell %d already selected", ErrInvalidInput, in.Cell)
	}

	g.selected[in.Cell] = true
	if g.pattern[in.Cell] {
		g.found++
		if g.found == g.targetCount {
			g.phase = PhaseSuccess
			return Command{StopCountdown: true}, nil
		}
	} else {
		g.mistakes++
		if g.mistakes >= thermiteMaxMistakes {
			g.phase = PhaseFailure
			return Command{StopCountdown: true}, nil
		}
	}
	return Command{}, nil
}

func (g *Thermite) Metrics() map[string]any {
	return map[string]any{
		"correctSelections":   g.found,
		"incorrectSelections": g.mistakes,
		"totalTargets":        g.targetCount,
	}
}

func (g *Thermite) View() map[string]any {
	return map[string]any{
		"gridSize":    g.gridSize,
		"targetCount": g.targetCount,
		"pattern":     sortedCells(g.pattern),
		"selected":    sortedCells(g.selected),
		"found":       g.found,
		"mistakes":    g.mistakes,
	}
}

func sortedCells(set map[int]bool) []int {
	cells := make([]int, 0, len(set))
	for cell := range set {
		cells = append(cells, cell)
	}
	sort.Ints(cells)
	return cells
}
