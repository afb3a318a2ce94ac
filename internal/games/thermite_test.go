package games

import (
	"errors"
	"testing"
	"time"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

func thermiteConfig(gridSize, targets int) config.Config {
	return config.Config{
		Game:        config.GameThermite,
		GridSize:    gridSize,
		TargetCount: targets,
		DisplayTime: 3 * time.Second,
		Duration:    15 * time.Second,
	}
}

func TestThermitePatternSize(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		g := NewThermite(thermiteConfig(5, 6), engine.NewRand(seed))
		if len(g.pattern) != 6 {
			t.Fatalf("seed %d: expected 6 pattern cells, got %d", seed, len(g.pattern))
		}
		for cell := range g.pattern {
			if cell < 0 || cell >= 25 {
				t.Errorf("seed %d: pattern cell %d outside grid", seed, cell)
			}
		}
	}
}

func TestThermitePatternCappedAtGrid(t *testing.T) {
	g := NewThermite(thermiteConfig(3, 100), engine.NewRand(1))
	if len(g.pattern) != 9 {
		t.Errorf("Expected pattern capped at 9 cells, got %d", len(g.pattern))
	}
	if g.targetCount != 9 {
		t.Errorf("Expected target count capped at 9, got %d", g.targetCount)
	}
}

func TestThermiteCountdownReplacement(t *testing.T) {
	g := NewThermite(thermiteConfig(5, 6), engine.NewRand(2))
	cmd := g.Begin()
	if g.phase != PhaseMemorize {
		t.Fatalf("Expected memorize phase, got %s", g.phase)
	}
	if cmd.StartCountdown != 3*time.Second {
		t.Errorf("Expected memorize countdown of displayTime, got %v", cmd.StartCountdown)
	}

	cmd = g.HandleExpiry()
	if g.phase != PhaseSolving {
		t.Fatalf("Expected solving phase after memorize expiry, got %s", g.phase)
	}
	if cmd.StartCountdown != 15*time.Second {
		t.Errorf("Expected a fresh solving countdown, got %v", cmd.StartCountdown)
	}
}

func TestThermiteSelectDuringMemorizeRejected(t *testing.T) {
	g := NewThermite(thermiteConfig(5, 6), engine.NewRand(2))
	g.Begin()
	if _, err := g.HandleInput(Input{Action: "select", Cell: 0}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Expected ErrWrongPhase, got %v", err)
	}
}

func TestThermiteWin(t *testing.T) {
	g := NewThermite(thermiteConfig(5, 6), engine.NewRand(3))
	g.Begin()
	g.HandleExpiry()

	targets := sortedCells(g.pattern)
	for i, cell := range targets {
		cmd, err := g.HandleInput(Input{Action: "select", Cell: cell})
		if err != nil {
			t.Fatalf("Select %d returned error: %v", cell, err)
		}
		if i == len(targets)-1 && !cmd.StopCountdown {
			t.Error("Expected final select to stop the countdown")
		}
	}
	if g.phase != PhaseSuccess {
		t.Fatalf("Expected success, got %s", g.phase)
	}

	metrics := g.Metrics()
	if metrics["correctSelections"] != 6 {
		t.Errorf("Expected correctSelections 6, got %v", metrics["correctSelections"])
	}
	if metrics["incorrectSelections"] != 0 {
		t.Errorf("Expected incorrectSelections 0, got %v", metrics["incorrectSelections"])
	}
}

func TestThermiteThreeMistakesFailImmediately(t *testing.T) {
	g := NewThermite(thermiteConfig(5, 6), engine.NewRand(3))
	g.Begin()
	g.HandleExpiry()

	mistakes := 0
	for cell := 0; cell < 25 && mistakes < thermiteMaxMistakes; cell++ {
		if g.pattern[cell] {
			continue
		}
		if _, err := g.HandleInput(Input{Action: "select", Cell: cell}); err != nil {
			t.Fatalf("Select %d returned error: %v", cell, err)
		}
		mistakes++
	}
	if g.phase != PhaseFailure {
		t.Fatalf("Expected immediate failure at 3 mistakes, got %s", g.phase)
	}

	metrics := g.Metrics()
	if metrics["incorrectSelections"] != 3 {
		t.Errorf("Expected incorrectSelections 3, got %v", metrics["incorrectSelections"])
	}
	if metrics["totalTargets"] != 6 {
		t.Errorf("Expected totalTargets 6, got %v", metrics["totalTargets"])
	}
}

func TestThermiteReselectRejected(t *testing.T) {
	g := NewThermite(thermiteConfig(5, 6), engine.NewRand(4))
	g.Begin()
	g.HandleExpiry()

	cell := sortedCells(g.pattern)[0]
	if _, err := g.HandleInput(Input{Action: "select", Cell: cell}); err != nil {
		t.Fatalf("First select returned error: %v", err)
	}
	if _, err := g.HandleInput(Input{Action: "select", Cell: cell}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput on reselect, got %v", err)
	}
	if g.found != 1 {
		t.Errorf("Expected found count unchanged at 1, got %d", g.found)
	}
}

func TestThermiteSolvingExpiryFails(t *testing.T) {
	g := NewThermite(thermiteConfig(5, 6), engine.NewRand(5))
	g.Begin()
	g.HandleExpiry()
	g.HandleExpiry()
	if g.phase != PhaseFailure {
		t.Errorf("Expected failure on solving expiry, got %s", g.phase)
	}
}
