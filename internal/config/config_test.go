package config

import (
	"errors"
	"testing"
	"time"
)

func TestResolveAllTiers(t *testing.T) {
	for _, game := range Games() {
		for _, diff := range Difficulties() {
			cfg, err := Resolve(game, diff)
			if err != nil {
				t.Fatalf("Resolve(%s, %s) returned error: %v", game, diff, err)
			}
			if cfg.Game != game {
				t.Errorf("Expected game %q, got %q", game, cfg.Game)
			}
			if cfg.Difficulty != diff {
				t.Errorf("Expected difficulty %q, got %q", diff, cfg.Difficulty)
			}
			if cfg.Duration <= 0 {
				t.Errorf("%s/%s: expected positive duration, got %v", game, diff, cfg.Duration)
			}
			if !cfg.Sound {
				t.Errorf("%s/%s: expected sound enabled by default", game, diff)
			}
		}
	}
}

func TestResolveMemorySequenceEasy(t *testing.T) {
	cfg, err := Resolve(GameMemorySequence, Easy)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if cfg.GridSize != 3 {
		t.Errorf("Expected gridSize 3, got %d", cfg.GridSize)
	}
	if cfg.SequenceLength != 4 {
		t.Errorf("Expected sequenceLength 4, got %d", cfg.SequenceLength)
	}
}

func TestResolveThermiteHasBothCountdowns(t *testing.T) {
	for _, diff := range Difficulties() {
		cfg, err := Resolve(GameThermite, diff)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if cfg.DisplayTime <= 0 {
			t.Errorf("%s: expected positive display time, got %v", diff, cfg.DisplayTime)
		}
		if cfg.DisplayTime >= cfg.Duration {
			t.Errorf("%s: display time %v should be shorter than duration %v", diff, cfg.DisplayTime, cfg.Duration)
		}
	}
}

func TestResolveSafeCrackerZonesFit(t *testing.T) {
	// The resolver tables must keep total worst-case zone width far enough
	// under 360 degrees that rejection sampling terminates quickly.
	for _, diff := range Difficulties() {
		cfg, err := Resolve(GameSafeCracker, diff)
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if worst := cfg.Zones * 30; worst > 180 {
			t.Errorf("%s: %d zones at max width cover %d degrees", diff, cfg.Zones, worst)
		}
	}
}

func TestResolveUnknownGame(t *testing.T) {
	_, err := Resolve("pipe_dream", Normal)
	if !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Expected ErrUnknownGame, got %v", err)
	}
}

func TestResolveUnknownDifficulty(t *testing.T) {
	_, err := Resolve(GameThermite, Difficulty("nightmare"))
	if !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("Expected ErrUnknownDifficulty, got %v", err)
	}
}

func TestResolveCircuitSolverDurationsGrow(t *testing.T) {
	easy, _ := Resolve(GameCircuitSolver, Easy)
	hard, _ := Resolve(GameCircuitSolver, Hard)
	if easy.Duration >= hard.Duration {
		t.Errorf("Expected hard duration above easy, got %v vs %v", hard.Duration, easy.Duration)
	}
	if hard.Duration != 90*time.Second {
		t.Errorf("Expected hard circuit duration 90s, got %v", hard.Duration)
	}
}
