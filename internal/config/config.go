// Package config resolves a minigame type and difficulty tier into the
// concrete generation parameters for one session.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Difficulty selects a parameter tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// Minigame type identifiers, shared by the resolver, the game registry and
// the host surface.
const (
	GameCircuitSolver  = "circuit_solver"
	GameSafeCracker    = "safe_cracker"
	GameMemorySequence = "memory_sequence"
	GameCodeCracker    = "code_cracker"
	GameThermite       = "thermite"
)

var (
	ErrUnknownGame       = errors.New("config: unknown minigame type")
	ErrUnknownDifficulty = errors.New("config: unknown difficulty")
)

// Config holds the resolved parameters for one session. It is a value type
// and is never mutated after the session starts.
type Config struct {
	Game       string     `json:"game"`
	Difficulty Difficulty `json:"difficulty"`

	// Duration is the main play countdown.
	Duration time.Duration `json:"duration"`
	Sound    bool          `json:"sound"`

	GridSize       int `json:"gridSize,omitempty"`
	SequenceLength int `json:"sequenceLength,omitempty"`
	Circuits       int `json:"circuits,omitempty"`
	CodeLength     int `json:"codeLength,omitempty"`
	Attempts       int `json:"attempts,omitempty"`
	MaxRotations   int `json:"maxRotations,omitempty"`
	Zones          int `json:"zones,omitempty"`
	TargetCount    int `json:"targetCount,omitempty"`

	// DisplayTime is the memorize-phase countdown (thermite only).
	DisplayTime time.Duration `json:"displayTime,omitempty"`
}

// Games lists every known minigame type.
func Games() []string {
	return []string{
		GameCircuitSolver,
		GameSafeCracker,
		GameMemorySequence,
		GameCodeCracker,
		GameThermite,
	}
}

// Difficulties lists every tier in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Normal, Hard}
}

// Resolve maps {minigame type, difficulty} to the concrete parameter set.
// Unknown types and tiers are terminal errors; nothing is allocated for them.
func Resolve(game string, difficulty Difficulty) (Config, error) {
	switch difficulty {
	case Easy, Normal, Hard:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}

	cfg := Config{Game: game, Difficulty: difficulty, Sound: true}

	switch game {
	case GameCircuitSolver:
		switch difficulty {
		case Easy:
			cfg.GridSize, cfg.Circuits, cfg.Duration = 5, 1, 45*time.Second
		case Normal:
			cfg.GridSize, cfg.Circuits, cfg.Duration = 7, 1, 60*time.Second
		case Hard:
			cfg.GridSize, cfg.Circuits, cfg.Duration = 9, 2, 90*time.Second
		}

	case GameSafeCracker:
		switch difficulty {
		case Easy:
			cfg.Zones, cfg.MaxRotations, cfg.Duration = 3, 5, 40*time.Second
		case Normal:
			cfg.Zones, cfg.MaxRotations, cfg.Duration = 4, 5, 40*time.Second
		case Hard:
			cfg.Zones, cfg.MaxRotations, cfg.Duration = 5, 6, 50*time.Second
		}

	case GameMemorySequence:
		switch difficulty {
		case Easy:
			cfg.GridSize, cfg.SequenceLength, cfg.Duration = 3, 4, 12*time.Second
		case Normal:
			cfg.GridSize, cfg.SequenceLength, cfg.Duration = 4, 6, 14*time.Second
		case Hard:
			cfg.GridSize, cfg.SequenceLength, cfg.Duration = 5, 8, 16*time.Second
		}

	case GameCodeCracker:
		switch difficulty {
		case Easy:
			cfg.CodeLength, cfg.Attempts, cfg.Duration = 4, 8, 90*time.Second
		case Normal:
			cfg.CodeLength, cfg.Attempts, cfg.Duration = 5, 7, 90*time.Second
		case Hard:
			cfg.CodeLength, cfg.Attempts, cfg.Duration = 6, 6, 120*time.Second
		}

	case GameThermite:
		switch difficulty {
		case Easy:
			cfg.GridSize, cfg.TargetCount, cfg.DisplayTime, cfg.Duration = 5, 6, 3*time.Second, 15*time.Second
		case Normal:
			cfg.GridSize, cfg.TargetCount, cfg.DisplayTime, cfg.Duration = 6, 9, 3*time.Second, 20*time.Second
		case Hard:
			cfg.GridSize, cfg.TargetCount, cfg.DisplayTime, cfg.Duration = 7, 12, 4*time.Second, 25*time.Second
		}

	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}

	return cfg, nil
}
