package games

import (
	"fmt"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

// PaletteSize is the number of colors a code slot can take.
const PaletteSize = 8

// Feedback is the Mastermind-style tally for one guess.
type Feedback struct {
	Correct   int `json:"correct"`
	Misplaced int `json:"misplaced"`
}

// Attempt is one scored guess.
type Attempt struct {
	Guess    []int    `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

// CodeCracker is the code-guessing minigame: deduce the secret color code
// within the attempt budget.
type CodeCracker struct {
	cfg   config.Config
	phase Phase

	secret   []int
	attempts []Attempt
}

// NewCodeCracker draws the secret: CodeLength slots, each independently
// uniform over the palette (with replacement).
func NewCodeCracker(cfg config.Config, rng engine.Rand) *CodeCracker {
	secret := make([]int, cfg.CodeLength)
	for i := range secret {
		secret[i] = rng.Intn(PaletteSize)
	}
	return &CodeCracker{cfg: cfg, phase: PhaseIdle, secret: secret}
}

func (g *CodeCracker) Spec() Spec {
	return Spec{
		ID:           config.GameCodeCracker,
		Name:         "Code Cracker",
		SuccessDelay: successDelay,
		FailureDelay: longFailureDelay,
	}
}

func (g *CodeCracker) Phase() Phase { return g.phase }

func (g *CodeCracker) Begin() Command {
	g.phase = PhasePlaying
	return Command{StartCountdown: g.cfg.Duration}
}

// HandleInput scores a full guess. Guesses with any unfilled slot are
// rejected locally: no attempt is consumed and no state changes.
func (g *CodeCracker) HandleInput(in Input) (Command, error) {
	if g.phase != PhasePlaying {
		return Command{}, ErrWrongPhase
	}
	if in.Action != "guess" {
		return Command{}, fmt.Errorf("%w: action %q", ErrInvalidInput, in.Action)
	}
	if len(in.Guess) != len(g.secret) {
		return Command{}, fmt.Errorf("%w: guess has %d slots, want %d", ErrInvalidInput, len(in.Guess), len(g.secret))
	}
	for i, c := range in.Guess {
		if c < 0 {
			return Command{}, fmt.Errorf("%w: slot %d is unfilled", ErrInvalidInput, i)
		}
		if c >= PaletteSize {
			return Command{}, fmt.Errorf("%w: slot %d color %d outside palette", ErrInvalidInput, i, c)
		}
	}

	guess := append([]int(nil), in.Guess...)
	feedback := scoreGuess(guess, g.secret)
	g.attempts = append(g.attempts, Attempt{Guess: guess, Feedback: feedback})

	if feedback.Correct == len(g.secret) {
		g.phase = PhaseSuccess
		return Command{StopCountdown: true}, nil
	}
	if len(g.attempts) >= g.cfg.Attempts {
		g.phase = PhaseFailure
		return Command{StopCountdown: true}, nil
	}
	return Command{}, nil
}

// scoreGuess compares a guess to the secret in two passes: exact positional
// matches first, retiring both slots, then color matches among the leftovers
// where each secret slot satisfies at most one misplaced match.
func scoreGuess(guess, secret []int) Feedback {
	var fb Feedback
	used := make([]bool, len(secret))
	var leftover []int
	for i := range guess {
		if guess[i] == secret[i] {
			fb.Correct++
			used[i] = true
		} else {
			leftover = append(leftover, i)
		}
	}
	for _, i := range leftover {
		for j := range secret {
			if used[j] || secret[j] != guess[i] {
				continue
			}
			fb.Misplaced++
			used[j] = true
			break
		}
	}
	return fb
}

func (g *CodeCracker) HandleExpiry() Command {
	if g.phase == PhasePlaying {
		g.phase = PhaseFailure
	}
	return Command{}
}

func (g *CodeCracker) Metrics() map[string]any {
	return map[string]any{
		"attemptsUsed": len(g.attempts),
		"secretCode":   append([]int(nil), g.secret...),
	}
}

func (g *CodeCracker) View() map[string]any {
	attempts := g.attempts
	if attempts == nil {
		attempts = []Attempt{}
	}
	return map[string]any{
		"codeLength":        len(g.secret),
		"paletteSize":       PaletteSize,
		"attempts":          attempts,
		"attemptsRemaining": g.cfg.Attempts - len(g.attempts),
	}
}
