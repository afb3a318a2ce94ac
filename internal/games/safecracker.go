package games

import (
	"fmt"
	"math"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

const (
	zoneMinWidth = 10.0
	zoneMaxWidth = 30.0
)

// Zone is an angular interval on the dial that counts as found once the
// pointer passes through it.
type Zone struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Found bool    `json:"found"`
}

func (z Zone) contains(angle float64) bool {
	return angle >= z.Start && angle <= z.End
}

func (z Zone) overlaps(o Zone) bool {
	return z.Start <= o.End && o.Start <= z.End
}

// SafeCracker is the dial minigame: sweep the pointer through every hidden
// zone before the rotation budget or the clock runs out.
type SafeCracker struct {
	cfg   config.Config
	phase Phase

	zones           []Zone
	currentRotation float64
	lastPointer     float64
	hasPointer      bool
	rotationsUsed   int
	foundCount      int
}

// NewSafeCracker places the session's zones.
func NewSafeCracker(cfg config.Config, rng engine.Rand) *SafeCracker {
	return &SafeCracker{
		cfg:   cfg,
		phase: PhaseIdle,
		zones: generateZones(rng, cfg.Zones),
	}
}

// generateZones places count non-overlapping intervals on [0,360) by
// rejection sampling: a uniform width in [10,30] degrees and a uniform start
// in [0, 360-width], resampled until the candidate clears every accepted
// zone. There is no retry cap; placement density is bounded by the resolver
// tables.
func generateZones(rng engine.Rand, count int) []Zone {
	zones := make([]Zone, 0, count)
	for len(zones) < count {
		width := zoneMinWidth + rng.Float64()*(zoneMaxWidth-zoneMinWidth)
		start := rng.Float64() * (360 - width)
		candidate := Zone{Start: start, End: start + width}
		clear := true
		for _, z := range zones {
			if candidate.overlaps(z) {
				clear = false
				break
			}
		}
		if clear {
			zones = append(zones, candidate)
		}
	}
	return zones
}

func (g *SafeCracker) Spec() Spec {
	return Spec{
		ID:           config.GameSafeCracker,
		Name:         "Safe Cracker",
		SuccessDelay: successDelay,
		FailureDelay: shortFailureDelay,
	}
}

func (g *SafeCracker) Phase() Phase { return g.phase }

func (g *SafeCracker) Begin() Command {
	g.phase = PhasePlaying
	return Command{StartCountdown: g.cfg.Duration}
}

// HandleInput consumes one pointer sample from a drag. The first sample only
// sets the baseline; each following sample contributes the signed angular
// difference to the dial, normalized into [-180,180] so crossing the 0/360
// boundary never produces a jump.
func (g *SafeCracker) HandleInput(in Input) (Command, error) {
	if g.phase != PhasePlaying {
		return Command{}, ErrWrongPhase
	}
	if in.Action != "dial" {
		return Command{}, fmt.Errorf("%w: action %q", ErrInvalidInput, in.Action)
	}

	pointer := normalizeAngle(in.Angle)
	if !g.hasPointer {
		g.hasPointer = true
		g.lastPointer = pointer
		return Command{}, nil
	}

	delta := normalizeDelta(pointer - g.lastPointer)
	g.lastPointer = pointer
	g.currentRotation = normalizeAngle(g.currentRotation + delta)

	for i := range g.zones {
		if g.zones[i].Found || !g.zones[i].contains(g.currentRotation) {
			continue
		}
		g.zones[i].Found = true
		g.foundCount++
		g.rotationsUsed++

		if g.foundCount == len(g.zones) {
			g.phase = PhaseSuccess
			return Command{StopCountdown: true}, nil
		}
		if g.rotationsUsed >= g.cfg.MaxRotations {
			g.phase = PhaseFailure
			return Command{StopCountdown: true}, nil
		}
	}
	return Command{}, nil
}

func (g *SafeCracker) HandleExpiry() Command {
	if g.phase == PhasePlaying {
		g.phase = PhaseFailure
	}
	return Command{}
}

func (g *SafeCracker) Metrics() map[string]any {
	return map[string]any{
		"zonesFound": g.foundCount,
		"totalZones": len(g.zones),
	}
}

func (g *SafeCracker) View() map[string]any {
	return map[string]any{
		"zones":           append([]Zone(nil), g.zones...),
		"currentRotation": g.currentRotation,
		"rotationsUsed":   g.rotationsUsed,
		"maxRotations":    g.cfg.MaxRotations,
		"foundCount":      g.foundCount,
	}
}

// normalizeAngle maps any angle into [0,360).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// normalizeDelta maps an angular difference into [-180,180].
func normalizeDelta(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	}
	if d < -180 {
		d += 360
	}
	return d
}
