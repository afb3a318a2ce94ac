package games

import (
	"errors"
	"testing"
	"time"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

func circuitConfig(size, circuits int) config.Config {
	return config.Config{
		Game:     config.GameCircuitSolver,
		GridSize: size,
		Circuits: circuits,
		Duration: 45 * time.Second,
	}
}

func TestCircuitGeneration(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := NewCircuitSolver(circuitConfig(7, 1), engine.NewRand(seed))

		sources, destinations := 0, 0
		for i, p := range g.board {
			switch p.Type {
			case PieceSource:
				sources++
				if i != g.srcIdx {
					t.Errorf("seed %d: source at %d, srcIdx %d", seed, i, g.srcIdx)
				}
			case PieceDestination:
				destinations++
				if i != g.dstIdx {
					t.Errorf("seed %d: destination at %d, dstIdx %d", seed, i, g.dstIdx)
				}
			}
			if p.Fixed && p.Type != PieceSource && p.Type != PieceDestination {
				t.Errorf("seed %d: non-terminal piece %d is fixed", seed, i)
			}
		}
		if sources != 1 || destinations != 1 {
			t.Fatalf("seed %d: expected 1 source and 1 destination, got %d and %d", seed, sources, destinations)
		}
		if !g.board[g.srcIdx].Powered {
			t.Errorf("seed %d: source not powered after generation", seed)
		}
	}
}

func TestCircuitPropagationIdempotent(t *testing.T) {
	for seed := int64(0); seed < 25; seed++ {
		g := NewCircuitSolver(circuitConfig(6, 1), engine.NewRand(seed))

		before := make([]bool, len(g.board))
		for i, p := range g.board {
			before[i] = p.Powered
		}
		g.propagate()
		for i, p := range g.board {
			if p.Powered != before[i] {
				t.Fatalf("seed %d: powered set changed on re-propagation at cell %d", seed, i)
			}
		}
	}
}

func TestPieceRotationCyclic(t *testing.T) {
	for piece, base := range baseConnections {
		for rotation := 0; rotation < 360; rotation += 90 {
			p := Piece{Type: piece, Rotation: rotation}
			original := p.Connections()
			p.Rotation = (p.Rotation + 4*90) % 360
			after := p.Connections()
			if len(original) != len(after) || len(original) != len(base) {
				t.Fatalf("%s at %d: connection count changed across full cycle", piece, rotation)
			}
			for side := range original {
				if !after[side] {
					t.Errorf("%s at %d: side %d lost across full cycle", piece, rotation, side)
				}
			}
		}
	}
}

func TestCircuitRotateFixedPieceRejected(t *testing.T) {
	g := NewCircuitSolver(circuitConfig(5, 1), engine.NewRand(3))
	g.Begin()

	rotation := g.board[g.srcIdx].Rotation
	_, err := g.HandleInput(Input{Action: "rotate", Cell: g.srcIdx})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput, got %v", err)
	}
	if g.board[g.srcIdx].Rotation != rotation {
		t.Error("Fixed piece rotation changed by rejected input")
	}
	if g.phase != PhasePlaying {
		t.Errorf("Expected phase playing, got %s", g.phase)
	}
}

func TestCircuitInputBeforeBeginRejected(t *testing.T) {
	g := NewCircuitSolver(circuitConfig(5, 1), engine.NewRand(3))
	if _, err := g.HandleInput(Input{Action: "rotate", Cell: 0}); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Expected ErrWrongPhase, got %v", err)
	}
}

// threeCellBridge rigs a 3x3 board whose middle row is source, straight,
// destination, with the straight one rotation away from closing the circuit.
func threeCellBridge(g *CircuitSolver) {
	g.board = make([]Piece, 9)
	g.board[3] = Piece{Type: PieceSource, Rotation: 90, Fixed: true, Powered: true}
	g.board[4] = Piece{Type: PieceStraight, Rotation: 0}
	g.board[5] = Piece{Type: PieceDestination, Rotation: 270, Fixed: true}
	g.srcIdx, g.dstIdx = 3, 5
	g.propagate()
}

func TestCircuitSolveBoard(t *testing.T) {
	g := NewCircuitSolver(circuitConfig(3, 1), engine.NewRand(1))
	threeCellBridge(g)
	g.Begin()

	if g.board[g.dstIdx].Powered {
		t.Fatal("Destination powered before the connecting rotation")
	}
	cmd, err := g.HandleInput(Input{Action: "rotate", Cell: 4})
	if err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if g.phase != PhaseSuccess {
		t.Fatalf("Expected success, got %s", g.phase)
	}
	if !cmd.StopCountdown {
		t.Error("Expected terminal transition to stop the countdown")
	}
}

func TestCircuitMultiBoardProgression(t *testing.T) {
	g := NewCircuitSolver(circuitConfig(3, 2), engine.NewRand(1))
	threeCellBridge(g)
	g.Begin()

	if _, err := g.HandleInput(Input{Action: "rotate", Cell: 4}); err != nil {
		t.Fatalf("Rotate returned error: %v", err)
	}
	if g.phase != PhasePlaying {
		t.Fatalf("Expected session to continue onto the next board, got %s", g.phase)
	}
	if g.solved != 1 {
		t.Errorf("Expected 1 solved board, got %d", g.solved)
	}
	if !g.board[g.srcIdx].Powered {
		t.Error("Fresh board's source not powered")
	}
}

func TestCircuitExpiryFails(t *testing.T) {
	g := NewCircuitSolver(circuitConfig(5, 1), engine.NewRand(9))
	g.Begin()
	g.HandleExpiry()
	if g.phase != PhaseFailure {
		t.Errorf("Expected failure on expiry, got %s", g.phase)
	}
}
