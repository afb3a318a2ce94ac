package games

import (
	"fmt"

	"github.com/VeinDevTtv/qbx-minigames/internal/config"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
)

// PieceType enumerates circuit board pieces.
type PieceType string

const (
	PieceEmpty       PieceType = "empty"
	PieceStraight    PieceType = "straight"
	PieceCorner      PieceType = "corner"
	PieceTee         PieceType = "tee"
	PieceCross       PieceType = "cross"
	PieceSource      PieceType = "source"
	PieceDestination PieceType = "destination"
)

// Side identifies one edge of a cell. The numeric order is clockwise so a
// 90-degree rotation is a +1 shift.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// Opposite returns the facing side of the adjacent cell.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// baseConnections lists the sides each piece type exposes at rotation 0.
// Source and destination have a single connection at the top; generation
// rotates them so it points into the grid.
var baseConnections = map[PieceType][]Side{
	PieceStraight:    {SideTop, SideBottom},
	PieceCorner:      {SideTop, SideRight},
	PieceTee:         {SideTop, SideRight, SideBottom},
	PieceCross:       {SideTop, SideRight, SideBottom, SideLeft},
	PieceSource:      {SideTop},
	PieceDestination: {SideTop},
}

// fillTypes is the pool for cells the path carve did not touch.
var fillTypes = []PieceType{PieceStraight, PieceCorner, PieceTee, PieceCross, PieceEmpty}

// Piece is one cell of the circuit board.
type Piece struct {
	Type     PieceType `json:"type"`
	Rotation int       `json:"rotation"`
	Powered  bool      `json:"powered"`
	Fixed    bool      `json:"fixed"`
}

// Connections returns the sides this piece exposes at its current rotation.
// It is a pure function of (type, rotation).
func (p Piece) Connections() map[Side]bool {
	base := baseConnections[p.Type]
	out := make(map[Side]bool, len(base))
	steps := (p.Rotation / 90) % 4
	for _, s := range base {
		out[(s+Side(steps))%4] = true
	}
	return out
}

// CircuitSolver is the pipe-rotation minigame: rotate pieces until power
// flows from the source to the destination.
type CircuitSolver struct {
	cfg   config.Config
	rng   engine.Rand
	phase Phase

	size     int
	circuits int
	board    []Piece
	srcIdx   int
	dstIdx   int
	solved   int
}

// NewCircuitSolver generates the first board for the session.
func NewCircuitSolver(cfg config.Config, rng engine.Rand) *CircuitSolver {
	g := &CircuitSolver{
		cfg:      cfg,
		rng:      rng,
		phase:    PhaseIdle,
		size:     cfg.GridSize,
		circuits: cfg.Circuits,
	}
	if g.circuits < 1 {
		g.circuits = 1
	}
	g.generateBoard()
	return g
}

func (g *CircuitSolver) Spec() Spec {
	return Spec{
		ID:           config.GameCircuitSolver,
		Name:         "Circuit Solver",
		SuccessDelay: successDelay,
		FailureDelay: longFailureDelay,
	}
}

func (g *CircuitSolver) Phase() Phase { return g.phase }

func (g *CircuitSolver) Begin() Command {
	g.phase = PhasePlaying
	return Command{StartCountdown: g.cfg.Duration}
}

// generateBoard builds one solvable-but-scrambled board: pick an orientation,
// carve a guaranteed source-to-destination path, fill the rest randomly, then
// scramble every non-fixed rotation.
func (g *CircuitSolver) generateBoard() {
	size := g.size
	g.board = make([]Piece, size*size)
	assigned := make([]bool, size*size)

	var srcRow, srcCol, dstRow, dstCol int
	if g.rng.Intn(2) == 0 {
		// Horizontal: source on the left edge, destination on the right.
		row := g.rng.Intn(size)
		srcRow, srcCol = row, 0
		dstRow, dstCol = row, size-1
		g.board[g.index(srcRow, srcCol)] = Piece{Type: PieceSource, Rotation: 90, Fixed: true, Powered: true}
		g.board[g.index(dstRow, dstCol)] = Piece{Type: PieceDestination, Rotation: 270, Fixed: true}
	} else {
		// Vertical: source on the top edge, destination on the bottom.
		col := g.rng.Intn(size)
		srcRow, srcCol = 0, col
		dstRow, dstCol = size-1, col
		g.board[g.index(srcRow, srcCol)] = Piece{Type: PieceSource, Rotation: 180, Fixed: true, Powered: true}
		g.board[g.index(dstRow, dstCol)] = Piece{Type: PieceDestination, Rotation: 0, Fixed: true}
	}
	g.srcIdx = g.index(srcRow, srcCol)
	g.dstIdx = g.index(dstRow, dstCol)
	assigned[g.srcIdx] = true
	assigned[g.dstIdx] = true

	g.carvePath(assigned, srcRow, srcCol, dstRow, dstCol)

	for i := range g.board {
		if assigned[i] {
			continue
		}
		g.board[i] = Piece{Type: fillTypes[g.rng.Intn(len(fillTypes))]}
	}

	for i := range g.board {
		if g.board[i].Fixed {
			continue
		}
		g.board[i].Rotation = 90 * g.rng.Intn(4)
	}

	g.propagate()
}

// carvePath walks a randomized greedy path from source to destination,
// assigning a travel-aligned straight piece to each intermediate cell. Moves
// that strictly decrease Manhattan distance are preferred; ties break
// uniformly; when no move decreases distance, any unvisited neighbor is
// taken; a fully walled-in walk simply stops and the random fill covers the
// rest.
func (g *CircuitSolver) carvePath(assigned []bool, srcRow, srcCol, dstRow, dstCol int) {
	size := g.size
	visited := make([]bool, size*size)
	row, col := srcRow, srcCol
	visited[g.index(row, col)] = true

	type step struct {
		row, col int
		vertical bool
	}

	for row != dstRow || col != dstCol {
		dist := manhattan(row, col, dstRow, dstCol)
		var closer, open []step
		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nr, nc := row+d[0], col+d[1]
			if nr < 0 || nr >= size || nc < 0 || nc >= size {
				continue
			}
			if visited[g.index(nr, nc)] {
				continue
			}
			s := step{row: nr, col: nc, vertical: d[1] == 0}
			if manhattan(nr, nc, dstRow, dstCol) < dist {
				closer = append(closer, s)
			}
			open = append(open, s)
		}

		var next step
		switch {
		case len(closer) > 0:
			next = closer[g.rng.Intn(len(closer))]
		case len(open) > 0:
			next = open[g.rng.Intn(len(open))]
		default:
			return
		}

		row, col = next.row, next.col
		visited[g.index(row, col)] = true
		if row == dstRow && col == dstCol {
			return
		}
		rotation := 90
		if next.vertical {
			rotation = 0
		}
		g.board[g.index(row, col)] = Piece{Type: PieceStraight, Rotation: rotation}
		assigned[g.index(row, col)] = true
	}
}

// propagate recomputes the powered set from scratch with a worklist
// flood-fill. Power crosses an edge only when both pieces expose a
// connection toward each other; only the source is powered in the reset
// state.
func (g *CircuitSolver) propagate() {
	for i := range g.board {
		g.board[i].Powered = false
	}
	g.board[g.srcIdx].Powered = true

	queue := []int{g.srcIdx}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		row, col := i/g.size, i%g.size
		conns := g.board[i].Connections()
		for side := SideTop; side <= SideLeft; side++ {
			if !conns[side] {
				continue
			}
			nr, nc := neighbor(row, col, side)
			if nr < 0 || nr >= g.size || nc < 0 || nc >= g.size {
				continue
			}
			j := g.index(nr, nc)
			if g.board[j].Powered {
				continue
			}
			if !g.board[j].Connections()[side.Opposite()] {
				continue
			}
			g.board[j].Powered = true
			queue = append(queue, j)
		}
	}
}

// HandleInput rotates a piece 90 degrees clockwise and re-runs propagation.
func (g *CircuitSolver) HandleInput(in Input) (Command, error) {
	if g.phase != PhasePlaying {
		return Command{}, ErrWrongPhase
	}
	if in.Action != "rotate" {
		return Command{}, fmt.Errorf("%w: action %q", ErrInvalidInput, in.Action)
	}
	if in.Cell < 0 || in.Cell >= len(g.board) {
		return Command{}, fmt.Errorf("%w: cell %d out of range", ErrInvalidInput, in.Cell)
	}
	if g.board[in.Cell].Fixed {
		return Command{}, fmt.Errorf("%w: cell %d is a fixed piece", ErrInvalidInput, in.Cell)
	}

	g.board[in.Cell].Rotation = (g.board[in.Cell].Rotation + 90) % 360
	g.propagate()

	if g.board[g.dstIdx].Powered {
		g.solved++
		if g.solved >= g.circuits {
			g.phase = PhaseSuccess
			return Command{StopCountdown: true}, nil
		}
		// More circuits to go: a fresh board under the same countdown.
		g.generateBoard()
	}
	return Command{}, nil
}

func (g *CircuitSolver) HandleExpiry() Command {
	if g.phase == PhasePlaying {
		g.phase = PhaseFailure
	}
	return Command{}
}

func (g *CircuitSolver) Metrics() map[string]any {
	return map[string]any{}
}

func (g *CircuitSolver) View() map[string]any {
	return map[string]any{
		"gridSize":     g.size,
		"board":        append([]Piece(nil), g.board...),
		"source":       g.srcIdx,
		"destination":  g.dstIdx,
		"boardsSolved": g.solved,
		"circuits":     g.circuits,
	}
}

func (g *CircuitSolver) index(row, col int) int {
	return row*g.size + col
}

func manhattan(r1, c1, r2, c2 int) int {
	return abs(r1-r2) + abs(c1-c2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func neighbor(row, col int, s Side) (int, int) {
	switch s {
	case SideTop:
		return row - 1, col
	case SideRight:
		return row, col + 1
	case SideBottom:
		return row + 1, col
	default:
		return row, col - 1
	}
}
