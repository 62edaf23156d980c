// Package engine implements the falling-block puzzle rules.
//
// The package is self-contained and dependency-free: piece geometry and
// rotation, board collision and line clearing, and the score/level/speed
// state machine. Timers, input plumbing and rendering are collaborators
// outside this package; they drive the engine through its command methods
// and read back state through Status.
package engine

import "time"

// Game holds the complete state of one game: the board of locked cells,
// the active falling piece with its pivot position, and the scoring state.
//
// All methods must be called from a single goroutine (or under an external
// lock); every command runs to completion before the next is processed.
type Game struct {
	Board  Board
	Active Piece
	X      int // pivot column of the active piece
	Y      int // pivot row of the active piece

	Score int
	Level int
	Lines int // cumulative cleared rows
	Combo int // consecutive clearing locks

	// FallInterval is the tick interval the external tick driver should
	// currently honor. Recomputed after every resolve that cleared rows.
	FallInterval time.Duration

	rules Rules
	rng   uint64

	clock        func() time.Time // injected for the quick-clear bonus
	lastClear    time.Time
	hasLastClear bool

	perfectCleared  bool // one-shot, consumed by Status
	fallingFinished bool // a clearing lock happened; next tick spawns
	started         bool
	paused          bool
	gameOver        bool
}

// NewGame initializes an idle game with the given seed and rules. No piece
// is active until Start is called.
func NewGame(seed uint64, rules Rules) Game {
	g := Game{
		Board:        NewBoard(rules.BoardWidth, rules.BoardHeight),
		Active:       NewPiece(KindNone),
		Level:        1,
		FallInterval: rules.BaseFallInterval,
		rules:        rules,
		rng:          seed,
		clock:        time.Now,
	}
	if g.rng == 0 {
		g.rng = 1 // xorshift can't start at 0
	}
	return g
}

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (g *Game) nextRand() uint64 {
	x := g.rng
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.rng = x
	return x
}

// randomKind returns one of the seven real kinds, never KindNone.
func (g *Game) randomKind() Kind {
	return Kind(g.nextRand()%uint64(NumKinds-1)) + 1
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Start begins a new game: all scoring state returns to its initial values,
// the board empties, the first piece spawns, and the tick interval returns
// to the base delay. Also restarts a finished game. No-op while paused.
func (g *Game) Start() {
	if g.paused {
		return
	}
	g.Score = 0
	g.Level = 1
	g.Lines = 0
	g.Combo = 0
	g.FallInterval = g.rules.BaseFallInterval
	g.lastClear = time.Time{}
	g.hasLastClear = false
	g.perfectCleared = false
	g.fallingFinished = false
	g.gameOver = false
	g.started = true
	g.Board.Reset()
	g.spawn()
}

// TogglePause flips the paused flag. While paused every piece-affecting
// command is a no-op until unpaused. No-op before Start or after game over.
func (g *Game) TogglePause() {
	if !g.started || g.gameOver {
		return
	}
	g.paused = !g.paused
}

// MoveLeft shifts the active piece one column left. Reports whether the
// position changed; a blocked move leaves all state untouched.
func (g *Game) MoveLeft() bool {
	if !g.playable() {
		return false
	}
	return g.tryMove(g.Active, g.X-1, g.Y)
}

// MoveRight shifts the active piece one column right. Reports whether the
// position changed.
func (g *Game) MoveRight() bool {
	if !g.playable() {
		return false
	}
	return g.tryMove(g.Active, g.X+1, g.Y)
}

// RotateClockwise rotates the active piece in place. The rotation is
// rejected, leaving the original piece, unless the rotated footprint fits
// at the current position — there is no wall-kick search.
func (g *Game) RotateClockwise() bool {
	if !g.playable() {
		return false
	}
	return g.tryMove(g.Active.RotateRight(), g.X, g.Y)
}

// RotateCounterClockwise rotates the active piece in place, with the same
// in-place legality rule as RotateClockwise.
func (g *Game) RotateCounterClockwise() bool {
	if !g.playable() {
		return false
	}
	return g.tryMove(g.Active.RotateLeft(), g.X, g.Y)
}

// SoftDrop moves the active piece down one row, awarding one point. When
// the piece cannot descend it has landed, and the lock-and-resolve sequence
// runs instead. Reports whether the piece moved down.
func (g *Game) SoftDrop() bool {
	if !g.playable() {
		return false
	}
	return g.oneLineDown()
}

// HardDrop drops the active piece to its resting row, awarding two points
// per row fallen, then locks it. Returns the drop distance.
func (g *Game) HardDrop() int {
	if !g.playable() {
		return 0
	}
	distance := 0
	for g.tryMove(g.Active, g.X, g.Y-1) {
		distance++
	}
	if distance > 0 {
		g.Score += distance * 2
	}
	g.lockAndResolve()
	return distance
}

// Tick advances gravity by one step. Driven by the external tick driver at
// the current FallInterval. If the previous lock cleared rows, this tick
// spawns the next piece instead of descending, which leaves the settled
// board visible for one interval.
func (g *Game) Tick() {
	if !g.started || g.paused || g.gameOver {
		return
	}
	if g.fallingFinished {
		g.fallingFinished = false
		g.spawn()
		return
	}
	g.oneLineDown()
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

// playable reports whether piece-affecting commands may run.
func (g *Game) playable() bool {
	return g.started && !g.paused && !g.gameOver && g.Active.Kind != KindNone
}

// tryMove commits the candidate piece and position if the board accepts it.
func (g *Game) tryMove(p Piece, x, y int) bool {
	if !g.Board.CanPlace(p, x, y) {
		return false
	}
	g.Active = p
	g.X = x
	g.Y = y
	return true
}

// oneLineDown performs one gravity step, locking the piece when it lands.
func (g *Game) oneLineDown() bool {
	if g.tryMove(g.Active, g.X, g.Y-1) {
		g.Score++
		return true
	}
	g.lockAndResolve()
	return false
}

// lockAndResolve commits the active piece into the board and resolves line
// clears. A clearing lock scores, empties the active piece, and defers the
// next spawn to the following tick; a non-clearing lock resets the combo
// and spawns immediately.
func (g *Game) lockAndResolve() {
	g.Board.Lock(g.Active, g.X, g.Y)
	cleared, perfect := g.Board.ClearFullLines()
	if cleared > 0 {
		g.applyClearScore(cleared, perfect)
		g.fallingFinished = true
		g.Active = NewPiece(KindNone)
		return
	}
	g.Combo = 0
	g.spawn()
}

// spawn picks a random piece and places it at the top center. A spawn that
// does not fit ends the game: the active piece becomes KindNone and no
// further piece-affecting command has any effect until Start.
func (g *Game) spawn() {
	p := NewPiece(g.randomKind())
	x := g.Board.Width()/2 + 1
	y := g.Board.Height() - 1 + p.MinY()
	if !g.tryMove(p, x, y) {
		g.Active = NewPiece(KindNone)
		g.gameOver = true
	}
}
