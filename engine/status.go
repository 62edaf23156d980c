package engine

import "time"

// Status is the observable state a rendering or transport collaborator
// polls after any command. Everything in it is a copy; mutating it does not
// touch the game.
type Status struct {
	Width  int
	Height int
	Grid   [][]Kind // locked cells, row 0 first (bottom)

	ActiveKind  Kind
	ActiveCells [4]Cell // absolute board coordinates; meaningless for KindNone

	Score        int
	Level        int
	Lines        int
	Combo        int
	PerfectClear bool // one-shot: true on the first read after a perfect clear
	Paused       bool
	GameOver     bool
	FallInterval time.Duration
}

// Status snapshots the observable state. Reading consumes the one-shot
// perfect-clear flag.
func (g *Game) Status() Status {
	s := Status{
		Width:        g.Board.Width(),
		Height:       g.Board.Height(),
		Grid:         g.Board.Grid(),
		ActiveKind:   g.Active.Kind,
		ActiveCells:  g.ActiveCells(),
		Score:        g.Score,
		Level:        g.Level,
		Lines:        g.Lines,
		Combo:        g.Combo,
		PerfectClear: g.perfectCleared,
		Paused:       g.paused,
		GameOver:     g.gameOver,
		FallInterval: g.FallInterval,
	}
	g.perfectCleared = false
	return s
}

// ActiveCells returns the absolute board coordinates of the active piece's
// four cells at its current position.
func (g *Game) ActiveCells() [4]Cell {
	var cells [4]Cell
	for i, c := range g.Active.Cells {
		cells[i] = Cell{X: g.X + c.X, Y: g.Y - c.Y}
	}
	return cells
}

// IsPaused reports whether the game is paused.
func (g *Game) IsPaused() bool { return g.paused }

// IsGameOver reports whether the game has ended. Only Start clears it.
func (g *Game) IsGameOver() bool { return g.gameOver }

// IsStarted reports whether Start has been called and the game is past the
// idle state (it stays true through pause and game over).
func (g *Game) IsStarted() bool { return g.started }
