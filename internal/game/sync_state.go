// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/klara-games/blockfall/engine"
)

// ActiveView describes the falling piece for client rendering: its kind and
// the absolute board coordinates of its four cells.
type ActiveView struct {
	Kind  int       `json:"kind"`
	Cells [4][2]int `json:"cells"` // [x, y] pairs, row 0 at the bottom
}

// StateView is the full observable game state pushed to the client after
// every command and tick. Board rows are ordered bottom-up — row 0 is the
// bottom row, which differs from screen coordinates; the renderer flips.
type StateView struct {
	SessionID      uuid.UUID   `json:"sessionId"`
	Board          [][]int     `json:"board"` // [height][width] of kind ordinals, 0 = empty
	Active         *ActiveView `json:"active,omitempty"`
	Score          int         `json:"score"`
	Level          int         `json:"level"`
	Lines          int         `json:"lines"`
	Combo          int         `json:"combo"`
	PerfectClear   bool        `json:"perfectClear,omitempty"` // one-shot
	Paused         bool        `json:"paused"`
	GameOver       bool        `json:"gameOver"`
	TickIntervalMs int64       `json:"tickIntervalMs"`
}

// newStateView converts an engine status snapshot into the wire form.
func newStateView(sessionID uuid.UUID, s engine.Status) StateView {
	board := make([][]int, s.Height)
	for y, row := range s.Grid {
		cells := make([]int, s.Width)
		for x, k := range row {
			cells[x] = int(k)
		}
		board[y] = cells
	}

	view := StateView{
		SessionID:      sessionID,
		Board:          board,
		Score:          s.Score,
		Level:          s.Level,
		Lines:          s.Lines,
		Combo:          s.Combo,
		PerfectClear:   s.PerfectClear,
		Paused:         s.Paused,
		GameOver:       s.GameOver,
		TickIntervalMs: s.FallInterval.Milliseconds(),
	}

	if s.ActiveKind != engine.KindNone {
		active := &ActiveView{Kind: int(s.ActiveKind)}
		for i, c := range s.ActiveCells {
			active.Cells[i] = [2]int{c.X, c.Y}
		}
		view.Active = active
	}
	return view
}
