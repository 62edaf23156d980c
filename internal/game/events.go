// internal/game/events.go
package game

// EventType represents the type of a game-related event pushed to the
// connected client.
type EventType string

// Constants defining the various Event types sent over the wire.
const (
	EventGameStarted     EventType = "game_started"       // A new round began.
	EventGamePaused      EventType = "game_paused"        // Gravity stopped; commands ignored.
	EventGameResumed     EventType = "game_resumed"       // Gravity resumed.
	EventLinesCleared    EventType = "game_lines_cleared" // One or more rows cleared this lock.
	EventPerfectClear    EventType = "game_perfect_clear" // The clear emptied the whole board.
	EventLevelUp         EventType = "game_level_up"      // The level curve advanced.
	EventGameOver        EventType = "game_over"          // Spawn failed; round over, final score attached.
	EventStateSync       EventType = "state_sync"         // Full observable state snapshot.
	EventCommandRejected EventType = "command_rejected"   // Command ignored in the current state.
)

// Event is the standard structure for pushing game state changes to the
// client. Numeric fields are populated per event type; State rides along on
// sync events.
type Event struct {
	Type    EventType  `json:"type"`
	Lines   int        `json:"lines,omitempty"`   // rows cleared, for EventLinesCleared
	Level   int        `json:"level,omitempty"`   // new level, for EventLevelUp
	Score   int        `json:"score,omitempty"`   // final score, for EventGameOver
	Message string     `json:"message,omitempty"` // human-readable reason, for EventCommandRejected
	State   *StateView `json:"state,omitempty"`   // full snapshot, for EventStateSync
}
