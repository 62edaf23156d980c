// internal/game/session.go
package game

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/klara-games/blockfall/engine"
	"github.com/klara-games/blockfall/internal/cache"
)

// CommandType identifies an inbound player command.
type CommandType string

// Inbound command frames understood by a session.
const (
	CmdNewGame         CommandType = "cmd_new_game"
	CmdTogglePause     CommandType = "cmd_toggle_pause"
	CmdMoveLeft        CommandType = "cmd_move_left"
	CmdMoveRight       CommandType = "cmd_move_right"
	CmdRotateClockwise CommandType = "cmd_rotate_cw"
	CmdRotateCounter   CommandType = "cmd_rotate_ccw"
	CmdSoftDrop        CommandType = "cmd_soft_drop"
	CmdHardDrop        CommandType = "cmd_hard_drop"
)

// Command is one inbound command frame from the client.
type Command struct {
	Type CommandType `json:"type"`
}

// OnSessionEndFunc defines the signature for a callback executed when a
// round ends. It receives the session ID and the final score, level and
// cumulative line count.
type OnSessionEndFunc func(sessionID uuid.UUID, score, level, lines int)

// Session owns one game and its tick driver. All engine access happens
// under Mu; the tick timer and the transport read loop are serialized
// through it, so the engine itself never sees concurrent calls.
type Session struct {
	ID uuid.UUID

	Mu     sync.Mutex  // protects Engine and the timer fields below
	Engine engine.Game // the authoritative game state

	// BroadcastFn pushes an event to the connected client. Called with Mu
	// held; implementations must not call back into the session.
	BroadcastFn func(ev Event)

	// OnSessionEnd is invoked once per round when the game tops out.
	OnSessionEnd OnSessionEndFunc

	log *logrus.Entry

	tickTimer   *time.Timer
	tickSeq     int // invalidates stale timers after reschedule/stop
	closed      bool
	endReported bool
	actionIndex int
}

// NewSession creates a session around a freshly seeded engine. The game
// stays idle until a CmdNewGame arrives.
func NewSession(seed uint64, rules engine.Rules, logger *logrus.Logger) *Session {
	id, _ := uuid.NewRandom()
	if logger == nil {
		logger = logrus.New()
	}
	return &Session{
		ID:     id,
		Engine: engine.NewGame(seed, rules),
		log:    logger.WithField("session", id),
	}
}

// HandleCommand routes one inbound command. Rejections (unknown command,
// command after game over) produce an EventCommandRejected; every accepted
// command ends with a state_sync carrying the full observable state.
func (s *Session) HandleCommand(cmd Command) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.closed {
		return
	}

	switch cmd.Type {
	case CmdNewGame:
		s.handleNewGame()
		return
	case CmdTogglePause:
		s.handleTogglePause()
		return
	}

	switch cmd.Type {
	case CmdMoveLeft, CmdMoveRight, CmdRotateClockwise, CmdRotateCounter, CmdSoftDrop, CmdHardDrop:
	default:
		s.log.Warnf("unknown command type %q", cmd.Type)
		s.fireEvent(Event{Type: EventCommandRejected, Message: "unknown command type"})
		return
	}

	if s.Engine.IsGameOver() || !s.Engine.IsStarted() {
		s.log.Debugf("command %s ignored (idle or game over)", cmd.Type)
		s.fireEvent(Event{Type: EventCommandRejected, Message: "no active game"})
		return
	}
	if s.Engine.Active.Kind == engine.KindNone {
		// Settle window between a clearing lock and the next spawn: there
		// is no piece to act on, and the history stream should not record
		// an input that did nothing.
		s.fireEvent(Event{Type: EventCommandRejected, Message: "no falling piece"})
		return
	}

	preLines := s.Engine.Lines
	preLevel := s.Engine.Level

	switch cmd.Type {
	case CmdMoveLeft:
		s.Engine.MoveLeft()
	case CmdMoveRight:
		s.Engine.MoveRight()
	case CmdRotateClockwise:
		s.Engine.RotateClockwise()
	case CmdRotateCounter:
		s.Engine.RotateCounterClockwise()
	case CmdSoftDrop:
		s.Engine.SoftDrop()
	case CmdHardDrop:
		s.Engine.HardDrop()
	}

	s.logAction(string(cmd.Type), nil)
	s.resolveAndSync(preLines, preLevel)
}

// Close detaches the session from its timer. Further commands and stale
// ticks are ignored.
func (s *Session) Close() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.closed = true
	s.stopTick()
	s.log.Info("session closed")
}

// handleNewGame starts (or restarts) a round. Assumes lock is held.
func (s *Session) handleNewGame() {
	wasOver := s.Engine.IsGameOver()
	s.Engine.Start()
	if !s.Engine.IsStarted() || s.Engine.IsPaused() {
		// Start is a no-op while paused.
		s.fireEvent(Event{Type: EventCommandRejected, Message: "cannot start while paused"})
		return
	}
	s.endReported = false
	s.log.WithField("restart", wasOver).Info("round started")
	s.logAction(string(CmdNewGame), nil)
	s.fireEvent(Event{Type: EventGameStarted})
	s.syncState()
	s.scheduleTick()
}

// handleTogglePause flips the pause state and the tick driver with it.
// Assumes lock is held.
func (s *Session) handleTogglePause() {
	before := s.Engine.IsPaused()
	s.Engine.TogglePause()
	after := s.Engine.IsPaused()
	if before == after {
		s.fireEvent(Event{Type: EventCommandRejected, Message: "nothing to pause"})
		return
	}
	s.logAction(string(CmdTogglePause), map[string]interface{}{"paused": after})
	if after {
		s.stopTick()
		s.fireEvent(Event{Type: EventGamePaused})
	} else {
		s.fireEvent(Event{Type: EventGameResumed})
		s.scheduleTick()
	}
	s.syncState()
}

// scheduleTick arms the gravity timer at the engine's current fall
// interval. Assumes lock is held.
func (s *Session) scheduleTick() {
	s.stopTick()
	if s.closed || !s.Engine.IsStarted() || s.Engine.IsPaused() || s.Engine.IsGameOver() {
		return
	}
	seq := s.tickSeq
	s.tickTimer = time.AfterFunc(s.Engine.FallInterval, func() {
		s.fireTick(seq)
	})
}

// stopTick cancels any pending gravity timer and invalidates in-flight
// callbacks. Assumes lock is held.
func (s *Session) stopTick() {
	s.tickSeq++
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

// fireTick is the timer callback: one gravity step, then reschedule at the
// (possibly updated) fall interval.
func (s *Session) fireTick(seq int) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.closed || seq != s.tickSeq {
		return // stale timer; a pause, restart or stop got here first
	}

	preLines := s.Engine.Lines
	preLevel := s.Engine.Level
	s.Engine.Tick()
	s.resolveAndSync(preLines, preLevel)
	s.scheduleTick()
}

// resolveAndSync diffs the engine against the pre-command counters, emits
// the derived events, and pushes a state sync. Assumes lock is held.
func (s *Session) resolveAndSync(preLines, preLevel int) {
	status := s.Engine.Status()

	if cleared := status.Lines - preLines; cleared > 0 {
		s.fireEvent(Event{Type: EventLinesCleared, Lines: cleared})
		if status.PerfectClear {
			s.fireEvent(Event{Type: EventPerfectClear})
		}
	}
	if status.Level > preLevel {
		s.fireEvent(Event{Type: EventLevelUp, Level: status.Level})
	}
	if status.GameOver && !s.endReported {
		s.endReported = true
		s.stopTick()
		s.log.WithFields(logrus.Fields{
			"score": status.Score,
			"level": status.Level,
			"lines": status.Lines,
		}).Info("round over")
		s.logAction(string(EventGameOver), map[string]interface{}{"score": status.Score})
		s.fireEvent(Event{Type: EventGameOver, Score: status.Score})
		if s.OnSessionEnd != nil {
			s.OnSessionEnd(s.ID, status.Score, status.Level, status.Lines)
		}
	}

	s.fireEvent(Event{Type: EventStateSync, State: s.viewOf(status)})
}

// syncState pushes a fresh full-state snapshot. Assumes lock is held.
func (s *Session) syncState() {
	status := s.Engine.Status()
	s.fireEvent(Event{Type: EventStateSync, State: s.viewOf(status)})
}

func (s *Session) viewOf(status engine.Status) *StateView {
	view := newStateView(s.ID, status)
	return &view
}

// fireEvent pushes an event through the broadcast callback. Assumes lock
// is held.
func (s *Session) fireEvent(ev Event) {
	if s.BroadcastFn == nil {
		return
	}
	s.BroadcastFn(ev)
}

// logAction publishes an action record to the historian stream.
// Fire-and-forget: a missing or failing Redis client never affects
// gameplay. Assumes lock is held.
func (s *Session) logAction(actionType string, payload map[string]interface{}) {
	s.actionIndex++
	rec := cache.SessionActionRecord{
		SessionID:   s.ID,
		ActionIndex: s.actionIndex,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	log := s.log
	go func(rec cache.SessionActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if cache.Rdb == nil {
			return
		}
		if err := cache.PublishSessionAction(ctx, rec); err != nil {
			log.WithError(err).Warnf("failed publishing action %d (%s)", rec.ActionIndex, rec.ActionType)
		}
	}(rec)
}
