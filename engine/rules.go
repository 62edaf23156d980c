package engine

import "time"

// Rules holds configurable game settings.
type Rules struct {
	BoardWidth        int
	BoardHeight       int
	BaseFallInterval  time.Duration // tick interval at level 1
	TetrisBonus       int           // flat bonus for clearing four rows at once
	ComboStep         int           // per-combo-count, per-level bonus step
	QuickClearWindow  time.Duration // max gap between clears for the quick-drop bonus
	QuickClearBonus   int           // quick-drop bonus at zero gap, fades linearly
	PerfectClearBonus int           // per-level bonus when a clear empties the board
	EarlyLevelCutoff  int           // levels at or below this get the 1.5x multiplier
}

// DefaultRules returns the standard game settings.
func DefaultRules() Rules {
	return Rules{
		BoardWidth:        10,
		BoardHeight:       20,
		BaseFallInterval:  400 * time.Millisecond,
		TetrisBonus:       400,
		ComboStep:         50,
		QuickClearWindow:  time.Second,
		QuickClearBonus:   200,
		PerfectClearBonus: 3000,
		EarlyLevelCutoff:  3,
	}
}
