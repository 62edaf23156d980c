package engine

import (
	"math"
	"time"
)

// Base points for clearing n rows at once, indexed by n, before the level
// multiplier. The four-row clear additionally earns Rules.TetrisBonus flat.
var lineScores = [5]int{0, 40, 100, 300, 1200}

// applyClearScore runs the scoring update for a resolve that cleared n rows,
// then recomputes level and fall interval from the new cumulative line
// count. The order of the bonus terms is load-bearing: the early-level
// multiplier scales everything accrued before it, and the level used by the
// point terms is the level from before this resolve.
func (g *Game) applyClearScore(n int, perfect bool) {
	level := g.Level

	points := lineScores[n] * level
	if n == 4 {
		points += g.rules.TetrisBonus
	}

	g.Combo++
	if g.Combo > 1 {
		points += g.rules.ComboStep * g.Combo * level
	}

	now := g.clock()
	if g.hasLastClear {
		gap := now.Sub(g.lastClear)
		if gap < g.rules.QuickClearWindow {
			frac := 1 - float64(gap)/float64(g.rules.QuickClearWindow)
			points += int(math.Round(float64(g.rules.QuickClearBonus) * frac))
		}
	}
	g.lastClear = now
	g.hasLastClear = true

	if perfect {
		points += g.rules.PerfectClearBonus * level
		g.perfectCleared = true
	}

	if level <= g.rules.EarlyLevelCutoff {
		points = points * 3 / 2 // 1.5x, truncated
	}

	g.Score += points
	g.Lines += n
	g.Level = levelForLines(g.Lines)
	g.FallInterval = fallIntervalForLevel(g.Level, g.rules.BaseFallInterval)
}

// levelForLines maps cumulative cleared lines to a level. It is a pure
// step function, recomputed from scratch on every clear: every 3 lines up
// to level 4, every 5 lines up to level 7, every 10 lines beyond.
func levelForLines(lines int) int {
	switch {
	case lines < 9:
		return lines/3 + 1
	case lines < 24:
		return (lines-9)/5 + 4
	default:
		return (lines-24)/10 + 7
	}
}

// fallIntervalForLevel maps a level to the gravity tick interval. Speed
// ramps gently through level 3, moderately through level 7, and
// aggressively beyond, with floors of 300, 180 and 100 milliseconds.
func fallIntervalForLevel(level int, base time.Duration) time.Duration {
	baseMs := int(base / time.Millisecond)
	var ms int
	switch {
	case level <= 3:
		ms = max(baseMs-(level-1)*30, 300)
	case level <= 7:
		ms = max(300-(level-4)*40, 180)
	default:
		ms = max(180-(level-8)*20, 100)
	}
	return time.Duration(ms) * time.Millisecond
}
