package engine

import (
	"testing"
	"time"
)

// lockNow performs the landing soft drop for the current piece. The piece
// must already be resting.
func lockNow(t *testing.T, g *Game) {
	t.Helper()
	if g.SoftDrop() {
		t.Fatal("piece was not resting before lock")
	}
}

// TestSingleClearFirstOfGame verifies the canonical first single: base 40
// at level 1, no combo, no quick-clear, no perfect bonus, early-level 1.5x
// — exactly 60 points.
func TestSingleClearFirstOfGame(t *testing.T) {
	g := newRunningGame(KindI, 3, 2)
	fillRow(&g.Board, 0, KindZ, 3)

	lockNow(t, g)
	if g.Score != 60 {
		t.Errorf("Score = %d, want 60", g.Score)
	}
	if g.Lines != 1 || g.Level != 1 || g.Combo != 1 {
		t.Errorf("Lines/Level/Combo = %d/%d/%d, want 1/1/1", g.Lines, g.Level, g.Combo)
	}
}

// TestTetrisFirstOfGame verifies a first-clear tetris with content left on
// the board: (1200 + 400) * 1.5 = 2400.
func TestTetrisFirstOfGame(t *testing.T) {
	g := newRunningGame(KindI, 3, 2)
	for y := 0; y < 4; y++ {
		fillRow(&g.Board, y, KindZ, 3)
	}
	g.Board.cells[4*g.Board.width+0] = KindS // keeps the board imperfect

	lockNow(t, g)
	if g.Score != 2400 {
		t.Errorf("Score = %d, want 2400", g.Score)
	}
	if g.Lines != 4 || g.Level != 2 {
		t.Errorf("Lines/Level = %d/%d, want 4/2", g.Lines, g.Level)
	}
	if g.FallInterval != 370*time.Millisecond {
		t.Errorf("FallInterval = %v, want 370ms", g.FallInterval)
	}
}

// TestPerfectClearBonus verifies an emptying clear adds 3000*level before
// the early-level multiplier and arms the one-shot status flag.
func TestPerfectClearBonus(t *testing.T) {
	g := newRunningGame(KindO, 3, 1)
	fillRow(&g.Board, 0, KindZ, 3, 4)
	fillRow(&g.Board, 1, KindZ, 3, 4)

	lockNow(t, g)
	// (100 base + 3000 perfect) * 1.5
	if g.Score != 4650 {
		t.Errorf("Score = %d, want 4650", g.Score)
	}
	if !g.Status().PerfectClear {
		t.Error("perfect-clear flag not set on first status read")
	}
	if g.Status().PerfectClear {
		t.Error("perfect-clear flag not consumed by the first read")
	}
}

// TestComboBonus verifies the second consecutive clearing lock earns
// 50 * combo * level on top of its base points.
func TestComboBonus(t *testing.T) {
	g := newRunningGame(KindI, 3, 2)
	now := time.Unix(1000, 0)
	g.clock = func() time.Time { return now }
	fillRow(&g.Board, 0, KindZ, 3)
	lockNow(t, g) // first clear: 60

	now = now.Add(2 * time.Second) // outside the quick-clear window
	g.fallingFinished = false
	g.Board.Reset()
	g.Active = NewPiece(KindI)
	g.X, g.Y = 3, 2
	fillRow(&g.Board, 0, KindZ, 3)
	lockNow(t, g)

	// Second clear: (40 + 50*2*1) * 1.5 = 210.
	if g.Score != 270 {
		t.Errorf("Score = %d, want 270", g.Score)
	}
	if g.Combo != 2 {
		t.Errorf("Combo = %d, want 2", g.Combo)
	}
}

// TestQuickClearBonus verifies a clear landing 500ms after the previous
// one earns a linearly faded timing bonus.
func TestQuickClearBonus(t *testing.T) {
	g := newRunningGame(KindI, 3, 2)
	now := time.Unix(1000, 0)
	g.clock = func() time.Time { return now }
	fillRow(&g.Board, 0, KindZ, 3)
	lockNow(t, g) // first clear: 60, stamps the clock

	now = now.Add(500 * time.Millisecond)
	g.fallingFinished = false
	g.Board.Reset()
	g.Active = NewPiece(KindI)
	g.X, g.Y = 3, 2
	fillRow(&g.Board, 0, KindZ, 3)
	lockNow(t, g)

	// Second clear: (40 + 100 combo + 100 quick) * 1.5 = 360.
	if g.Score != 420 {
		t.Errorf("Score = %d, want 420", g.Score)
	}
}

// TestLevelForLines verifies the three-tier level curve including its
// boundaries at 9 and 24 cumulative lines.
func TestLevelForLines(t *testing.T) {
	cases := []struct{ lines, level int }{
		{0, 1}, {2, 1}, {3, 2}, {6, 3}, {8, 3},
		{9, 4}, {13, 4}, {14, 5}, {19, 6}, {23, 6},
		{24, 7}, {33, 7}, {34, 8}, {44, 9}, {104, 15},
	}
	for _, tc := range cases {
		if got := levelForLines(tc.lines); got != tc.level {
			t.Errorf("levelForLines(%d) = %d, want %d", tc.lines, got, tc.level)
		}
	}
}

// TestFallIntervalForLevel verifies the three-tier speed curve and its
// floors.
func TestFallIntervalForLevel(t *testing.T) {
	base := 400 * time.Millisecond
	cases := []struct {
		level int
		ms    int
	}{
		{1, 400}, {2, 370}, {3, 340},
		{4, 300}, {5, 260}, {6, 220}, {7, 180},
		{8, 180}, {9, 160}, {11, 120}, {12, 100}, {20, 100},
	}
	for _, tc := range cases {
		want := time.Duration(tc.ms) * time.Millisecond
		if got := fallIntervalForLevel(tc.level, base); got != want {
			t.Errorf("fallIntervalForLevel(%d) = %v, want %v", tc.level, got, want)
		}
	}
}

// TestLevelRecomputedFromScratch verifies the level is a pure function of
// cumulative lines, not an accumulated counter.
func TestLevelRecomputedFromScratch(t *testing.T) {
	g := newRunningGame(KindI, 3, 2)
	g.Lines = 8 // one line short of the tier boundary
	fillRow(&g.Board, 0, KindZ, 3)
	lockNow(t, g)
	if g.Lines != 9 || g.Level != 4 {
		t.Errorf("Lines/Level = %d/%d, want 9/4", g.Lines, g.Level)
	}
	if g.FallInterval != 300*time.Millisecond {
		t.Errorf("FallInterval = %v, want 300ms", g.FallInterval)
	}
}
