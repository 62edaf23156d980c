package engine

// Board is the grid of locked cells. Cells are stored row-major with row 0
// at the bottom; y grows upward. The active falling piece is never written
// here — it lives in the Game's transient position state until it locks.
type Board struct {
	width  int
	height int
	cells  []Kind
}

// NewBoard allocates an empty width x height board.
func NewBoard(width, height int) Board {
	return Board{
		width:  width,
		height: height,
		cells:  make([]Kind, width*height),
	}
}

// Width returns the board width in cells.
func (b *Board) Width() int { return b.width }

// Height returns the board height in cells.
func (b *Board) Height() int { return b.height }

// At returns the locked kind at (x, y). Caller must pass in-bounds
// coordinates.
func (b *Board) At(x, y int) Kind {
	return b.cells[y*b.width+x]
}

// IsEmpty reports whether (x, y) is within bounds and unoccupied.
// Out-of-bounds coordinates are reported as not empty.
func (b *Board) IsEmpty(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.cells[y*b.width+x] == KindNone
}

// CanPlace reports whether the piece fits with its pivot at (x, y): all
// four projected cells in bounds and empty.
func (b *Board) CanPlace(p Piece, x, y int) bool {
	for _, c := range p.Cells {
		if !b.IsEmpty(x+c.X, y-c.Y) {
			return false
		}
	}
	return true
}

// Lock writes the piece's kind into its four projected cells. The caller
// must have verified CanPlace at the same position first.
func (b *Board) Lock(p Piece, x, y int) {
	for _, c := range p.Cells {
		b.cells[(y-c.Y)*b.width+(x+c.X)] = p.Kind
	}
}

// ClearFullLines removes every fully occupied row, shifting the rows above
// it down one, and reports how many rows were cleared. The second result is
// the perfect-clear flag: true iff the whole board is empty once the shifts
// are done, computed as a byproduct of the same scan.
//
// Rows are scanned bottom to top; after a shift the same row index is
// re-examined, since the row above has slid into it.
func (b *Board) ClearFullLines() (cleared int, perfect bool) {
	perfect = true
	for y := 0; y < b.height; y++ {
		full := true
		occupied := false
		for x := 0; x < b.width; x++ {
			if b.cells[y*b.width+x] == KindNone {
				full = false
			} else {
				occupied = true
			}
		}
		if full {
			cleared++
			for k := y; k < b.height-1; k++ {
				copy(b.cells[k*b.width:(k+1)*b.width], b.cells[(k+1)*b.width:(k+2)*b.width])
			}
			for x := 0; x < b.width; x++ {
				b.cells[(b.height-1)*b.width+x] = KindNone
			}
			// Re-examine this row: the row above has slid into it.
			y--
			continue
		}
		if occupied {
			perfect = false
		}
	}
	return cleared, perfect
}

// Reset sets every cell to KindNone.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = KindNone
	}
}

// Grid returns a copy of the board as rows of kinds, row 0 first (bottom).
func (b *Board) Grid() [][]Kind {
	rows := make([][]Kind, b.height)
	for y := 0; y < b.height; y++ {
		row := make([]Kind, b.width)
		copy(row, b.cells[y*b.width:(y+1)*b.width])
		rows[y] = row
	}
	return rows
}
