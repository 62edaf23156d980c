package engine

// Kind identifies a tetromino variant. KindNone is the sentinel used both
// for empty board cells and for "no active piece".
type Kind uint8

const (
	KindNone Kind = iota
	KindZ
	KindS
	KindI
	KindT
	KindO
	KindJ
	KindL // mirrored J

	NumKinds = 8
)

// Cell is a single (x, y) offset from a piece's pivot.
//
// The y offset is subtracted when a cell is projected onto the board: a
// piece at pivot (px, py) occupies board cell (px+X, py-Y) for each of its
// four cells. Board row 0 is the bottom row and y grows upward.
type Cell struct {
	X int
	Y int
}

// coordsTable holds the canonical four cell offsets for each kind, indexed
// by Kind. KindNone is four zero cells (inert).
var coordsTable = [NumKinds][4]Cell{
	{{0, 0}, {0, 0}, {0, 0}, {0, 0}},     // KindNone
	{{0, -1}, {0, 0}, {-1, 0}, {-1, 1}},  // KindZ
	{{0, -1}, {0, 0}, {1, 0}, {1, 1}},    // KindS
	{{0, -1}, {0, 0}, {0, 1}, {0, 2}},    // KindI
	{{-1, 0}, {0, 0}, {1, 0}, {0, 1}},    // KindT
	{{0, 0}, {1, 0}, {0, 1}, {1, 1}},     // KindO
	{{-1, -1}, {0, -1}, {0, 0}, {0, 1}},  // KindJ
	{{1, -1}, {0, -1}, {0, 0}, {0, 1}},   // KindL
}

// CellsOf returns the canonical cell offsets for a kind.
func CellsOf(kind Kind) [4]Cell {
	return coordsTable[kind]
}

// Piece is a tetromino value: a kind plus its four pivot-relative cells.
// Rotations return new values; a Piece is never mutated in place.
type Piece struct {
	Kind  Kind
	Cells [4]Cell
}

// NewPiece returns a piece of the given kind with its canonical cells.
func NewPiece(kind Kind) Piece {
	return Piece{Kind: kind, Cells: coordsTable[kind]}
}

// RotateLeft returns the piece rotated ninety degrees counter-clockwise:
// (x, y) -> (y, -x) per cell. KindO is a fixed point and is returned as-is.
func (p Piece) RotateLeft() Piece {
	if p.Kind == KindO {
		return p
	}
	out := Piece{Kind: p.Kind}
	for i, c := range p.Cells {
		out.Cells[i] = Cell{X: c.Y, Y: -c.X}
	}
	return out
}

// RotateRight returns the piece rotated ninety degrees clockwise:
// (x, y) -> (-y, x) per cell. KindO is a fixed point and is returned as-is.
func (p Piece) RotateRight() Piece {
	if p.Kind == KindO {
		return p
	}
	out := Piece{Kind: p.Kind}
	for i, c := range p.Cells {
		out.Cells[i] = Cell{X: -c.Y, Y: c.X}
	}
	return out
}

// MinX returns the minimum x offset across the piece's four cells.
func (p Piece) MinX() int {
	m := p.Cells[0].X
	for _, c := range p.Cells[1:] {
		if c.X < m {
			m = c.X
		}
	}
	return m
}

// MinY returns the minimum y offset across the piece's four cells. Used by
// the spawn routine to place the piece's topmost cell on the top board row.
func (p Piece) MinY() int {
	m := p.Cells[0].Y
	for _, c := range p.Cells[1:] {
		if c.Y < m {
			m = c.Y
		}
	}
	return m
}
