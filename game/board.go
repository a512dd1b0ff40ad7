// game/board.go
package game

// Mark is a single cell value.
type Mark byte

const (
	Empty Mark = ' '
	MarkX Mark = 'X'
	MarkO Mark = 'O'
)

// String renders the mark as its single-character cell value.
func (m Mark) String() string {
	return string(rune(m))
}

// Board is the 3x3 grid.
type Board [3][3]Mark

// NewBoard returns an empty board.
func NewBoard() Board {
	var b Board
	for i := range b {
		for j := range b[i] {
			b[i][j] = Empty
		}
	}
	return b
}

// Place writes mark at (i, j). It reports false and leaves the board
// untouched if the coordinates are out of range or the cell is taken.
func (b *Board) Place(i, j int, mark Mark) bool {
	if i < 0 || i > 2 || j < 0 || j > 2 {
		return false
	}
	if b[i][j] != Empty {
		return false
	}
	b[i][j] = mark
	return true
}

// RawResult is a board outcome in mark space, before the winner has
// been mapped back to a seat.
type RawResult int

const (
	RawNone RawResult = iota
	RawXWins
	RawOWins
	RawDraw
)

// Evaluate scans the 3 rows, 3 columns and both diagonals. The first
// completed line decides the winner; a full board with no line is a
// draw.
func Evaluate(b Board) RawResult {
	lines := [8][3][2]int{
		{{0, 0}, {0, 1}, {0, 2}},
		{{1, 0}, {1, 1}, {1, 2}},
		{{2, 0}, {2, 1}, {2, 2}},
		{{0, 0}, {1, 0}, {2, 0}},
		{{0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 2}, {2, 2}},
		{{0, 0}, {1, 1}, {2, 2}},
		{{0, 2}, {1, 1}, {2, 0}},
	}
	for _, line := range lines {
		a := b[line[0][0]][line[0][1]]
		if a == Empty {
			continue
		}
		if a == b[line[1][0]][line[1][1]] && a == b[line[2][0]][line[2][1]] {
			if a == MarkX {
				return RawXWins
			}
			return RawOWins
		}
	}
	for i := range b {
		for j := range b[i] {
			if b[i][j] == Empty {
				return RawNone
			}
		}
	}
	return RawDraw
}

// EndValue is a round outcome in seat space.
type EndValue int

const (
	EndNone  EndValue = -1
	EndSeatA EndValue = 0
	EndSeatB EndValue = 1
	EndDraw  EndValue = 2
)

// SeatResult maps a raw mark-space outcome to seat space. X belongs to
// xPlayer, so a won line is inverted exactly when xPlayer is seat 1.
func SeatResult(raw RawResult, xPlayer int) EndValue {
	switch raw {
	case RawNone:
		return EndNone
	case RawDraw:
		return EndDraw
	}
	end := EndSeatA
	if raw == RawOWins {
		end = EndSeatB
	}
	if xPlayer == 1 {
		end = 1 - end
	}
	return end
}
