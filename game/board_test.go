package game

import (
	"math/rand"
	"testing"
)

func TestPlace(t *testing.T) {
	b := NewBoard()

	if !b.Place(0, 0, MarkX) {
		t.Fatal("Place on an empty cell should succeed")
	}
	if b[0][0] != MarkX {
		t.Errorf("Expected X at (0,0), got %q", b[0][0])
	}

	if b.Place(0, 0, MarkO) {
		t.Error("Place on a taken cell should fail")
	}
	if b[0][0] != MarkX {
		t.Error("Failed Place must leave the board unchanged")
	}

	if b.Place(3, 0, MarkX) || b.Place(0, -1, MarkX) {
		t.Error("Place out of range should fail")
	}
}

func TestEvaluate_EmptyBoardOngoing(t *testing.T) {
	if got := Evaluate(NewBoard()); got != RawNone {
		t.Errorf("Expected RawNone for empty board, got %v", got)
	}
}

func TestEvaluate_AllWinningLines(t *testing.T) {
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

	for _, mark := range []Mark{MarkX, MarkO} {
		want := RawXWins
		if mark == MarkO {
			want = RawOWins
		}
		for li, line := range lines {
			b := NewBoard()
			for _, cell := range line {
				b[cell[0]][cell[1]] = mark
			}
			if got := Evaluate(b); got != want {
				t.Errorf("Line %d with %q: expected %v, got %v", li, mark, want, got)
			}
		}
	}
}

func TestEvaluate_Draw(t *testing.T) {
	// X O X / X O O / O X X has no completed line
	b := Board{
		{MarkX, MarkO, MarkX},
		{MarkX, MarkO, MarkO},
		{MarkO, MarkX, MarkX},
	}
	if got := Evaluate(b); got != RawDraw {
		t.Errorf("Expected RawDraw, got %v", got)
	}
}

func transpose(b Board) Board {
	var tb Board
	for i := range b {
		for j := range b[i] {
			tb[j][i] = b[i][j]
		}
	}
	return tb
}

// randomPlayedBoard produces a board reachable under legal alternating
// play, stopped at a random point or at the first completed line.
func randomPlayedBoard(r *rand.Rand) Board {
	b := NewBoard()
	mark := MarkX
	moves := r.Intn(10)
	for m := 0; m < moves; m++ {
		if Evaluate(b) != RawNone {
			return b
		}
		var empties [][2]int
		for i := range b {
			for j := range b[i] {
				if b[i][j] == Empty {
					empties = append(empties, [2]int{i, j})
				}
			}
		}
		if len(empties) == 0 {
			return b
		}
		cell := empties[r.Intn(len(empties))]
		b.Place(cell[0], cell[1], mark)
		if mark == MarkX {
			mark = MarkO
		} else {
			mark = MarkX
		}
	}
	return b
}

func TestEvaluate_TransposeSymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for n := 0; n < 2000; n++ {
		b := randomPlayedBoard(r)
		got := Evaluate(b)
		tgot := Evaluate(transpose(b))
		if got != tgot {
			t.Fatalf("Evaluate disagrees under transpose: %v vs %v for board %v", got, tgot, b)
		}
	}
}

func TestFullRound_TerminatesWithinNineMoves(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for n := 0; n < 500; n++ {
		b := NewBoard()
		mark := MarkX
		plays := 0
		for Evaluate(b) == RawNone {
			var empties [][2]int
			for i := range b {
				for j := range b[i] {
					if b[i][j] == Empty {
						empties = append(empties, [2]int{i, j})
					}
				}
			}
			if len(empties) == 0 {
				t.Fatal("Board full but Evaluate still reports ongoing")
			}
			cell := empties[r.Intn(len(empties))]
			b.Place(cell[0], cell[1], mark)
			if mark == MarkX {
				mark = MarkO
			} else {
				mark = MarkX
			}
			plays++
			if plays > 9 {
				t.Fatal("Round did not terminate within 9 plays")
			}
		}
		if got := Evaluate(b); got == RawNone {
			t.Fatal("Terminated round must have a result")
		}
	}
}

func TestSeatResult(t *testing.T) {
	cases := []struct {
		raw     RawResult
		xPlayer int
		want    EndValue
	}{
		{RawXWins, 0, EndSeatA},
		{RawOWins, 0, EndSeatB},
		{RawXWins, 1, EndSeatB},
		{RawOWins, 1, EndSeatA},
		{RawDraw, 0, EndDraw},
		{RawDraw, 1, EndDraw},
		{RawNone, 0, EndNone},
		{RawNone, 1, EndNone},
	}
	for _, c := range cases {
		if got := SeatResult(c.raw, c.xPlayer); got != c.want {
			t.Errorf("SeatResult(%v, %d): expected %v, got %v", c.raw, c.xPlayer, c.want, got)
		}
	}
}
