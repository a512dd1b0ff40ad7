package game

import (
	"testing"
)

func TestNewRound_FreshState(t *testing.T) {
	r := NewRound(-1)

	if r.End != EndNone {
		t.Errorf("Expected EndNone, got %v", r.End)
	}
	if r.XPlayer != 0 && r.XPlayer != 1 {
		t.Errorf("XPlayer must be a seat index, got %d", r.XPlayer)
	}
	if r.Turn != r.XPlayer {
		t.Errorf("X always moves first: turn %d, xplayer %d", r.Turn, r.XPlayer)
	}
	for seat, goal := range r.Goals {
		if goal < EndSeatA || goal > EndDraw {
			t.Errorf("Goal for seat %d out of range: %v", seat, goal)
		}
	}
	if r.Board != NewBoard() {
		t.Error("New round must start from an empty board")
	}
}

func TestNewRound_XPlayerAlternates(t *testing.T) {
	prev := NewRound(-1)
	for n := 0; n < 10; n++ {
		next := NewRound(prev.XPlayer)
		if next.XPlayer != 1-prev.XPlayer {
			t.Fatalf("Round %d: xplayer %d did not flip from %d", n, next.XPlayer, prev.XPlayer)
		}
		prev = next
	}
}

func TestMarkFor(t *testing.T) {
	r := Round{XPlayer: 1}
	if r.MarkFor(1) != MarkX {
		t.Error("xplayer seat must play X")
	}
	if r.MarkFor(0) != MarkO {
		t.Error("the other seat must play O")
	}
}

func TestGoalDescription(t *testing.T) {
	cases := []struct {
		goal EndValue
		seat int
		want string
	}{
		{EndSeatA, 0, "win"},
		{EndSeatB, 0, "lose"},
		{EndSeatA, 1, "lose"},
		{EndSeatB, 1, "win"},
		{EndDraw, 0, "draw"},
		{EndDraw, 1, "draw"},
	}
	for _, c := range cases {
		if got := GoalDescription(c.goal, c.seat); got != c.want {
			t.Errorf("GoalDescription(%v, %d): expected %q, got %q", c.goal, c.seat, c.want, got)
		}
	}
}
