// game/round.go
package game

import (
	"math/rand"
)

// Round holds the fields that reset on every new round. Seats, names
// and scores live with the room and survive round resets.
type Round struct {
	Board   Board
	XPlayer int      // seat index playing X this round
	Turn    int      // seat index to move, -1 once the round ended
	End     EndValue // EndNone while the round is ongoing
	Goals   [2]EndValue
}

// NewRound builds a fresh round. prevXPlayer is the previous round's
// X seat and flips to the other seat; pass -1 on room creation for a
// random assignment. Goals are drawn in end space, so a seat may be
// playing for the other seat's win.
func NewRound(prevXPlayer int) Round {
	xp := rand.Intn(2)
	if prevXPlayer >= 0 {
		xp = 1 - prevXPlayer
	}
	r := Round{
		Board:   NewBoard(),
		XPlayer: xp,
		Turn:    xp,
		End:     EndNone,
	}
	r.Goals[0] = EndValue(rand.Intn(3))
	r.Goals[1] = EndValue(rand.Intn(3))
	return r
}

// MarkFor returns the mark the given seat plays this round.
func (r *Round) MarkFor(seat int) Mark {
	if seat == r.XPlayer {
		return MarkX
	}
	return MarkO
}

// GoalDescription renders a seat's end-space goal as that seat's own
// objective: chasing your own seat is a win, the opponent's a loss.
func GoalDescription(goal EndValue, seat int) string {
	switch {
	case goal == EndDraw:
		return "draw"
	case int(goal) == seat:
		return "win"
	default:
		return "lose"
	}
}
