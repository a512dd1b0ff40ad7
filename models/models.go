// models/models.go
package models

// LogEntry is one line of a room's message log.
type LogEntry struct {
	Ts   int64  `json:"ts"` // unix milliseconds
	Text string `json:"text"`
}

// PublicState is the room snapshot broadcast to every connection in the
// room. It never carries goals or raw session ids.
type PublicState struct {
	Names    [2]*string    `json:"names"`
	Scores   [2]int        `json:"scores"`
	Watchers int           `json:"watchers"`
	Msgs     []LogEntry    `json:"msgs"`
	Board    [3][3]string  `json:"board"`
	XPlayer  int           `json:"xplayer"`
	Turn     *int          `json:"turn"` // seat index, null once the round ended
	End      *int          `json:"end"`  // 0/1 seat winner, 2 draw, null while ongoing
}

// PrivateInfo is sent only to the originating connection.
type PrivateInfo struct {
	Goal string `json:"goal"` // "win", "lose", "draw", or "" for spectators
	Seat int    `json:"seat"` // 0/1, or -1 for spectators
}

// JoinRequest carries the 8-character lowercase-hex room token.
type JoinRequest struct {
	Room string `json:"room"`
}

type SeatRequest struct {
	Name string `json:"name"`
}

type PlayRequest struct {
	I int `json:"i"`
	J int `json:"j"`
}
