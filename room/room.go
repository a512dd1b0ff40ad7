// room/room.go
package room

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/wfunc/tictacgoal/game"
	"github.com/wfunc/tictacgoal/logger"
	"github.com/wfunc/tictacgoal/models"
	"github.com/wfunc/tictacgoal/network"
	"github.com/wfunc/tictacgoal/session"
)

// Prefix namespaces game rooms in the registry key space.
const Prefix = "room-"

var seatLabels = [2]string{"A", "B"}

// Names are cut down to printable ASCII before they touch room state.
var unprintable = regexp.MustCompile(`[^\x20-\x7e]+`)

// Room 是游戏房间的核心结构. All indices are seat numbers (player A or
// B), never X/O; the mark a seat plays changes every round.
type Room struct {
	ID string // registry key, carries the Prefix

	players  [2]string // session ids of seated players, "" when open
	names    [2]string
	scores   [2]int
	round    game.Round
	watchers map[string]*session.Session // everyone in the room, seated or not
	msgs     []models.LogEntry

	broadcaster Broadcaster
	manager     *Manager // nil for rooms built outside a registry
	CreatedAt   time.Time
	mutex       sync.Mutex
}

// NewRoom 创建一个新房间 with open seats, zero scores and a fresh
// random round.
func NewRoom(id string, broadcaster Broadcaster) *Room {
	return &Room{
		ID:          id,
		round:       game.NewRound(-1),
		watchers:    make(map[string]*session.Session),
		broadcaster: broadcaster,
		CreatedAt:   time.Now(),
	}
}

// Announce appends a log entry and broadcasts the new state.
func (r *Room) Announce(text string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.addMsgLocked(text)
	r.broadcastLocked()
}

// AddWatcher registers a connection as present in the room. A
// deletion timer that got armed between the registry lookup and this
// call is disarmed here, under the room mutex, so an occupied room can
// never stay scheduled for deletion.
func (r *Room) AddWatcher(sess *session.Session) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.watchers[sess.ID] = sess
	if r.manager != nil && r.manager.cancelPending(r.ID) {
		logger.Log.Infof("Deletion of room %s cancelled", r.ID)
		r.addMsgLocked("Room deletion cancelled")
	}
	r.addMsgLocked(fmt.Sprintf("- %d in room", len(r.watchers)))
	r.broadcastLocked()
}

// scheduleDeletion arms the grace timer, re-checking emptiness under
// the room mutex: a join that raced the disconnect wins and the timer
// is never armed.
func (r *Room) scheduleDeletion() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.watchers) > 0 || r.manager == nil {
		return
	}
	if !r.manager.armPending(r.ID) {
		return
	}
	grace := r.manager.grace
	logger.Log.Infof("Room %s is empty, deleting in %s", r.ID, grace)
	r.addMsgLocked(fmt.Sprintf("Room is empty :( and will be deleted in %s", grace))
	r.broadcastLocked()
}

// RemoveWatcher drives the disconnect transition: a seated connection
// vacates its seat, then the watcher count drops. It returns the
// number of connections left so the caller can arm room deletion at
// zero.
func (r *Room) RemoveWatcher(sess *session.Session) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if idx := r.seatOfLocked(sess.ID); idx != -1 {
		name := r.names[idx]
		r.players[idx] = ""
		r.names[idx] = ""
		r.addMsgLocked(name + " disconnected, leaving a player slot open")
		r.broadcastLocked()
	}

	delete(r.watchers, sess.ID)
	r.addMsgLocked(fmt.Sprintf("- %d in room", len(r.watchers)))
	r.broadcastLocked()
	return len(r.watchers)
}

// Seat fills the first open seat (A before B) for the connection.
// Rejections are silent: already seated, empty sanitized name, or no
// open seat.
func (r *Room) Seat(sess *session.Session, name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	name = unprintable.ReplaceAllString(name, "")
	if name == "" {
		return
	}
	if r.seatOfLocked(sess.ID) != -1 {
		return
	}

	idx := -1
	for i := range r.players {
		if r.players[i] == "" {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	r.players[idx] = sess.ID
	r.names[idx] = name
	r.addMsgLocked(name + " sat down as Player " + seatLabels[idx])
	r.broadcastLocked()
	r.sendPrivateLocked(sess)
}

// Play applies a move by the connection at (i, j). Rejections are
// silent and leave no trace: open seat, spectator, wrong turn, round
// over, out-of-range or taken cell.
func (r *Room) Play(sess *session.Session, i, j int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.players[0] == "" || r.players[1] == "" {
		return
	}
	idx := r.seatOfLocked(sess.ID)
	if idx == -1 || idx != r.round.Turn {
		return
	}
	if r.round.End != game.EndNone {
		return
	}

	mark := r.round.MarkFor(idx)
	if !r.round.Board.Place(i, j, mark) {
		return
	}
	r.round.Turn = 1 - r.round.Turn
	r.addMsgLocked(fmt.Sprintf("%s made a move as %c: (%d, %d)", r.names[idx], mark, i, j))

	end := game.SeatResult(game.Evaluate(r.round.Board), r.round.XPlayer)
	r.round.End = end
	if end != game.EndNone {
		r.round.Turn = -1
		if end == game.EndDraw {
			r.addMsgLocked("Round ended as a draw")
		} else {
			r.addMsgLocked("Round ended as a win for " + r.names[end])
		}
		for x := 0; x < 2; x++ {
			r.addMsgLocked(fmt.Sprintf("%s was playing to %s", r.names[x], game.GoalDescription(r.round.Goals[x], x)))
		}
		for x := 0; x < 2; x++ {
			if r.round.Goals[x] == end {
				r.scores[x]++
				r.addMsgLocked(r.names[x] + " got a point")
			}
		}
	}

	r.broadcastLocked()
}

// Next starts a new round once the current one has ended. Seats,
// names and scores carry over; X flips to the other seat and both
// goals are redrawn. Each seated player gets a fresh private view, so
// goals never cross seats.
func (r *Room) Next(sess *session.Session) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.players[0] == "" || r.players[1] == "" {
		return
	}
	if r.round.End == game.EndNone {
		return
	}

	r.round = game.NewRound(r.round.XPlayer)

	for x := 0; x < 2; x++ {
		if seated, ok := r.watchers[r.players[x]]; ok {
			r.sendPrivateLocked(seated)
		}
	}
	r.addMsgLocked("=== New round set up")
	r.broadcastLocked()
}

// SendPrivateInfo pushes the connection's seat and hidden goal to it
// alone. Called on join; seat and next refresh it internally.
func (r *Room) SendPrivateInfo(sess *session.Session) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sendPrivateLocked(sess)
}

// Stats is a read-only summary for the admin RPC surface.
type Stats struct {
	ID        string
	Names     [2]string
	Scores    [2]int
	Watchers  int
	CreatedAt time.Time
}

func (r *Room) GetStats() Stats {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return Stats{
		ID:        r.ID,
		Names:     r.names,
		Scores:    r.scores,
		Watchers:  len(r.watchers),
		CreatedAt: r.CreatedAt,
	}
}

func (r *Room) seatOfLocked(sessionID string) int {
	for i, p := range r.players {
		if p != "" && p == sessionID {
			return i
		}
	}
	return -1
}

func (r *Room) addMsgLocked(text string) {
	r.msgs = append(r.msgs, models.LogEntry{
		Ts:   time.Now().UnixMilli(),
		Text: text,
	})
}

// broadcastLocked snapshots and fans out under the room mutex, which
// is what guarantees every watcher observes broadcasts in command
// order.
func (r *Room) broadcastLocked() {
	data, _ := json.Marshal(r.snapshotLocked())

	sessions := make([]*session.Session, 0, len(r.watchers))
	for _, s := range r.watchers {
		sessions = append(sessions, s)
	}
	r.broadcaster.Broadcast(sessions, network.MsgTypePublicState, data)
}

func (r *Room) sendPrivateLocked(sess *session.Session) {
	info := models.PrivateInfo{Seat: r.seatOfLocked(sess.ID)}
	if info.Seat != -1 {
		info.Goal = game.GoalDescription(r.round.Goals[info.Seat], info.Seat)
	}
	data, _ := json.Marshal(info)
	r.broadcaster.SendTo(sess, network.MsgTypePrivateInfo, data)
}

// snapshotLocked builds the public view: goals and session ids never
// appear in it.
func (r *Room) snapshotLocked() models.PublicState {
	pub := models.PublicState{
		Scores:   r.scores,
		Watchers: len(r.watchers),
		Msgs:     append([]models.LogEntry(nil), r.msgs...),
		XPlayer:  r.round.XPlayer,
	}
	for i := range r.names {
		if r.players[i] != "" {
			name := r.names[i]
			pub.Names[i] = &name
		}
	}
	for i := range r.round.Board {
		for j := range r.round.Board[i] {
			pub.Board[i][j] = r.round.Board[i][j].String()
		}
	}
	if r.round.Turn != -1 && r.players[0] != "" && r.players[1] != "" {
		turn := r.round.Turn
		pub.Turn = &turn
	}
	if r.round.End != game.EndNone {
		end := int(r.round.End)
		pub.End = &end
	}
	return pub
}
