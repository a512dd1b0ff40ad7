package room

import "github.com/wfunc/tictacgoal/session"

// Broadcaster defines the interface for delivering messages to
// sessions. It is defined here to break the import cycle between room
// and broadcast. Fan-out takes an explicit session list so a room can
// broadcast while holding its own mutex, which is what keeps
// per-room broadcast order equal to command order.
type Broadcaster interface {
	Broadcast(sessions []*session.Session, msgID uint16, data []byte)
	SendTo(sess *session.Session, msgID uint16, data []byte)
}
