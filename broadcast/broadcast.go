// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/tictacgoal/logger"
	"github.com/wfunc/tictacgoal/monitor"
	"github.com/wfunc/tictacgoal/session"
)

// RoomBroadcaster delivers snapshots and private messages. Send
// failures are logged and skipped; the read loop tears the dead
// connection down on its own.
type RoomBroadcaster struct {
	monitor *monitor.Monitor
}

func NewRoomBroadcaster(mon *monitor.Monitor) *RoomBroadcaster {
	return &RoomBroadcaster{monitor: mon}
}

// Broadcast sends one payload to every session in the list.
func (b *RoomBroadcaster) Broadcast(sessions []*session.Session, msgID uint16, data []byte) {
	for _, s := range sessions {
		if err := s.Send(msgID, data); err != nil {
			logger.Log.Warnf("Broadcast to session %s failed: %v", s.GetID(), err)
			continue
		}
		if b.monitor != nil {
			b.monitor.IncMessagesSent()
		}
	}
}

// SendTo sends one payload to a single session.
func (b *RoomBroadcaster) SendTo(sess *session.Session, msgID uint16, data []byte) {
	if err := sess.Send(msgID, data); err != nil {
		logger.Log.Warnf("Send to session %s failed: %v", sess.GetID(), err)
		return
	}
	if b.monitor != nil {
		b.monitor.IncMessagesSent()
	}
}
