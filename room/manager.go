// room/manager.go
package room

import (
	"strings"
	"sync"
	"time"

	"github.com/wfunc/tictacgoal/logger"
	"github.com/wfunc/tictacgoal/timer"
)

// Manager 管理所有房间. It owns the room map and the deletion policy:
// an empty room is reclaimed after the grace period unless a join
// cancels the pending deletion first. The pending map under the
// manager mutex is the single source of truth for which timers are
// armed, while emptiness is only ever decided under the room mutex —
// arming (Room.scheduleDeletion) and cancelling (Room.AddWatcher)
// both hold it, so a join can never slip between the zero-watcher
// check and the arm.
type Manager struct {
	rooms     map[string]*Room
	pending   map[string]int64 // room id -> armed deletion task id
	timers    *timer.Manager
	grace     time.Duration
	countHook func(int)
	mutex     sync.RWMutex
}

// NewManager creates a registry whose empty rooms live for grace
// before deletion.
func NewManager(grace time.Duration) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		pending: make(map[string]int64),
		timers:  timer.NewManager(),
		grace:   grace,
	}
}

// SetRoomCountHook registers fn to observe the live room count after
// every creation and deletion. fn runs under the registry mutex and
// must not call back into the registry.
func (m *Manager) SetRoomCountHook(fn func(int)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.countHook = fn
}

// CreateOrResume returns the room for id, creating it when absent. A
// pending deletion on an existing room is cancelled and announced.
func (m *Manager) CreateOrResume(id string, broadcaster Broadcaster) *Room {
	m.mutex.Lock()
	if r, exists := m.rooms[id]; exists {
		taskID, armed := m.pending[id]
		if armed {
			m.timers.Remove(taskID)
			delete(m.pending, id)
		}
		m.mutex.Unlock()
		if armed {
			logger.Log.Infof("Deletion of room %s cancelled", id)
			r.Announce("Room deletion cancelled")
		}
		return r
	}

	r := NewRoom(id, broadcaster)
	r.manager = m
	m.rooms[id] = r
	if m.countHook != nil {
		m.countHook(len(m.rooms))
	}
	m.mutex.Unlock()

	logger.Log.Infof("Room %s created", id)
	r.Announce("Room " + strings.TrimPrefix(id, Prefix) + " created")
	return r
}

// Get looks a room up without touching deletion state.
func (m *Manager) Get(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, exists := m.rooms[id]
	return r, exists
}

// ScheduleDeletion arms the grace timer for a room, provided it is
// still empty by the time the room mutex is held. Arming an unknown
// or already-armed room is a no-op.
func (m *Manager) ScheduleDeletion(id string) {
	m.mutex.RLock()
	r, exists := m.rooms[id]
	m.mutex.RUnlock()
	if !exists {
		return
	}
	r.scheduleDeletion()
}

// armPending records a deletion timer for id. Called with the room
// mutex held; takes only the registry mutex.
func (m *Manager) armPending(id string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.rooms[id]; !exists {
		return false
	}
	if _, armed := m.pending[id]; armed {
		return false
	}
	m.pending[id] = m.timers.Add(m.grace, 0, func() {
		m.expire(id)
	})
	return true
}

// cancelPending disarms a pending deletion, reporting whether one was
// armed. Called with the room mutex held; takes only the registry
// mutex.
func (m *Manager) cancelPending(id string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	taskID, armed := m.pending[id]
	if !armed {
		return false
	}
	m.timers.Remove(taskID)
	delete(m.pending, id)
	return true
}

// expire runs when a deletion timer fires. A join that raced the
// firing has already cleared the pending entry, which makes this a
// no-op; the next join then finds the room intact.
func (m *Manager) expire(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, armed := m.pending[id]; !armed {
		return
	}
	delete(m.pending, id)
	delete(m.rooms, id)
	if m.countHook != nil {
		m.countHook(len(m.rooms))
	}
	logger.Log.Infof("Room %s deleted", id)
}

// PendingDeletion reports whether a deletion timer is armed for id.
func (m *Manager) PendingDeletion(id string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	_, armed := m.pending[id]
	return armed
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// List returns the ids of all live rooms.
func (m *Manager) List() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	ids := make([]string, 0, len(m.rooms))
	for id := range m.rooms {
		ids = append(ids, id)
	}
	return ids
}

// Stop halts the deletion timer loop. Used on shutdown.
func (m *Manager) Stop() {
	m.timers.Stop()
}
