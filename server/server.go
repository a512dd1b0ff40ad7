package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/rpc"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/tictacgoal/broadcast"
	"github.com/wfunc/tictacgoal/config"
	"github.com/wfunc/tictacgoal/logger"
	"github.com/wfunc/tictacgoal/models"
	"github.com/wfunc/tictacgoal/monitor"
	"github.com/wfunc/tictacgoal/network"
	"github.com/wfunc/tictacgoal/room"
	adminrpc "github.com/wfunc/tictacgoal/rpc"
	"github.com/wfunc/tictacgoal/session"
)

// Room tokens are validated here, before they ever reach the
// registry.
var roomTokenPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

type GameServer struct {
	addr           string
	staticDir      string
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	broadcaster    room.Broadcaster
	monitor        *monitor.Monitor
	rpcServer      *adminrpc.Server
	httpServer     *http.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           cfg.Server.HTTPAddress,
		staticDir:      cfg.Server.StaticDir,
		roomManager:    room.NewManager(cfg.Room.GracePeriod),
		sessionManager: session.NewManager(),
		monitor:        mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.broadcaster = broadcast.NewRoomBroadcaster(mon)
	if mon != nil {
		s.roomManager.SetRoomCountHook(mon.SetActiveRooms)
	}

	rpcServer, err := adminrpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer
	rpc.Register(adminrpc.NewAdminService(s.roomManager))

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/", s.handleStatic)

	s.httpServer = &http.Server{Addr: s.addr, Handler: mux}
	logger.Log.Infof("Game server listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
	s.roomManager.Stop()
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

// handleStatic serves the asset directory with an index.html fallback
// so room links deep-link into the shell.
func (s *GameServer) handleStatic(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.staticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.staticDir, "index.html"))
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.runSession(sess)
}

// runSession is the per-connection read loop. Malformed frames are
// dropped and the loop keeps reading; only transport errors (or
// shutdown) end the session.
func (s *GameServer) runSession(sess *session.Session) {
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncConnectedClients()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", sess.Conn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", sess.Conn.RemoteAddr(), sess.GetID())
		s.handleDisconnect(sess)
		s.sessionManager.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecConnectedClients()
		}
		sess.Conn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := sess.Conn.ReadPacket()
			if err != nil {
				if errors.Is(err, network.ErrMalformedFrame) {
					logger.Log.Infof("Dropping malformed frame from session %s: %v", sess.GetID(), err)
					continue
				}
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

// handlePacket is the per-connection command router. Every rejection
// here is silent: no state change, no reply.
func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	start := time.Now()
	if s.monitor != nil {
		s.monitor.IncCommandsReceived()
		defer func() {
			s.monitor.ObserveCommandLatency(time.Since(start))
		}()
	}

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeJoin:
		s.handleJoin(sess, packet)
	case network.MsgTypeSeat:
		s.handleSeat(sess, packet)
	case network.MsgTypePlay:
		s.handlePlay(sess, packet)
	case network.MsgTypeNext:
		s.handleNext(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleJoin(sess *session.Session, packet *network.Packet) {
	var req models.JoinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if !roomTokenPattern.MatchString(req.Room) {
		return
	}
	if sess.RoomID != "" {
		// one room per connection
		return
	}

	roomID := room.Prefix + req.Room
	r := s.roomManager.CreateOrResume(roomID, s.broadcaster)
	sess.RoomID = roomID
	r.AddWatcher(sess)
	r.SendPrivateInfo(sess)

	logger.Log.Infof("Session %s joined room %s", sess.GetID(), roomID)
}

func (s *GameServer) handleSeat(sess *session.Session, packet *network.Packet) {
	var req models.SeatRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if r, ok := s.currentRoom(sess); ok {
		r.Seat(sess, req.Name)
	}
}

func (s *GameServer) handlePlay(sess *session.Session, packet *network.Packet) {
	var req models.PlayRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}
	if r, ok := s.currentRoom(sess); ok {
		r.Play(sess, req.I, req.J)
	}
}

func (s *GameServer) handleNext(sess *session.Session, packet *network.Packet) {
	if r, ok := s.currentRoom(sess); ok {
		r.Next(sess)
	}
}

// handleDisconnect drives the disconnect transition for a session
// that was in a room, and arms deletion when the room empties out.
func (s *GameServer) handleDisconnect(sess *session.Session) {
	r, ok := s.currentRoom(sess)
	if !ok {
		return
	}
	if remaining := r.RemoveWatcher(sess); remaining == 0 {
		s.roomManager.ScheduleDeletion(sess.RoomID)
	}
	sess.RoomID = ""
}

// currentRoom resolves the session's room. A session that never
// joined, or whose room was deleted underneath it, gets nothing.
func (s *GameServer) currentRoom(sess *session.Session) (*room.Room, bool) {
	if sess.RoomID == "" {
		return nil, false
	}
	return s.roomManager.Get(sess.RoomID)
}
