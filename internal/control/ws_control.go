package control

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/frudas24/padtouch/internal/session"
	"github.com/gorilla/websocket"
)

// Server handles websocket control input.
type Server struct {
	mu         sync.Mutex
	upgrader   websocket.Upgrader
	session    *session.Session
	controller *Controller
	conn       *websocket.Conn
}

// NewServer creates a control websocket server.
func NewServer(sess *session.Session, controller *Controller) *Server {
	return &Server{
		session:    sess,
		controller: controller,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.acceptConn(conn)
	defer s.cleanupConn(conn)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if err := s.controller.HandleMessage(msg); err != nil {
			if errors.Is(err, ErrNoSurface) {
				continue
			}
			log.Printf("control: %s: %v", msg.T, err)
		}
	}
}

// acceptConn installs conn as the active control connection. A previous
// connection is closed and its fingers are lifted before conn takes over.
func (s *Server) acceptConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old := s.conn; old != nil {
		log.Printf("control: replacing active connection from %s", old.RemoteAddr())
		_ = old.Close()
		s.controller.Release()
	}
	s.conn = conn
}

// cleanupConn closes conn and, if it is still the active connection,
// clears it and lifts its fingers.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	active := s.conn == conn
	if active {
		s.conn = nil
	}
	s.mu.Unlock()
	_ = conn.Close()
	if active {
		s.controller.Release()
	}
}
