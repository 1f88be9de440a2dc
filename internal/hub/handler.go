package hub

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server upgrades state feed connections and attaches them to a hub.
type Server struct {
	hub         *Hub
	broadcaster *Broadcaster
	switcher    PlayerSwitcher
	maxPlayers  int
	authorize   func() bool
	upgrader    websocket.Upgrader
}

// NewServer returns the /ws/state handler. authorize may be nil to allow
// every client; switcher may be nil to make player selection listen-only.
func NewServer(h *Hub, b *Broadcaster, switcher PlayerSwitcher, maxPlayers int, authorize func() bool) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		switcher:    switcher,
		maxPlayers:  maxPlayers,
		authorize:   authorize,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.authorize != nil && !s.authorize() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s.hub, conn)
	s.hub.Register(client)
	s.broadcaster.SendInitialState(client)

	go client.WritePump()
	go client.ReadPump(s.broadcaster, s.switcher, s.maxPlayers)
}
