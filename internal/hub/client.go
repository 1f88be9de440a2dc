package hub

import (
	"encoding/json"
	"log"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// PlayerSwitcher moves the touch controller to another player port.
type PlayerSwitcher interface {
	SetPlayer(idx int)
}

// Client represents a connected WebSocket client.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	playerIndex atomic.Int64
}

// NewClient creates a new Client attached to the hub, listening to player 0.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// SetPlayerIndex sets the player port this client listens to.
func (c *Client) SetPlayerIndex(index int) {
	c.playerIndex.Store(int64(index))
}

// PlayerIndex returns the player port this client listens to.
func (c *Client) PlayerIndex() int {
	return int(c.playerIndex.Load())
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// ReadPump reads client commands until the connection closes.
func (c *Client) ReadPump(b *Broadcaster, switcher PlayerSwitcher, maxPlayers int) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("hub: parse client message: %v", err)
			continue
		}
		c.handle(msg, b, switcher, maxPlayers)
	}
}

// handle applies one client command.
func (c *Client) handle(msg ClientMessage, b *Broadcaster, switcher PlayerSwitcher, maxPlayers int) {
	switch msg.Type {
	case TypeSelectPlayer:
		if msg.PlayerIndex < 0 || msg.PlayerIndex >= maxPlayers {
			log.Printf("hub: invalid player %d", msg.PlayerIndex)
			return
		}
		c.SetPlayerIndex(msg.PlayerIndex)
		if switcher != nil {
			switcher.SetPlayer(msg.PlayerIndex)
		}
		data, err := json.Marshal(NewPlayerSelectedMessage(msg.PlayerIndex))
		if err != nil {
			return
		}
		c.hub.SendTo(c, data)
		if b != nil {
			b.SendInitialState(c)
		}
	}
}
