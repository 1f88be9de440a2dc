package hub

import "time"

// Message types sent to state clients.
const (
	TypeFull           = "full"
	TypeDelta          = "delta"
	TypePlayerSelected = "player_selected"
	TypeSelectPlayer   = "select_player"
)

// WSMessage represents a WebSocket message sent from server to client.
type WSMessage struct {
	Type        string           `json:"type"`
	Seq         int64            `json:"seq"`
	Timestamp   int64            `json:"timestamp"`
	Data        *ControllerState `json:"data,omitempty"`
	Changes     *DeltaChanges    `json:"changes,omitempty"`
	PlayerIndex int              `json:"playerIndex"`
}

// NewFullMessage creates a "full" message containing the complete state.
func NewFullMessage(seq int64, state *ControllerState) *WSMessage {
	return &WSMessage{
		Type:        TypeFull,
		Seq:         seq,
		Timestamp:   time.Now().UnixMilli(),
		Data:        state,
		PlayerIndex: state.Player,
	}
}

// NewDeltaMessage creates a "delta" message containing only changed fields.
func NewDeltaMessage(seq int64, player int, changes *DeltaChanges) *WSMessage {
	return &WSMessage{
		Type:        TypeDelta,
		Seq:         seq,
		Timestamp:   time.Now().UnixMilli(),
		Changes:     changes,
		PlayerIndex: player,
	}
}

// NewPlayerSelectedMessage creates a "player_selected" confirmation message.
func NewPlayerSelectedMessage(playerIndex int) *WSMessage {
	return &WSMessage{
		Type:        TypePlayerSelected,
		Timestamp:   time.Now().UnixMilli(),
		PlayerIndex: playerIndex,
	}
}

// ClientMessage represents a message sent from the client to the server.
type ClientMessage struct {
	Type        string `json:"type"`
	PlayerIndex int    `json:"playerIndex"`
}
