// Package control turns touch client messages into mapper frames.
package control

// Message is a control websocket payload. Pointer coordinates are
// normalized to [0..1] over the client surface.
type Message struct {
	T       string  `json:"t"`
	ID      int     `json:"id,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	W       int     `json:"w,omitempty"`
	H       int     `json:"h,omitempty"`
	Name    string  `json:"name,omitempty"`
	Idx     int     `json:"idx,omitempty"`
	Value   int     `json:"value,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

// Message types understood by the controller.
const (
	MsgDown         = "down"
	MsgMove         = "move"
	MsgUp           = "up"
	MsgCancel       = "cancel"
	MsgResize       = "resize"
	MsgSkin         = "skin"
	MsgOctagon      = "octagon"
	MsgPlayer       = "player"
	MsgFPS          = "fps"
	MsgShowFPS      = "showFps"
	MsgInputEnabled = "inputEnabled"
)
