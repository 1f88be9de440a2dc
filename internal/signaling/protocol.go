// Package signaling negotiates the WebRTC control data channel over WebSocket.
package signaling

import "github.com/pion/webrtc/v3"

// Signaling message types.
const (
	TypeHello  = "hello"
	TypeOffer  = "offer"
	TypeAnswer = "answer"
	TypeICE    = "ice"
	TypeBye    = "bye"
	TypeError  = "error"
)

// Message is a websocket signaling payload.
//
// The server opens with hello naming the data channel label the client must
// create; the client then offers and the server answers with gathered
// candidates. Trickled candidates are accepted both ways.
type Message struct {
	T         string                   `json:"t"`
	SDP       string                   `json:"sdp,omitempty"`
	Candidate *webrtc.ICECandidateInit `json:"candidate,omitempty"`
	Label     string                   `json:"label,omitempty"`
	Error     string                   `json:"error,omitempty"`
}
