package webrtc

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v3"
)

// ControlLabel is the data channel label carrying control messages.
const ControlLabel = "control"

// MessageHandler consumes control messages received from a peer.
type MessageHandler interface {
	HandleRaw(data []byte) error
	Release()
}

// Endpoint owns the single peer connection whose data channel feeds the
// controller. A new peer replaces the previous one.
type Endpoint struct {
	mu      sync.Mutex
	api     *webrtc.API
	handler MessageHandler
	peer    *webrtc.PeerConnection
}

// NewEndpoint initializes the WebRTC API with default codecs/interceptors.
func NewEndpoint(handler MessageHandler) (*Endpoint, error) {
	if handler == nil {
		return nil, errors.New("webrtc: handler is required")
	}
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
	)
	return &Endpoint{api: api, handler: handler}, nil
}

// NewPeer creates a peer that dispatches control channel messages to the
// handler. Any previous peer is closed and its held input released.
func (e *Endpoint) NewPeer() (*webrtc.PeerConnection, error) {
	peer, err := e.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		e.attach(peer, dc)
	})
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		switch state {
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed, webrtc.PeerConnectionStateDisconnected:
			e.releaseIfCurrent(peer)
		}
	})

	e.mu.Lock()
	old := e.peer
	e.peer = peer
	e.mu.Unlock()
	if old != nil {
		_ = old.Close()
		e.handler.Release()
	}
	return peer, nil
}

// releaseIfCurrent lifts held input only while peer is the active one.
func (e *Endpoint) releaseIfCurrent(peer *webrtc.PeerConnection) {
	e.mu.Lock()
	current := e.peer == peer
	e.mu.Unlock()
	if current {
		e.handler.Release()
	}
}

// attach wires a remote data channel to the handler.
func (e *Endpoint) attach(peer *webrtc.PeerConnection, dc *webrtc.DataChannel) {
	if dc.Label() != ControlLabel {
		log.Printf("webrtc: ignoring data channel %q", dc.Label())
		return
	}
	dc.OnOpen(func() {
		log.Printf("webrtc: control channel open (ordered=%v)", dc.Ordered())
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		if debugDataEnabled() {
			log.Printf("webrtc: recv %s", msg.Data)
		}
		if !msg.IsString {
			return
		}
		if err := e.handler.HandleRaw(msg.Data); err != nil && debugDataEnabled() {
			log.Printf("webrtc: handle: %v", err)
		}
	})
	dc.OnClose(func() {
		e.releaseIfCurrent(peer)
	})
}

// ClosePeer closes the current peer connection and releases its input.
func (e *Endpoint) ClosePeer() {
	e.mu.Lock()
	old := e.peer
	e.peer = nil
	e.mu.Unlock()
	if old != nil {
		_ = old.Close()
		e.handler.Release()
	}
}
