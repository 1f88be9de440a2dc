package webrtc

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pion/webrtc/v3"
)

// recordingHandler captures control messages.
type recordingHandler struct {
	msgs     chan string
	releases atomic.Int32
}

// HandleRaw records one message.
func (h *recordingHandler) HandleRaw(data []byte) error {
	h.msgs <- string(data)
	return nil
}

// Release counts release calls.
func (h *recordingHandler) Release() {
	h.releases.Add(1)
}

// negotiate connects a local offerer to the endpoint's answering peer.
func negotiate(t *testing.T, answerer *webrtc.PeerConnection, label string) (*webrtc.PeerConnection, *webrtc.DataChannel) {
	t.Helper()
	offerer, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("offerer: %v", err)
	}
	t.Cleanup(func() { _ = offerer.Close() })

	dc, err := offerer.CreateDataChannel(label, nil)
	if err != nil {
		t.Fatalf("data channel: %v", err)
	}
	offer, err := offerer.CreateOffer(nil)
	if err != nil {
		t.Fatalf("offer: %v", err)
	}
	offerGathered := webrtc.GatheringCompletePromise(offerer)
	if err := offerer.SetLocalDescription(offer); err != nil {
		t.Fatalf("set local offer: %v", err)
	}
	<-offerGathered

	if err := answerer.SetRemoteDescription(*offerer.LocalDescription()); err != nil {
		t.Fatalf("set remote offer: %v", err)
	}
	answer, err := answerer.CreateAnswer(nil)
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	answerGathered := webrtc.GatheringCompletePromise(answerer)
	if err := answerer.SetLocalDescription(answer); err != nil {
		t.Fatalf("set local answer: %v", err)
	}
	<-answerGathered
	if err := offerer.SetRemoteDescription(*answerer.LocalDescription()); err != nil {
		t.Fatalf("set remote answer: %v", err)
	}
	return offerer, dc
}

// TestNewEndpoint_RequiresHandler verifies a nil handler is rejected.
func TestNewEndpoint_RequiresHandler(t *testing.T) {
	if _, err := NewEndpoint(nil); err == nil {
		t.Fatalf("expected error for nil handler")
	}
}

// TestEndpoint_DeliversControlMessages verifies text messages reach the handler.
func TestEndpoint_DeliversControlMessages(t *testing.T) {
	h := &recordingHandler{msgs: make(chan string, 4)}
	ep, err := NewEndpoint(h)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	t.Cleanup(ep.ClosePeer)
	peer, err := ep.NewPeer()
	if err != nil {
		t.Fatalf("new peer: %v", err)
	}
	_, dc := negotiate(t, peer, ControlLabel)

	const payload = `{"t":"down","id":1,"x":0.5,"y":0.5}`
	dc.OnOpen(func() {
		_ = dc.SendText(payload)
	})

	select {
	case got := <-h.msgs:
		if got != payload {
			t.Fatalf("expected %s, got %s", payload, got)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out waiting for control message")
	}
}

// TestEndpoint_NewPeerReplaces verifies a second peer closes the first.
func TestEndpoint_NewPeerReplaces(t *testing.T) {
	h := &recordingHandler{msgs: make(chan string, 1)}
	ep, err := NewEndpoint(h)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	first, err := ep.NewPeer()
	if err != nil {
		t.Fatalf("first peer: %v", err)
	}
	second, err := ep.NewPeer()
	if err != nil {
		t.Fatalf("second peer: %v", err)
	}
	defer ep.ClosePeer()
	if first.ConnectionState() != webrtc.PeerConnectionStateClosed {
		t.Fatalf("expected first peer closed, got %s", first.ConnectionState())
	}
	if second.ConnectionState() == webrtc.PeerConnectionStateClosed {
		t.Fatalf("expected second peer open")
	}
}

// TestEndpoint_ReplacedPeerKeepsNewInput verifies a replaced peer's teardown
// releases input once and its late close callbacks leave the new peer alone.
func TestEndpoint_ReplacedPeerKeepsNewInput(t *testing.T) {
	h := &recordingHandler{msgs: make(chan string, 1)}
	ep, err := NewEndpoint(h)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if _, err := ep.NewPeer(); err != nil {
		t.Fatalf("first peer: %v", err)
	}
	if _, err := ep.NewPeer(); err != nil {
		t.Fatalf("second peer: %v", err)
	}
	time.Sleep(200 * time.Millisecond)
	if got := h.releases.Load(); got != 1 {
		t.Fatalf("expected 1 release after replacement, got %d", got)
	}

	ep.ClosePeer()
	time.Sleep(200 * time.Millisecond)
	if got := h.releases.Load(); got != 2 {
		t.Fatalf("expected 2 releases after close, got %d", got)
	}
}

// TestSetDebugLogging verifies the debug toggle.
func TestSetDebugLogging(t *testing.T) {
	SetDebugLogging(true)
	if !debugDataEnabled() {
		t.Fatalf("expected debug enabled")
	}
	SetDebugLogging(false)
	if debugDataEnabled() {
		t.Fatalf("expected debug disabled")
	}
}
