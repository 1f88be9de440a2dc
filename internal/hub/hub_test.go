package hub

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/frudas24/padtouch/internal/skin"
	"github.com/gorilla/websocket"
)

// recvMessage reads one queued message for c.
func recvMessage(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatalf("expected a message")
	}
	return WSMessage{}
}

// TestComputeDelta verifies only changed fields are reported.
func TestComputeDelta(t *testing.T) {
	prev := ControllerState{Aux: []AuxKey{{Scancode: 30}}}
	next := prev
	next.Buttons[skin.A] = true
	next.Aux = []AuxKey{{Scancode: 30}}

	d := ComputeDelta(prev, next)
	if d.Buttons == nil || !d.Buttons[skin.A] {
		t.Fatalf("expected button change, got %+v", d)
	}
	if d.Axes != nil || d.Aux != nil {
		t.Fatalf("expected no axis or aux change, got %+v", d)
	}

	next.Axes = Axes{X: 80}
	next.Aux = []AuxKey{{Scancode: 30, Pressed: true}}
	d = ComputeDelta(prev, next)
	if d.Axes == nil || d.Axes.X != 80 || d.Aux == nil || !(*d.Aux)[0].Pressed {
		t.Fatalf("expected axis and aux change, got %+v", d)
	}
	if !ComputeDelta(next, next).IsEmpty() {
		t.Fatalf("expected empty delta for identical states")
	}
}

// TestButtonNames verifies names follow the canonical button order.
func TestButtonNames(t *testing.T) {
	names := ButtonNames()
	if len(names) != skin.NumButtons || names[skin.Right] != skin.Right.String() || names[skin.L] != skin.L.String() {
		t.Fatalf("unexpected names: %v", names)
	}
}

// TestBroadcaster_DeltaThenSkip verifies frames become deltas and repeats are dropped.
func TestBroadcaster_DeltaThenSkip(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil)
	h.Register(c)
	b := NewBroadcaster(h, time.Hour)

	var buttons [skin.NumButtons]bool
	buttons[skin.Start] = true
	b.SetControllerState(0, buttons, 10, -5)
	b.SetAuxiliaryButtons([]bool{true}, []int{30})
	b.flush()

	msg := recvMessage(t, c)
	if msg.Type != TypeDelta || msg.Seq != 1 || msg.Changes == nil {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if !msg.Changes.Buttons[skin.Start] || msg.Changes.Axes.X != 10 || msg.Changes.Axes.Y != -5 {
		t.Fatalf("unexpected changes: %+v", msg.Changes)
	}
	if msg.Changes.Aux == nil || len(*msg.Changes.Aux) != 1 || (*msg.Changes.Aux)[0].Scancode != 30 {
		t.Fatalf("unexpected aux changes: %+v", msg.Changes.Aux)
	}

	b.SetControllerState(0, buttons, 10, -5)
	b.SetAuxiliaryButtons([]bool{true}, []int{30})
	b.flush()
	if len(c.send) != 0 {
		t.Fatalf("expected no message for an unchanged frame")
	}
}

// TestBroadcaster_PlayerChangeSendsFull verifies a port change reaches that port's clients as a full state.
func TestBroadcaster_PlayerChangeSendsFull(t *testing.T) {
	h := NewHub()
	p0 := NewClient(h, nil)
	p1 := NewClient(h, nil)
	p1.SetPlayerIndex(1)
	h.Register(p0)
	h.Register(p1)
	b := NewBroadcaster(h, time.Hour)

	b.SetControllerState(1, [skin.NumButtons]bool{}, 0, 0)
	b.SetAuxiliaryButtons(nil, nil)
	b.flush()

	msg := recvMessage(t, p1)
	if msg.Type != TypeFull || msg.Data == nil || msg.Data.Player != 1 || msg.PlayerIndex != 1 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if len(p0.send) != 0 {
		t.Fatalf("expected player 0 client to receive nothing")
	}
}

// TestBroadcaster_RunCoalesces verifies the loop drains queued frames.
func TestBroadcaster_RunCoalesces(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil)
	h.Register(c)
	b := NewBroadcaster(h, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	var buttons [skin.NumButtons]bool
	buttons[skin.Z] = true
	b.SetControllerState(0, buttons, 0, 0)
	b.SetAuxiliaryButtons(nil, nil)

	msg := recvMessage(t, c)
	if msg.Type != TypeDelta || !msg.Changes.Buttons[skin.Z] {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestHub_UnregisterClosesSend verifies unregistering closes the queue once.
func TestHub_UnregisterClosesSend(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil)
	h.Register(c)
	h.Unregister(c)
	h.Unregister(c)
	if _, ok := <-c.send; ok {
		t.Fatalf("expected closed send queue")
	}
	if h.Count() != 0 {
		t.Fatalf("expected no clients, got %d", h.Count())
	}
	if h.SendTo(c, []byte("x")) {
		t.Fatalf("expected SendTo to skip an unregistered client")
	}
}

// TestHub_RunClosesClients verifies cancelling the hub disconnects clients and rejects new ones.
func TestHub_RunClosesClients(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil)
	h.Register(c)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	if _, ok := <-c.send; ok {
		t.Fatalf("expected closed send queue")
	}
	late := NewClient(h, nil)
	h.Register(late)
	if _, ok := <-late.send; ok {
		t.Fatalf("expected late client to be closed")
	}
}

// fakeSwitcher records player selections.
type fakeSwitcher struct {
	mu      sync.Mutex
	players []int
}

// SetPlayer records the selection.
func (f *fakeSwitcher) SetPlayer(idx int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.players = append(f.players, idx)
}

// TestServer_SelectPlayer verifies the websocket feed sends an initial state and confirms player selection.
func TestServer_SelectPlayer(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)
	b := NewBroadcaster(h, time.Hour)
	sw := &fakeSwitcher{}

	srv := httptest.NewServer(NewServer(h, b, sw, 4, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != TypeFull {
		t.Fatalf("expected initial full state, got %+v err=%v", msg, err)
	}

	if err := conn.WriteJSON(ClientMessage{Type: TypeSelectPlayer, PlayerIndex: 2}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg = WSMessage{}
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != TypePlayerSelected || msg.PlayerIndex != 2 {
		t.Fatalf("expected player_selected 2, got %+v err=%v", msg, err)
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()
	if len(sw.players) != 1 || sw.players[0] != 2 {
		t.Fatalf("expected switcher to receive player 2, got %v", sw.players)
	}
}

// TestServer_Unauthorized verifies the authorize hook guards the upgrade.
func TestServer_Unauthorized(t *testing.T) {
	h := NewHub()
	srv := NewServer(h, NewBroadcaster(h, time.Hour), nil, 4, func() bool { return false })
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/ws/state", nil))
	if rec.Code != 401 {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
