package hub

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/frudas24/padtouch/internal/skin"
)

const (
	defaultFullSync = time.Second
	deltaCountSync  = 100
)

// Broadcaster receives controller frames from the mapper and broadcasts
// them to the hub. Frames arriving faster than the loop drains them are
// coalesced; only the newest is sent.
type Broadcaster struct {
	hub      *Hub
	fullSync time.Duration
	notify   chan struct{}

	mu         sync.Mutex
	pending    ControllerState
	lastState  ControllerState
	seq        int64
	deltaCount int
}

// NewBroadcaster returns a broadcaster that also sends a full state every
// fullSync. A non-positive fullSync uses one second.
func NewBroadcaster(h *Hub, fullSync time.Duration) *Broadcaster {
	if fullSync <= 0 {
		fullSync = defaultFullSync
	}
	return &Broadcaster{
		hub:      h,
		fullSync: fullSync,
		notify:   make(chan struct{}, 1),
	}
}

// SetControllerState records the button and stick part of a frame.
func (b *Broadcaster) SetControllerState(player int, buttons [skin.NumButtons]bool, axisX, axisY int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending.Player = player
	b.pending.Buttons = buttons
	b.pending.Axes = Axes{X: axisX, Y: axisY}
}

// SetAuxiliaryButtons records the aux part of a frame and queues the frame.
func (b *Broadcaster) SetAuxiliaryButtons(pressed []bool, scancodes []int) {
	n := min(len(pressed), len(scancodes))
	aux := make([]AuxKey, n)
	for i := range aux {
		aux[i] = AuxKey{Scancode: scancodes[i], Pressed: pressed[i]}
	}
	b.mu.Lock()
	b.pending.Aux = aux
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Run starts the broadcaster loop until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.fullSync)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.notify:
			b.flush()
		case <-ticker.C:
			b.mu.Lock()
			b.seq++
			msg := NewFullMessage(b.seq, cloneState(b.lastState))
			b.mu.Unlock()
			b.broadcast(msg)
		}
	}
}

// flush sends the pending frame as a delta, or as a full state when the
// player port changed or enough deltas went out.
func (b *Broadcaster) flush() {
	b.mu.Lock()
	state := *cloneState(b.pending)
	prev := b.lastState
	b.lastState = state

	var msg *WSMessage
	switch {
	case state.Player != prev.Player:
		b.seq++
		b.deltaCount = 0
		msg = NewFullMessage(b.seq, &state)
	default:
		delta := ComputeDelta(prev, state)
		if delta.IsEmpty() {
			b.mu.Unlock()
			return
		}
		b.seq++
		b.deltaCount++
		if b.deltaCount >= deltaCountSync {
			b.deltaCount = 0
			msg = NewFullMessage(b.seq, &state)
		} else {
			msg = NewDeltaMessage(b.seq, state.Player, delta)
		}
	}
	b.mu.Unlock()
	b.broadcast(msg)
}

// SendInitialState sends the current full state to one client.
func (b *Broadcaster) SendInitialState(c *Client) {
	b.mu.Lock()
	b.seq++
	msg := NewFullMessage(b.seq, cloneState(b.lastState))
	b.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("hub: marshal initial state: %v", err)
		return
	}
	b.hub.SendTo(c, data)
}

// broadcast marshals msg and sends it to the clients of its player port.
func (b *Broadcaster) broadcast(msg *WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("hub: marshal %s message: %v", msg.Type, err)
		return
	}
	b.hub.BroadcastToPlayer(data, msg.PlayerIndex)
}

// cloneState returns a copy of s that shares no slices.
func cloneState(s ControllerState) *ControllerState {
	s.Aux = append([]AuxKey{}, s.Aux...)
	return &s
}
