package keys

import (
	"errors"
	"log"
	"sort"
	"sync"

	"github.com/frudas24/padtouch/internal/skin"
)

// Forwarder turns the mapper's auxiliary button state into key presses.
// Keys are sent only on edges: a held key is pressed once and released
// when its button lifts or disappears from the skin.
type Forwarder struct {
	mu      sync.Mutex
	kb      Keyboard
	enabled bool
	held    map[int]bool
	lastErr error
}

// NewForwarder returns an enabled forwarder writing to kb.
func NewForwarder(kb Keyboard) *Forwarder {
	return &Forwarder{kb: kb, enabled: true, held: make(map[int]bool)}
}

// SetEnabled toggles forwarding. Disabling releases every held key.
func (f *Forwarder) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
	if !enabled {
		f.releaseAllLocked()
	}
}

// Enabled reports whether forwarding is on.
func (f *Forwarder) Enabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

// SetControllerState ignores the controller buttons.
func (f *Forwarder) SetControllerState(int, [skin.NumButtons]bool, int, int) {}

// SetAuxiliaryButtons presses newly held scancodes and releases lifted ones.
func (f *Forwarder) SetAuxiliaryButtons(pressed []bool, scancodes []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.enabled || f.kb == nil {
		return
	}

	want := make(map[int]bool, len(scancodes))
	for i, code := range scancodes {
		if i < len(pressed) && pressed[i] {
			want[code] = true
		}
	}
	for _, code := range sortedKeys(f.held) {
		if !want[code] {
			f.report(f.kb.KeyUp(code))
			delete(f.held, code)
		}
	}
	for _, code := range sortedKeys(want) {
		if !f.held[code] {
			f.report(f.kb.KeyDown(code))
			f.held[code] = true
		}
	}
}

// Release lifts every held key.
func (f *Forwarder) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseAllLocked()
}

// releaseAllLocked sends a key up for every held scancode.
func (f *Forwarder) releaseAllLocked() {
	if f.kb == nil {
		return
	}
	for _, code := range sortedKeys(f.held) {
		f.report(f.kb.KeyUp(code))
		delete(f.held, code)
	}
}

// report logs an injection error once until a different error occurs.
func (f *Forwarder) report(err error) {
	if err == nil || (f.lastErr != nil && errors.Is(err, f.lastErr)) {
		return
	}
	f.lastErr = err
	log.Printf("keys: %v", err)
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}
