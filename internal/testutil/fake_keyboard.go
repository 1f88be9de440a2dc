package testutil

import "sync"

// KeyCall records a single injected key event.
type KeyCall struct {
	Name     string
	Scancode int
}

// FakeKeyboard records scancode key events for tests.
type FakeKeyboard struct {
	mu    sync.Mutex
	Calls []KeyCall
	Err   error
}

// KeyDown records a key press.
func (f *FakeKeyboard) KeyDown(scancode int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, KeyCall{Name: "KeyDown", Scancode: scancode})
	return f.Err
}

// KeyUp records a key release.
func (f *FakeKeyboard) KeyUp(scancode int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, KeyCall{Name: "KeyUp", Scancode: scancode})
	return f.Err
}

// Snapshot returns a copy of the recorded calls.
func (f *FakeKeyboard) Snapshot() []KeyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]KeyCall(nil), f.Calls...)
}
