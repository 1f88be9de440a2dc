// Package keys injects auxiliary skin buttons as OS keyboard scancodes.
package keys

import "errors"

// ErrUnsupported indicates scancode injection is not available on this platform.
var ErrUnsupported = errors.New("keys: scancode injection is only supported on Windows")

// Keyboard presses and releases keys by hardware scancode.
type Keyboard interface {
	KeyDown(scancode int) error
	KeyUp(scancode int) error
}
