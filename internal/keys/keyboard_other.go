//go:build !windows

package keys

// NoopKeyboard is a placeholder keyboard for non-Windows builds.
type NoopKeyboard struct{}

// New returns a non-functional keyboard on non-Windows platforms.
func New() (Keyboard, error) {
	return &NoopKeyboard{}, ErrUnsupported
}

// KeyDown returns ErrUnsupported.
func (n *NoopKeyboard) KeyDown(int) error {
	return ErrUnsupported
}

// KeyUp returns ErrUnsupported.
func (n *NoopKeyboard) KeyUp(int) error {
	return ErrUnsupported
}
