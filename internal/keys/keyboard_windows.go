//go:build windows

package keys

import (
	"fmt"
	"unsafe"

	"github.com/lxn/win"
)

// extendedPrefix marks two-byte scancodes such as 0xE048 (arrow up).
const extendedPrefix = 0xE000

// WinKeyboard injects scancodes using SendInput.
type WinKeyboard struct{}

// New returns a Windows scancode keyboard.
func New() (Keyboard, error) {
	return &WinKeyboard{}, nil
}

// KeyDown presses the key with the given scancode.
func (w *WinKeyboard) KeyDown(scancode int) error {
	return sendScancode(scancode, 0)
}

// KeyUp releases the key with the given scancode.
func (w *WinKeyboard) KeyUp(scancode int) error {
	return sendScancode(scancode, win.KEYEVENTF_KEYUP)
}

// sendScancode dispatches a single scancode keyboard event.
func sendScancode(scancode int, flags uint32) error {
	flags |= win.KEYEVENTF_SCANCODE
	if scancode&0xFF00 == extendedPrefix {
		flags |= win.KEYEVENTF_EXTENDEDKEY
	}
	input := win.KEYBD_INPUT{
		Type: win.INPUT_KEYBOARD,
		Ki: win.KEYBDINPUT{
			WScan:   uint16(scancode & 0xFF),
			DwFlags: flags,
		},
	}
	if win.SendInput(1, unsafe.Pointer(&input), int32(unsafe.Sizeof(input))) != 1 {
		return fmt.Errorf("keys: SendInput scancode %#x: error %v", scancode, win.GetLastError())
	}
	return nil
}
