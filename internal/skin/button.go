// Package skin loads declarative touch skins into immutable descriptors.
package skin

import "strings"

// Button indexes the canonical N64 buttons followed by the four diagonal helpers.
type Button int

const (
	Right Button = iota
	Left
	Down
	Up
	Start
	Z
	B
	A
	CRight
	CLeft
	CDown
	CUp
	R
	L
	UpRight
	RightDown
	LeftDown
	LeftUp
)

// NumButtons is the number of real controller buttons reported downstream.
const NumButtons = 14

// NumSlots is the number of palette slots, including the diagonals.
const NumSlots = 18

// MaxAux is the maximum number of auxiliary scancode buttons a skin may register.
const MaxAux = 30

// MaxRegions is the maximum number of button regions a skin may declare.
const MaxRegions = 30

var buttonNames = [NumSlots]string{
	"right", "left", "down", "up", "start", "z", "b", "a",
	"cright", "cleft", "cdown", "cup", "r", "l",
	"upright", "rightdown", "leftdown", "leftup",
}

// String returns the lowercase key used for the button in MASK_COLOR.
func (b Button) String() string {
	if b < 0 || int(b) >= NumSlots {
		return "unknown"
	}
	return buttonNames[b]
}

// IsDiagonal reports whether the slot is a synthetic diagonal.
func (b Button) IsDiagonal() bool {
	return b >= UpRight && b <= LeftUp
}

// diagonalPairs lists the real buttons behind each diagonal, from UpRight on.
var diagonalPairs = [4][2]Button{{Up, Right}, {Right, Down}, {Left, Down}, {Left, Up}}

// Expand returns the real buttons a slot presses.
func (b Button) Expand() []Button {
	if b.IsDiagonal() {
		pair := diagonalPairs[b-UpRight]
		return pair[:]
	}
	if b < 0 || int(b) >= NumButtons {
		return nil
	}
	return []Button{b}
}

// ParseButton maps a case-insensitive MASK_COLOR key to a slot.
func ParseButton(name string) (Button, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}
	return 0, false
}
