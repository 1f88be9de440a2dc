package skin

import (
	"strconv"
	"strings"
)

// Unassigned marks a palette entry that never matches.
const Unassigned = -1

// AuxColor binds an auxiliary scancode to its mask color.
type AuxColor struct {
	Scancode int
	Color    int
}

// Palette maps mask colors to buttons.
type Palette struct {
	Slots [NumSlots]int
	Aux   []AuxColor
}

// Target is the result of resolving a mask color.
// Aux is -1 for canonical targets, otherwise the auxiliary index.
type Target struct {
	Button Button
	Aux    int
}

// IsAux reports whether the target is an auxiliary button.
func (t Target) IsAux() bool {
	return t.Aux >= 0
}

// NewPalette returns a palette with every slot unassigned.
func NewPalette() Palette {
	var p Palette
	for i := range p.Slots {
		p.Slots[i] = Unassigned
	}
	return p
}

// Scancodes returns the auxiliary scancodes in registration order.
func (p Palette) Scancodes() []int {
	out := make([]int, len(p.Aux))
	for i, a := range p.Aux {
		out[i] = a.Scancode
	}
	return out
}

// Resolve returns the palette entry nearest to rgb by absolute channel-sum
// distance. Canonical slots win ties; auxiliary entries must be strictly closer.
func (p Palette) Resolve(rgb uint32) (Target, bool) {
	best := Target{Aux: -1}
	bestDist := -1
	for i, c := range p.Slots {
		if c == Unassigned {
			continue
		}
		d := colorDistance(uint32(c), rgb)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = Target{Button: Button(i), Aux: -1}
		}
	}
	for i, a := range p.Aux {
		if a.Color == Unassigned {
			continue
		}
		d := colorDistance(uint32(a.Color), rgb)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = Target{Aux: i}
		}
	}
	return best, bestDist >= 0
}

// colorDistance sums the absolute per-channel differences of two RGB values.
func colorDistance(a, b uint32) int {
	return absDiff(a>>16&0xFF, b>>16&0xFF) + absDiff(a>>8&0xFF, b>>8&0xFF) + absDiff(a&0xFF, b&0xFF)
}

// absDiff returns |a-b| for channel values.
func absDiff(a, b uint32) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// ParseColor reads a mask color as a decimal integer or a 0x/# prefixed hex value.
// Invalid input yields Unassigned.
func ParseColor(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unassigned
	}
	base := 10
	switch {
	case strings.HasPrefix(raw, "0x"), strings.HasPrefix(raw, "0X"):
		raw = raw[2:]
		base = 16
	case strings.HasPrefix(raw, "#"):
		raw = raw[1:]
		base = 16
	}
	v, err := strconv.ParseInt(raw, base, 64)
	if err != nil || v < -1<<31 || v > 1<<32-1 {
		return Unassigned
	}
	if v == Unassigned {
		return Unassigned
	}
	return int(uint32(v) & 0xFFFFFF)
}
