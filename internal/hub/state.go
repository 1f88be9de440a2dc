package hub

import (
	"slices"

	"github.com/frudas24/padtouch/internal/skin"
)

// AuxKey is the state of one auxiliary keyboard button.
type AuxKey struct {
	Scancode int  `json:"scancode"`
	Pressed  bool `json:"pressed"`
}

// Axes holds the analog stick position in [-80, 80].
type Axes struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ControllerState is one controller frame as seen by core bridges.
// Buttons are in canonical order: Right, Left, Down, Up, Start, Z, B, A,
// C-Right, C-Left, C-Down, C-Up, R, L.
type ControllerState struct {
	Player  int                   `json:"player"`
	Buttons [skin.NumButtons]bool `json:"buttons"`
	Axes    Axes                  `json:"axes"`
	Aux     []AuxKey              `json:"aux"`
}

// DeltaChanges contains only the fields that changed between two states.
type DeltaChanges struct {
	Buttons *[skin.NumButtons]bool `json:"buttons,omitempty"`
	Axes    *Axes                  `json:"axes,omitempty"`
	Aux     *[]AuxKey              `json:"aux,omitempty"`
}

// IsEmpty reports whether nothing changed.
func (d *DeltaChanges) IsEmpty() bool {
	return d.Buttons == nil && d.Axes == nil && d.Aux == nil
}

// ComputeDelta returns the fields of next that differ from prev. The player
// port is not part of a delta; a port change is sent as a full state.
func ComputeDelta(prev, next ControllerState) *DeltaChanges {
	d := &DeltaChanges{}
	if prev.Buttons != next.Buttons {
		b := next.Buttons
		d.Buttons = &b
	}
	if prev.Axes != next.Axes {
		a := next.Axes
		d.Axes = &a
	}
	if !slices.Equal(prev.Aux, next.Aux) {
		aux := append([]AuxKey{}, next.Aux...)
		d.Aux = &aux
	}
	return d
}

// ButtonNames lists the button names in the order of ControllerState.Buttons.
func ButtonNames() []string {
	names := make([]string, skin.NumButtons)
	for i := range names {
		names[i] = skin.Button(i).String()
	}
	return names
}
