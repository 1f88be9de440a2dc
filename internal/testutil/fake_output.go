// Package testutil provides recording fakes for controller outputs and key injection.
package testutil

import (
	"sync"

	"github.com/frudas24/padtouch/internal/skin"
)

// StateCall records a single SetControllerState call.
type StateCall struct {
	Player  int
	Buttons [skin.NumButtons]bool
	X       int
	Y       int
}

// AuxCall records a single SetAuxiliaryButtons call.
type AuxCall struct {
	Pressed   []bool
	Scancodes []int
}

// FakeOutput records every controller state it receives.
type FakeOutput struct {
	mu     sync.Mutex
	States []StateCall
	Aux    []AuxCall
}

// SetControllerState records a controller state.
func (f *FakeOutput) SetControllerState(player int, buttons [skin.NumButtons]bool, axisX, axisY int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.States = append(f.States, StateCall{Player: player, Buttons: buttons, X: axisX, Y: axisY})
}

// SetAuxiliaryButtons records a copy of the auxiliary state.
func (f *FakeOutput) SetAuxiliaryButtons(pressed []bool, scancodes []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Aux = append(f.Aux, AuxCall{
		Pressed:   append([]bool(nil), pressed...),
		Scancodes: append([]int(nil), scancodes...),
	})
}

// LastState returns the most recent controller state and whether one exists.
func (f *FakeOutput) LastState() (StateCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.States) == 0 {
		return StateCall{}, false
	}
	return f.States[len(f.States)-1], true
}

// LastAux returns the most recent auxiliary state and whether one exists.
func (f *FakeOutput) LastAux() (AuxCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Aux) == 0 {
		return AuxCall{}, false
	}
	return f.Aux[len(f.Aux)-1], true
}
