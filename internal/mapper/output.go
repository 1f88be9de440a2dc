package mapper

import "github.com/frudas24/padtouch/internal/skin"

// Output consumes the per-frame controller state.
type Output interface {
	SetControllerState(player int, buttons [skin.NumButtons]bool, axisX, axisY int)
	SetAuxiliaryButtons(pressed []bool, scancodes []int)
}

// MultiOutput fans every call out to each output in order.
type MultiOutput []Output

// SetControllerState forwards the state to every output.
func (m MultiOutput) SetControllerState(player int, buttons [skin.NumButtons]bool, axisX, axisY int) {
	for _, o := range m {
		if o != nil {
			o.SetControllerState(player, buttons, axisX, axisY)
		}
	}
}

// SetAuxiliaryButtons forwards the aux state to every output.
func (m MultiOutput) SetAuxiliaryButtons(pressed []bool, scancodes []int) {
	for _, o := range m {
		if o != nil {
			o.SetAuxiliaryButtons(pressed, scancodes)
		}
	}
}
