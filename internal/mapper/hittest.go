// Package mapper turns multi-touch frames into controller snapshots.
package mapper

import (
	"github.com/frudas24/padtouch/internal/geom"
	"github.com/frudas24/padtouch/internal/skin"
)

// TestPoint returns the palette target under (x, y). Regions are scanned in
// load order; black mask pixels are transparent and scanning continues.
func TestPoint(x, y int, desc *skin.Descriptor, layout skin.Layout) (skin.Target, bool) {
	if desc == nil {
		return skin.Target{}, false
	}
	for i, r := range desc.Regions {
		if i >= len(layout.Regions) || r.Mask == nil {
			continue
		}
		box := layout.Regions[i].Mask
		if !geom.Contains(box, x, y) {
			continue
		}
		rgb := r.Mask.At(x-box.X, y-box.Y)
		if rgb == 0 {
			continue
		}
		return desc.Palette.Resolve(rgb)
	}
	return skin.Target{}, false
}

// press records a resolved target into the frame's button and aux state.
func press(t skin.Target, buttons *[skin.NumButtons]bool, aux []bool) {
	if t.IsAux() {
		if t.Aux < len(aux) {
			aux[t.Aux] = true
		}
		return
	}
	for _, b := range t.Button.Expand() {
		buttons[b] = true
	}
}
