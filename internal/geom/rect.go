// Package geom provides integer rectangle helpers for skin layout and hit tests.
package geom

// Rect describes a rectangle using top-left origin and size.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// Contains reports whether a point is inside the rectangle.
// The left/top edges are inside and the right/bottom edges are outside.
func Contains(r Rect, x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the center point of the rectangle using half-size offsets.
func Center(r Rect) (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// FitCenter places a w*h box centered at (cx, cy), shifted so it stays
// inside a surface of surfaceW*surfaceH.
func FitCenter(cx, cy, w, h, surfaceW, surfaceH int) Rect {
	hw := w / 2
	hh := h / 2
	if cx < hw {
		cx = hw
	}
	if cy < hh {
		cy = hh
	}
	if cx+hw > surfaceW {
		cx = surfaceW - hw
	}
	if cy+hh > surfaceH {
		cy = surfaceH - hh
	}
	return Rect{X: cx - hw, Y: cy - hh, W: w, H: h}
}

// PercentOf converts a percentage of span into pixels, truncating toward zero.
func PercentOf(span int, pct float64) int {
	return int(float64(span) * pct / 100)
}
