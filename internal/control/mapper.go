package control

import "math"

// NormToSurface maps normalized coordinates to surface pixels.
func NormToSurface(xn, yn float64, w, h int) (int, int) {
	xn = clamp01(xn)
	yn = clamp01(yn)
	return normToPixels(xn, w), normToPixels(yn, h)
}

func normToPixels(norm float64, span int) int {
	if span <= 1 {
		return 0
	}
	return int(math.Round(norm * float64(span-1)))
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
