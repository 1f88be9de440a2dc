package control

import (
	"math"
	"testing"
)

// TestNormToSurface_TopLeft verifies the top-left mapping.
func TestNormToSurface_TopLeft(t *testing.T) {
	x, y := NormToSurface(0, 0, 300, 400)
	if x != 0 || y != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", x, y)
	}
}

// TestNormToSurface_Center verifies center mapping.
func TestNormToSurface_Center(t *testing.T) {
	x, y := NormToSurface(0.5, 0.5, 301, 401)
	if x != 150 || y != 200 {
		t.Fatalf("expected (150,200), got (%d,%d)", x, y)
	}
}

// TestNormToSurface_BottomRight verifies bottom-right mapping stays on the surface.
func TestNormToSurface_BottomRight(t *testing.T) {
	x, y := NormToSurface(1, 1, 300, 400)
	if x != 299 || y != 399 {
		t.Fatalf("expected (299,399), got (%d,%d)", x, y)
	}
}

// TestNormToSurface_Clamps verifies out-of-range and NaN inputs are clamped.
func TestNormToSurface_Clamps(t *testing.T) {
	x, y := NormToSurface(-0.5, 2, 100, 100)
	if x != 0 || y != 99 {
		t.Fatalf("expected (0,99), got (%d,%d)", x, y)
	}
	x, _ = NormToSurface(math.NaN(), 0, 100, 100)
	if x != 0 {
		t.Fatalf("expected NaN to map to 0, got %d", x)
	}
}

// TestNormToSurface_EmptySurface verifies degenerate spans map to 0.
func TestNormToSurface_EmptySurface(t *testing.T) {
	x, y := NormToSurface(0.7, 0.7, 0, 1)
	if x != 0 || y != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", x, y)
	}
}
