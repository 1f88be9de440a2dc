package skin

import (
	"image"

	"github.com/frudas24/padtouch/internal/geom"
)

// Kind selects the skin family and its asset conventions.
type Kind int

const (
	// Gamepad skins draw PNG sprites over a resizable surface.
	Gamepad Kind = iota
	// Touchpad skins carry masks only and map a fixed-size pad.
	Touchpad
)

// Fixed touchpad surface size in pixels.
const (
	TouchpadWidth  = 966
	TouchpadHeight = 360
)

// Dir returns the skins subdirectory for the kind.
func (k Kind) Dir() string {
	if k == Touchpad {
		return "touchpads"
	}
	return "gamepads"
}

// String returns the kind name accepted by ParseKind.
func (k Kind) String() string {
	if k == Touchpad {
		return "touchpad"
	}
	return "gamepad"
}

// ParseKind maps a name to a Kind, defaulting to Gamepad.
func ParseKind(name string) Kind {
	if name == "touchpad" || name == "touchpads" {
		return Touchpad
	}
	return Gamepad
}

// Info holds the skin credits.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	About   string `json:"about"`
	Author  string `json:"author"`
}

// Region is one button control: a sprite and the mask used for hit tests.
type Region struct {
	Name     string
	XPercent int
	YPercent int
	Sprite   image.Image
	Mask     *Mask
}

// Analog describes the analog stick control. Radii are pixels.
type Analog struct {
	Name      string
	XPercent  int
	YPercent  int
	W         int
	H         int
	Deadzone  int
	Maximum   int
	Padding   int
	Hat       bool
	Sprite    image.Image
	HatSprite image.Image
}

// FPSIndicator describes the frame-rate display.
type FPSIndicator struct {
	Name        string
	XPercent    int
	YPercent    int
	NumXPercent int
	NumYPercent int
	Rate        int
	Font        string
	Sprite      image.Image
	Digits      [10]image.Image
}

// Descriptor is an immutable, fully loaded skin.
type Descriptor struct {
	Kind    Kind
	Info    Info
	Palette Palette
	Regions []Region
	Analog  *Analog
	FPS     *FPSIndicator
}

// Empty returns an inert descriptor with no controls.
func Empty(kind Kind) *Descriptor {
	return &Descriptor{Kind: kind, Palette: NewPalette()}
}

// Inert reports whether the descriptor has no controls at all.
func (d *Descriptor) Inert() bool {
	return d == nil || (len(d.Regions) == 0 && d.Analog == nil)
}

// RegionBounds holds the placed sprite and mask rectangles of a region.
type RegionBounds struct {
	Sprite geom.Rect
	Mask   geom.Rect
}

// Layout is the pixel geometry of a descriptor on a surface.
type Layout struct {
	Width   int
	Height  int
	Regions []RegionBounds
	Analog  geom.Rect
	FPS     geom.Rect
}

// AnalogCenter returns the stick center in surface pixels.
func (l Layout) AnalogCenter() (int, int) {
	return geom.Center(l.Analog)
}

// Layout places every control on a w*h surface. Touchpad skins ignore the
// requested size and use the fixed pad dimensions.
func (d *Descriptor) Layout(w, h int) Layout {
	if d != nil && d.Kind == Touchpad {
		w, h = TouchpadWidth, TouchpadHeight
	}
	l := Layout{Width: w, Height: h}
	if d == nil {
		return l
	}
	l.Regions = make([]RegionBounds, len(d.Regions))
	for i, r := range d.Regions {
		cx := geom.PercentOf(w, float64(r.XPercent))
		cy := geom.PercentOf(h, float64(r.YPercent))
		if r.Sprite != nil {
			b := r.Sprite.Bounds()
			l.Regions[i].Sprite = geom.FitCenter(cx, cy, b.Dx(), b.Dy(), w, h)
		}
		if r.Mask != nil {
			l.Regions[i].Mask = geom.FitCenter(cx, cy, r.Mask.W, r.Mask.H, w, h)
		}
	}
	if a := d.Analog; a != nil {
		cx := geom.PercentOf(w, float64(a.XPercent))
		cy := geom.PercentOf(h, float64(a.YPercent))
		l.Analog = geom.FitCenter(cx, cy, a.W, a.H, w, h)
	}
	if f := d.FPS; f != nil && f.Sprite != nil {
		b := f.Sprite.Bounds()
		cx := geom.PercentOf(w, float64(f.XPercent))
		cy := geom.PercentOf(h, float64(f.YPercent))
		l.FPS = geom.FitCenter(cx, cy, b.Dx(), b.Dy(), w, h)
	}
	return l
}
