package testutil

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"

	"github.com/frudas24/padtouch/internal/skin"
	"golang.org/x/image/bmp"
)

// ClassicIni is a gamepad skin with a two-color d-pad, one auxiliary key and
// an analog stick.
//
// On a 201x201 surface the d-pad spans (30,80)-(70,120) with Up on the top
// half and Down on the bottom half, the aux key spans (140,40)-(160,60) and
// the stick is centered at (150,150) with radii 5/25/5.
const ClassicIni = `[INFO]
name=Classic
author=Tester

[MASK_COLOR]
up=0x00FF00
down=0x0000FF
scancode_30=0xFF0000

[dpad]
x=25
y=50

[aux]
x=75
y=25

[stick]
info=analog
x=75
y=75
min=10
max=50
buff=10
`

// AuxScancode is the scancode of ClassicIni's auxiliary key.
const AuxScancode = 30

// SolidImage returns a w*h image filled with rgb.
func SolidImage(w, h int, rgb uint32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	FillRect(img, img.Bounds(), rgb)
	return img
}

// FillRect paints r of img with rgb.
func FillRect(img *image.RGBA, r image.Rectangle, rgb uint32) {
	c := color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// EncodeBMP encodes an image as BMP bytes.
func EncodeBMP(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}
	return buf.Bytes()
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

// ClassicSkin returns the files of the ClassicIni skin.
func ClassicSkin(t testing.TB) skin.MapSource {
	t.Helper()
	dpadMask := SolidImage(40, 40, 0x0000FF)
	FillRect(dpadMask, image.Rect(0, 0, 40, 20), 0x00FF00)
	return skin.MapSource{
		skin.ConfigFile: []byte(ClassicIni),
		"dpad.png":      EncodePNG(t, SolidImage(40, 40, 0x808080)),
		"dpad.bmp":      EncodeBMP(t, dpadMask),
		"aux.png":       EncodePNG(t, SolidImage(20, 20, 0x404040)),
		"aux.bmp":       EncodeBMP(t, SolidImage(20, 20, 0xFF0000)),
		"stick.png":     EncodePNG(t, SolidImage(100, 100, 0x202020)),
	}
}

// Resolver serves skins from memory by name.
func Resolver(skins map[string]skin.MapSource) func(string) (skin.Source, error) {
	return func(name string) (skin.Source, error) {
		src, ok := skins[name]
		if !ok {
			return nil, fmt.Errorf("skin %q: %w", name, fs.ErrNotExist)
		}
		return src, nil
	}
}
