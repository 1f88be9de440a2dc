// Package overlay draws the active skin and streams it as MJPEG so the
// touch layout can be previewed from any browser.
package overlay

import (
	"context"
	"image"
	"image/color"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/frudas24/padtouch/internal/geom"
	"github.com/frudas24/padtouch/internal/mapper"
	"github.com/frudas24/padtouch/internal/skin"
	"golang.org/x/image/draw"
)

const (
	defaultTick     = 100 * time.Millisecond
	defaultMaxWidth = 960
)

var background = color.RGBA{R: 16, G: 16, B: 20, A: 255}

// SceneSource supplies the drawable mapper state and its redraw flags.
type SceneSource interface {
	Scene() mapper.Scene
	AnalogDirty() bool
	FPSDirty() bool
}

// Options configures a Renderer.
type Options struct {
	Tick     time.Duration
	Quality  int
	MaxWidth int
	ShowFPS  func() bool
}

// Renderer redraws the overlay when the layout changes or a dirty flag is
// raised, polling on a fixed tick.
type Renderer struct {
	src      SceneSource
	stream   *Stream
	tick     time.Duration
	quality  int
	maxWidth int
	showFPS  func() bool

	lastGen  uint64
	lastFPS  bool
	drawn    bool
	rendered atomic.Int64
}

// NewRenderer returns a renderer publishing to stream.
func NewRenderer(src SceneSource, stream *Stream, opts Options) *Renderer {
	if opts.Tick <= 0 {
		opts.Tick = defaultTick
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = defaultMaxWidth
	}
	return &Renderer{
		src:      src,
		stream:   stream,
		tick:     opts.Tick,
		quality:  opts.Quality,
		maxWidth: opts.MaxWidth,
		showFPS:  opts.ShowFPS,
	}
}

// Run polls for changes every tick until ctx is done.
func (r *Renderer) Run(ctx context.Context) {
	t := time.NewTicker(r.tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Step()
		}
	}
}

// Rendered returns the number of frames published.
func (r *Renderer) Rendered() int64 {
	return r.rendered.Load()
}

// Step redraws once if anything changed and reports whether it did.
func (r *Renderer) Step() bool {
	analog := r.src.AnalogDirty()
	fps := r.src.FPSDirty()
	showFPS := r.showFPS != nil && r.showFPS()
	scene := r.src.Scene()

	if r.drawn && !analog && !fps && scene.Generation == r.lastGen && showFPS == r.lastFPS {
		return false
	}
	r.drawn = true
	r.lastGen = scene.Generation
	r.lastFPS = showFPS

	img := Compose(scene, showFPS)
	if img == nil {
		return false
	}
	jpg, err := EncodeJPEG(fitWidth(img, r.maxWidth), r.quality)
	if err != nil {
		log.Printf("overlay: encode: %v", err)
		return false
	}
	r.stream.Publish(jpg)
	r.rendered.Add(1)
	return true
}

// Compose draws the scene onto a new image the size of the layout.
// It returns nil when the surface size is unknown.
func Compose(scene mapper.Scene, showFPS bool) *image.RGBA {
	l := scene.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	d := scene.Desc
	if d == nil {
		return dst
	}
	for i, region := range d.Regions {
		if i >= len(l.Regions) {
			break
		}
		b := l.Regions[i]
		switch {
		case region.Sprite != nil:
			drawAt(dst, region.Sprite, b.Sprite)
		case region.Mask != nil:
			drawAt(dst, maskImage(region.Mask), b.Mask)
		}
	}
	if a := d.Analog; a != nil && l.Analog.W > 0 {
		drawAnalog(dst, a, l.Analog, scene.HatX, scene.HatY)
	}
	if f := d.FPS; f != nil && showFPS && l.FPS.W > 0 {
		drawFPS(dst, f, l.FPS, scene.FPS)
	}
	return dst
}

// drawAnalog draws the stick base and its hat, centered when released.
func drawAnalog(dst *image.RGBA, a *skin.Analog, r geom.Rect, hatX, hatY int) {
	if a.Sprite != nil {
		drawAt(dst, a.Sprite, r)
	}
	if a.HatSprite == nil {
		return
	}
	cx, cy := geom.Center(r)
	if hatX >= 0 && hatY >= 0 {
		cx, cy = r.X+hatX, r.Y+hatY
	}
	b := a.HatSprite.Bounds()
	drawAt(dst, a.HatSprite, geom.Rect{X: cx - b.Dx()/2, Y: cy - b.Dy()/2, W: b.Dx(), H: b.Dy()})
}

// drawFPS draws the indicator sprite and the digits of fps around its number anchor.
func drawFPS(dst *image.RGBA, f *skin.FPSIndicator, r geom.Rect, fps int) {
	if f.Sprite != nil {
		drawAt(dst, f.Sprite, r)
	}
	text := strconv.Itoa(fps)
	width, height := 0, 0
	for _, ch := range text {
		g := f.Digits[ch-'0']
		if g == nil {
			return
		}
		width += g.Bounds().Dx()
		height = max(height, g.Bounds().Dy())
	}
	x := r.X + geom.PercentOf(r.W, float64(f.NumXPercent)) - width/2
	y := r.Y + geom.PercentOf(r.H, float64(f.NumYPercent)) - height/2
	for _, ch := range text {
		g := f.Digits[ch-'0']
		b := g.Bounds()
		drawAt(dst, g, geom.Rect{X: x, Y: y, W: b.Dx(), H: b.Dy()})
		x += b.Dx()
	}
}

// drawAt composites src over dst at r, scaling when the sizes differ.
func drawAt(dst *image.RGBA, src image.Image, r geom.Rect) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	rect := image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
	b := src.Bounds()
	if b.Dx() == r.W && b.Dy() == r.H {
		draw.Draw(dst, rect, src, b.Min, draw.Over)
		return
	}
	draw.ApproxBiLinear.Scale(dst, rect, src, b, draw.Over, nil)
}

// maskImage renders a hit mask with black as transparent.
func maskImage(m *skin.Mask) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			rgb := m.At(x, y)
			if rgb == 0 {
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 160})
		}
	}
	return img
}

// fitWidth scales img down to at most maxWidth pixels wide.
func fitWidth(img *image.RGBA, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
