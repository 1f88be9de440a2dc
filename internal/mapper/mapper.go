package mapper

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"

	"github.com/frudas24/padtouch/internal/skin"
)

const (
	// MaxPointers is the number of touch slots tracked per frame.
	MaxPointers = 10
	// AxisRange is the full-throw magnitude reported on each stick axis.
	AxisRange = 80
	// MaxFPS is the largest value the FPS indicator displays.
	MaxFPS = 9999
)

// ErrNoResolver is returned by LoadSkin when no skin resolver is configured.
var ErrNoResolver = errors.New("mapper: no skin resolver")

// Resolver opens the named skin for reading.
type Resolver func(name string) (skin.Source, error)

// Snapshot is the controller state emitted for one frame.
type Snapshot struct {
	Player  int
	Buttons [skin.NumButtons]bool
	AxisX   int
	AxisY   int
	Aux     []bool
}

// Scene is a copy of the state needed to draw the skin.
type Scene struct {
	Desc       *skin.Descriptor
	Layout     skin.Layout
	HatX       int
	HatY       int
	FPS        int
	Generation uint64
}

// Options configures a Mapper.
type Options struct {
	Kind    skin.Kind
	Resolve Resolver
	Fonts   skin.Source
	Output  Output
}

// Mapper tracks pointers over a loaded skin and emits controller snapshots.
// It is not safe for concurrent use except for the dirty-flag accessors.
type Mapper struct {
	kind    skin.Kind
	resolve Resolver
	fonts   skin.Source
	out     Output

	name        string
	desc        *skin.Descriptor
	layout      skin.Layout
	width       int
	height      int
	initialized bool
	generation  uint64

	octagon   bool
	player    int
	analogPid int
	hatX      int
	hatY      int
	fps       int

	analogDirty atomic.Bool
	fpsDirty    atomic.Bool
}

// New returns a mapper with no skin loaded.
func New(opts Options) *Mapper {
	return &Mapper{
		kind:      opts.Kind,
		resolve:   opts.Resolve,
		fonts:     opts.Fonts,
		out:       opts.Output,
		desc:      skin.Empty(opts.Kind),
		analogPid: -1,
		hatX:      -1,
		hatY:      -1,
	}
}

// LoadSkin (re)loads the named skin. Any failure installs an inert skin so
// the mapper keeps reporting an idle controller; the error is returned for logging.
func (m *Mapper) LoadSkin(name string) error {
	var (
		desc *skin.Descriptor
		err  error
	)
	switch {
	case name == "":
		desc, err = skin.Empty(m.kind), errors.New("mapper: empty skin name")
	case m.resolve == nil:
		desc, err = skin.Empty(m.kind), ErrNoResolver
	default:
		var src skin.Source
		src, err = m.resolve(name)
		if err != nil {
			desc = skin.Empty(m.kind)
			err = fmt.Errorf("open skin %q: %w", name, err)
		} else {
			desc, err = skin.Load(src, skin.Options{Kind: m.kind, Fonts: m.fonts})
			if err != nil {
				err = fmt.Errorf("load skin %q: %w", name, err)
			}
		}
	}
	if err != nil {
		log.Printf("mapper: %v", err)
	}
	m.name = name
	m.LoadDescriptor(desc)
	return err
}

// LoadDescriptor installs an already loaded descriptor.
func (m *Mapper) LoadDescriptor(desc *skin.Descriptor) {
	if desc == nil {
		desc = skin.Empty(m.kind)
	}
	m.desc = desc
	m.kind = desc.Kind
	m.analogPid = -1
	m.hatX, m.hatY = -1, -1
	m.relayout()
	m.initialized = true
	m.analogDirty.Store(true)
	m.fpsDirty.Store(true)
}

// OnSurfaceResized re-centers every control for the new surface size.
func (m *Mapper) OnSurfaceResized(width, height int) {
	if width == m.width && height == m.height {
		return
	}
	m.width, m.height = width, height
	m.relayout()
	m.analogDirty.Store(true)
}

// relayout recomputes control bounds for the current surface.
func (m *Mapper) relayout() {
	m.layout = m.desc.Layout(m.width, m.height)
	m.generation++
}

// SkinName returns the name passed to the last LoadSkin call.
func (m *Mapper) SkinName() string {
	return m.name
}

// Descriptor returns the active skin descriptor.
func (m *Mapper) Descriptor() *skin.Descriptor {
	return m.desc
}

// Layout returns the current control geometry.
func (m *Mapper) Layout() skin.Layout {
	return m.layout
}

// Initialized reports whether a skin has been installed.
func (m *Mapper) Initialized() bool {
	return m.initialized
}

// SetOctagon enables the octagonal stick gate.
func (m *Mapper) SetOctagon(enabled bool) {
	m.octagon = enabled
}

// Octagon reports whether the octagonal stick gate is enabled.
func (m *Mapper) Octagon() bool {
	return m.octagon
}

// SetPlayer selects the controller port reported downstream.
func (m *Mapper) SetPlayer(player int) {
	if player < 0 {
		player = 0
	}
	m.player = player
}

// Player returns the controller port reported downstream.
func (m *Mapper) Player() int {
	return m.player
}

// CapturedPointer returns the pointer id holding the stick, or -1.
func (m *Mapper) CapturedPointer() int {
	return m.analogPid
}

// UpdateFPS sets the displayed frame rate, clamped to [0, MaxFPS].
func (m *Mapper) UpdateFPS(fps int) {
	if fps < 0 {
		fps = 0
	}
	if fps > MaxFPS {
		fps = MaxFPS
	}
	if fps == m.fps {
		return
	}
	m.fps = fps
	m.fpsDirty.Store(true)
}

// AnalogDirty reports and clears whether the stick needs a redraw.
func (m *Mapper) AnalogDirty() bool {
	return m.analogDirty.Swap(false)
}

// FPSDirty reports and clears whether the FPS indicator needs a redraw.
func (m *Mapper) FPSDirty() bool {
	return m.fpsDirty.Swap(false)
}

// Scene returns the drawable state of the mapper.
func (m *Mapper) Scene() Scene {
	return Scene{
		Desc:       m.desc,
		Layout:     m.layout,
		HatX:       m.hatX,
		HatY:       m.hatY,
		FPS:        m.fps,
		Generation: m.generation,
	}
}

// UpdatePointers processes one multi-touch frame and emits the resulting
// snapshot. Pointers 0..maxChanged are processed in id order. It returns
// false without emitting when no skin has been installed.
func (m *Mapper) UpdatePointers(active []bool, xs, ys []int, maxChanged int) (Snapshot, bool) {
	if !m.initialized {
		return Snapshot{}, false
	}
	n := min(len(active), len(xs), len(ys))
	if maxChanged < 0 || maxChanged >= n {
		maxChanged = n - 1
	}

	snap := Snapshot{Player: m.player, Aux: make([]bool, len(m.desc.Palette.Aux))}
	prevHatX, prevHatY := m.hatX, m.hatY
	m.hatX, m.hatY = -1, -1
	touchedAnalog := false

	if m.analogPid >= 0 && (m.analogPid >= n || !active[m.analogPid]) {
		m.analogPid = -1
	}

	for i := 0; i <= maxChanged; i++ {
		if !active[i] {
			continue
		}
		x, y := xs[i], ys[i]
		if i != m.analogPid {
			if t, ok := TestPoint(x, y, m.desc, m.layout); ok {
				press(t, &snap.Buttons, snap.Aux)
			}
		}
		if ax, ay, ok := m.analog(i, x, y); ok {
			snap.AxisX, snap.AxisY = ax, ay
			touchedAnalog = true
		}
	}

	if (!touchedAnalog || maxChanged == 0) && (prevHatX != -1 || prevHatY != -1) {
		m.analogDirty.Store(true)
	} else if prevHatX != m.hatX || prevHatY != m.hatY {
		m.analogDirty.Store(true)
	}

	if m.out != nil {
		m.out.SetControllerState(snap.Player, snap.Buttons, snap.AxisX, snap.AxisY)
		m.out.SetAuxiliaryButtons(snap.Aux, m.desc.Palette.Scancodes())
	}
	return snap, true
}

// analog engages pointer i with the stick and returns its axis values.
// The capture holder stays engaged at any distance; a free pointer engages
// only inside the active annulus and only while nobody holds capture.
func (m *Mapper) analog(i, x, y int) (int, int, bool) {
	a := m.desc.Analog
	if a == nil || m.layout.Analog.W <= 0 || m.layout.Analog.H <= 0 {
		return 0, 0, false
	}
	cx, cy := m.layout.AnalogCenter()
	dx := float64(x - cx)
	dy := float64(cy - y)
	d := math.Hypot(dx, dy)

	if i != m.analogPid {
		if m.analogPid >= 0 {
			return 0, 0, false
		}
		if d < float64(a.Deadzone) || d >= float64(a.Maximum+a.Padding) {
			return 0, 0, false
		}
	}

	if m.octagon {
		dx, dy = octagonClamp(dx, dy, float64(a.Maximum))
		d = math.Hypot(dx, dy)
	}
	m.analogPid = i
	m.hatX = x - m.layout.Analog.X
	m.hatY = y - m.layout.Analog.Y

	ax, ay := axes(dx, dy, d, a.Deadzone, a.Maximum)
	return ax, ay, true
}

// axes scales a stick displacement into the controller axis range.
func axes(dx, dy, d float64, deadzone, maximum int) (int, int) {
	if d == 0 {
		return 0, 0
	}
	span := float64(maximum - deadzone)
	p := d - float64(deadzone)
	if span > 0 {
		p /= span
	}
	p = math.Max(0, math.Min(1, p))
	return clampAxis(dx / d * p * AxisRange), clampAxis(dy / d * p * AxisRange)
}

// clampAxis rounds v and limits it to the controller axis range.
func clampAxis(v float64) int {
	r := int(math.Round(v))
	if r > AxisRange {
		return AxisRange
	}
	if r < -AxisRange {
		return -AxisRange
	}
	return r
}
