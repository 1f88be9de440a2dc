package skin

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"strconv"
	"strings"

	"github.com/frudas24/padtouch/internal/geom"
	"gopkg.in/ini.v1"
)

// ConfigFile is the skin definition file inside a skin directory.
const ConfigFile = "pad.ini"

const (
	sectionInfo      = "INFO"
	sectionMaskColor = "MASK_COLOR"
	scancodePrefix   = "scancode_"

	defaultMinPct  = 1
	defaultMaxPct  = 55
	defaultBuffPct = 55
	defaultNumPct  = 50
	defaultFPSRate = 15
	minFPSRate     = 2
)

// Options controls how a skin is loaded.
type Options struct {
	Kind Kind
	// Fonts serves FPS digit sprites as "<font>/<digit>.png". Optional.
	Fonts Source
}

// Load parses pad.ini from src and loads every referenced asset.
// It always returns a usable descriptor; on error the descriptor is inert.
func Load(src Source, opts Options) (*Descriptor, error) {
	if src == nil {
		return Empty(opts.Kind), errors.New("skin: no source")
	}
	data, err := src.ReadFile(ConfigFile)
	if err != nil {
		return Empty(opts.Kind), fmt.Errorf("read %s: %w", ConfigFile, err)
	}
	file, err := parseConfig(data)
	if err != nil {
		return Empty(opts.Kind), fmt.Errorf("parse %s: %w", ConfigFile, err)
	}

	l := &loader{src: src, opts: opts}
	desc := Empty(opts.Kind)
	for _, sec := range file.Sections() {
		name := sec.Name()
		switch {
		case name == ini.DefaultSection || name == "":
			continue
		case strings.EqualFold(name, sectionInfo):
			desc.Info = Info{
				Name:    sec.Key("name").String(),
				Version: sec.Key("version").String(),
				About:   sec.Key("about").String(),
				Author:  sec.Key("author").String(),
			}
		case strings.EqualFold(name, sectionMaskColor):
			desc.Palette = parsePalette(sec)
		default:
			l.control(desc, sec)
		}
	}
	return desc, nil
}

// parseConfig reads the INI-like skin format.
func parseConfig(data []byte) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, data)
}

// parsePalette builds the palette from the MASK_COLOR section.
func parsePalette(sec *ini.Section) Palette {
	p := NewPalette()
	for _, key := range sec.Keys() {
		name := strings.ToLower(key.Name())
		color := ParseColor(key.Value())
		if b, ok := ParseButton(name); ok {
			p.Slots[b] = color
			continue
		}
		if !strings.HasPrefix(name, scancodePrefix) {
			continue
		}
		code, err := strconv.Atoi(strings.TrimPrefix(name, scancodePrefix))
		if err != nil {
			continue
		}
		if len(p.Aux) >= MaxAux {
			log.Printf("skin: ignoring %s, at most %d auxiliary buttons", name, MaxAux)
			continue
		}
		p.Aux = append(p.Aux, AuxColor{Scancode: code, Color: color})
	}
	return p
}

// loader resolves assets for one Load call.
type loader struct {
	src  Source
	opts Options
}

// control classifies a filename section and registers it on desc.
func (l *loader) control(desc *Descriptor, sec *ini.Section) {
	name := sec.Name()
	info := strings.ToLower(sec.Key("info").String())
	switch {
	case strings.Contains(info, "analog"):
		desc.Analog = l.analog(name, sec, strings.Contains(info, "hat"))
	case strings.Contains(info, "fps"):
		if l.opts.Kind == Gamepad {
			desc.FPS = l.fps(name, sec)
		}
	default:
		if len(desc.Regions) >= MaxRegions {
			log.Printf("skin: ignoring %s, at most %d buttons", name, MaxRegions)
			return
		}
		desc.Regions = append(desc.Regions, l.region(name, sec))
	}
}

// region loads a button sprite and mask.
func (l *loader) region(name string, sec *ini.Section) Region {
	r := Region{
		Name:     name,
		XPercent: sec.Key("x").MustInt(0),
		YPercent: sec.Key("y").MustInt(0),
	}
	if l.opts.Kind == Gamepad {
		r.Sprite = l.image(name + ".png")
	}
	if img := l.image(name + ".bmp"); img != nil {
		r.Mask = NewMask(img)
	}
	return r
}

// analog loads the stick control and converts its radii to pixels.
func (l *loader) analog(name string, sec *ini.Section, hat bool) *Analog {
	a := &Analog{
		Name:     name,
		XPercent: sec.Key("x").MustInt(0),
		YPercent: sec.Key("y").MustInt(0),
	}
	var base image.Image
	if l.opts.Kind == Gamepad {
		a.Sprite = l.image(name + ".png")
		base = a.Sprite
		if hat {
			a.Hat = true
			a.HatSprite = l.image(name + "_2.png")
		}
	} else {
		base = l.image(name + ".bmp")
	}
	if base != nil {
		a.W = base.Bounds().Dx()
		a.H = base.Bounds().Dy()
	}
	hw := a.W / 2
	a.Deadzone = geom.PercentOf(hw, sec.Key("min").MustFloat64(defaultMinPct))
	a.Maximum = geom.PercentOf(hw, sec.Key("max").MustFloat64(defaultMaxPct))
	a.Padding = geom.PercentOf(hw, sec.Key("buff").MustFloat64(defaultBuffPct))
	return a
}

// fps loads the frame-rate indicator and its digit font.
func (l *loader) fps(name string, sec *ini.Section) *FPSIndicator {
	f := &FPSIndicator{
		Name:        name,
		XPercent:    sec.Key("x").MustInt(0),
		YPercent:    sec.Key("y").MustInt(0),
		NumXPercent: sec.Key("numx").MustInt(defaultNumPct),
		NumYPercent: sec.Key("numy").MustInt(defaultNumPct),
		Rate:        sec.Key("rate").MustInt(defaultFPSRate),
		Font:        strings.TrimSpace(sec.Key("font").String()),
		Sprite:      l.image(name + ".png"),
	}
	if f.Rate < minFPSRate {
		f.Rate = minFPSRate
	}
	if f.Font == "" || l.opts.Fonts == nil {
		return f
	}
	for d := range f.Digits {
		f.Digits[d] = readImage(l.opts.Fonts, fmt.Sprintf("%s/%d.png", f.Font, d))
	}
	return f
}

// image reads and decodes a skin asset, returning nil when unavailable.
func (l *loader) image(name string) image.Image {
	return readImage(l.src, name)
}

// readImage reads and decodes an asset, logging anything other than a missing file.
func readImage(src Source, name string) image.Image {
	data, err := src.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("skin: missing asset %s", name)
		} else {
			log.Printf("skin: read %s: %v", name, err)
		}
		return nil
	}
	img, err := decodeImage(data)
	if err != nil {
		log.Printf("skin: %s: %v", name, err)
		return nil
	}
	return img
}
