package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/frudas24/padtouch/internal/mapper"
	"github.com/frudas24/padtouch/internal/profile"
	"github.com/frudas24/padtouch/internal/session"
	"github.com/frudas24/padtouch/internal/skin"
)

// ErrNoSurface is returned for pointer events before the client reported its size.
var ErrNoSurface = errors.New("control: surface size unknown")

// Controller serializes every access to a mapper: touch frames, resizes,
// skin reloads and scene copies all take the same lock.
type Controller struct {
	mu          sync.Mutex
	m           *mapper.Mapper
	session     *session.Session
	pointers    *PointerTable
	saveProfile func(profile.Profile) error
}

// NewController wraps a mapper. saveProfile may be nil.
func NewController(m *mapper.Mapper, sess *session.Session, saveProfile func(profile.Profile) error) *Controller {
	return &Controller{
		m:           m,
		session:     sess,
		pointers:    NewPointerTable(),
		saveProfile: saveProfile,
	}
}

// ApplyProfile installs the profile's skin, stick gate and player port.
func (c *Controller) ApplyProfile(p profile.Profile) error {
	p = profile.Normalize(p)
	c.session.SetProfile(p)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.SetOctagon(p.Octagon)
	c.m.SetPlayer(p.Player)
	if p.Skin == "" {
		return nil
	}
	return c.loadSkinLocked(p.Skin)
}

// HandleRaw decodes and dispatches a JSON control message.
func (c *Controller) HandleRaw(data []byte) error {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return fmt.Errorf("decode control message: %w", err)
	}
	return c.HandleMessage(msg)
}

// HandleMessage dispatches a single control message.
func (c *Controller) HandleMessage(msg Message) error {
	switch msg.T {
	case MsgDown, MsgMove, MsgUp:
		return c.handlePointer(msg)
	case MsgCancel:
		c.Release()
		return nil
	case MsgResize:
		c.Resize(msg.W, msg.H)
		return nil
	case MsgSkin:
		err := c.LoadSkin(msg.Name)
		c.updateProfile(func(p *profile.Profile) { p.Skin = msg.Name })
		return err
	case MsgOctagon:
		if msg.Enabled != nil {
			c.mu.Lock()
			c.m.SetOctagon(*msg.Enabled)
			c.mu.Unlock()
			c.updateProfile(func(p *profile.Profile) { p.Octagon = *msg.Enabled })
		}
		return nil
	case MsgPlayer:
		c.SetPlayer(msg.Idx)
		return nil
	case MsgFPS:
		c.mu.Lock()
		c.m.UpdateFPS(msg.Value)
		c.mu.Unlock()
		return nil
	case MsgShowFPS:
		if msg.Enabled != nil {
			c.updateProfile(func(p *profile.Profile) { p.ShowFPS = *msg.Enabled })
		}
		return nil
	case MsgInputEnabled:
		if msg.Enabled != nil {
			c.session.SetInputEnabled(*msg.Enabled)
			if !*msg.Enabled {
				c.Release()
			}
		}
		return nil
	default:
		return nil
	}
}

// handlePointer applies a down/move/up event and runs one mapper frame.
func (c *Controller) handlePointer(msg Message) error {
	if !c.session.InputEnabled() {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	w, h := c.session.Surface()
	if w <= 0 || h <= 0 {
		return ErrNoSurface
	}
	// Touchpad skins lay out on a fixed pad, not the client surface.
	if l := c.m.Layout(); l.Width > 0 && l.Height > 0 {
		w, h = l.Width, l.Height
	}
	x, y := NormToSurface(msg.X, msg.Y, w, h)

	var changed bool
	switch msg.T {
	case MsgDown:
		changed = c.pointers.Down(msg.ID, x, y)
		if !changed {
			log.Printf("control: pointer %d dropped, all %d slots in use", msg.ID, mapper.MaxPointers)
		}
	case MsgMove:
		changed = c.pointers.Move(msg.ID, x, y)
	case MsgUp:
		changed = c.pointers.Up(msg.ID)
	}
	if !changed {
		return nil
	}
	c.frameLocked()
	return nil
}

// frameLocked pushes the pointer table through the mapper.
func (c *Controller) frameLocked() {
	active, xs, ys, maxChanged := c.pointers.Frame()
	c.m.UpdatePointers(active, xs, ys, maxChanged)
}

// Release lifts every pointer and emits an idle frame.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointers.Reset()
	c.frameLocked()
}

// Resize records the client surface size and re-lays out the skin.
func (c *Controller) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.session.SetSurface(w, h)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.OnSurfaceResized(w, h)
}

// LoadSkin switches to the named skin. Touches in flight are released.
func (c *Controller) LoadSkin(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadSkinLocked(name)
}

// ReloadSkin reloads the active skin from disk.
func (c *Controller) ReloadSkin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := c.m.SkinName()
	if name == "" {
		return nil
	}
	return c.loadSkinLocked(name)
}

// loadSkinLocked loads a skin and restores the surface layout.
func (c *Controller) loadSkinLocked(name string) error {
	err := c.m.LoadSkin(name)
	c.pointers.Reset()
	if w, h := c.session.Surface(); w > 0 && h > 0 {
		c.m.OnSurfaceResized(w, h)
	}
	c.frameLocked()
	return err
}

// SetPlayer selects the controller port and persists it.
func (c *Controller) SetPlayer(idx int) {
	p := c.updateProfile(func(p *profile.Profile) { p.Player = idx })
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m.SetPlayer(p.Player)
	c.frameLocked()
}

// Player returns the selected controller port.
func (c *Controller) Player() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Player()
}

// SkinName returns the active skin name.
func (c *Controller) SkinName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.SkinName()
}

// SkinInfo returns the active skin credits.
func (c *Controller) SkinInfo() skin.Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Descriptor().Info
}

// Scene copies the drawable state of the mapper.
func (c *Controller) Scene() mapper.Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m.Scene()
}

// AnalogDirty reports and clears the stick redraw flag.
func (c *Controller) AnalogDirty() bool {
	return c.m.AnalogDirty()
}

// FPSDirty reports and clears the FPS redraw flag.
func (c *Controller) FPSDirty() bool {
	return c.m.FPSDirty()
}

// updateProfile edits the session profile and persists it.
func (c *Controller) updateProfile(fn func(*profile.Profile)) profile.Profile {
	p := c.session.UpdateProfile(fn)
	if c.saveProfile != nil {
		if err := c.saveProfile(p); err != nil {
			log.Printf("control: save profile: %v", err)
		}
	}
	return p
}
