// Package app wires HTTP, signaling, the mapper and its outputs together.
package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/frudas24/padtouch/internal/config"
	"github.com/frudas24/padtouch/internal/control"
	"github.com/frudas24/padtouch/internal/hub"
	"github.com/frudas24/padtouch/internal/keys"
	"github.com/frudas24/padtouch/internal/mapper"
	"github.com/frudas24/padtouch/internal/overlay"
	"github.com/frudas24/padtouch/internal/profile"
	"github.com/frudas24/padtouch/internal/session"
	"github.com/frudas24/padtouch/internal/signaling"
	"github.com/frudas24/padtouch/internal/skin"
	"github.com/frudas24/padtouch/internal/skinpack"
	"github.com/frudas24/padtouch/internal/skinwatch"
	"github.com/frudas24/padtouch/internal/webrtc"
)

const skinDebounce = 300 * time.Millisecond

// App coordinates the HTTP API, websocket servers, and the mapper outputs.
type App struct {
	mu          sync.Mutex
	cfg         config.Config
	session     *session.Session
	controller  *control.Controller
	control     *control.Server
	endpoint    *webrtc.Endpoint
	signaling   *signaling.Server
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	state       *hub.Server
	forwarder   *keys.Forwarder
	stream      *overlay.Stream
	renderer    *overlay.Renderer
	watcher     *skinwatch.Watcher
}

// New creates a new application with its dependencies wired.
func New(cfg config.Config, sess *session.Session, kb keys.Keyboard, policy signaling.ControllerPolicy) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if kb == nil {
		return nil, errors.New("keyboard is required")
	}

	a := &App{
		cfg:       cfg,
		session:   sess,
		hub:       hub.NewHub(),
		forwarder: keys.NewForwarder(kb),
	}
	a.broadcaster = hub.NewBroadcaster(a.hub, time.Duration(cfg.StateSyncMs)*time.Millisecond)

	m := mapper.New(mapper.Options{
		Kind:    cfg.SkinKind,
		Resolve: a.openSkin,
		Fonts:   skin.DirSource(cfg.FontsDir),
		Output:  mapper.MultiOutput{a.broadcaster, a.forwarder},
	})
	a.controller = control.NewController(m, sess, a.saveProfile)

	endpoint, err := webrtc.NewEndpoint(a.controller)
	if err != nil {
		return nil, err
	}
	a.endpoint = endpoint
	a.signaling = signaling.NewServer(endpoint, policy, sess.IsAuthenticated)
	a.control = control.NewServer(sess, a.controller)
	a.state = hub.NewServer(a.hub, a.broadcaster, a.controller, profile.MaxPlayers, sess.IsAuthenticated)

	if cfg.OverlayEnabled {
		tick := time.Duration(cfg.OverlayTickMs) * time.Millisecond
		a.stream = overlay.NewStream(tick)
		a.renderer = overlay.NewRenderer(a.controller, a.stream, overlay.Options{
			Tick:    tick,
			Quality: cfg.OverlayQuality,
			ShowFPS: func() bool { return sess.Profile().ShowFPS },
		})
	}
	return a, nil
}

// Start loads the persisted profile, applies it and starts watching skins.
func (a *App) Start() error {
	p, err := profile.Load(a.cfg.ProfilePath)
	if err != nil {
		return err
	}
	if p.Skin == "" {
		p.Skin = a.firstSkin()
	}

	a.controller.Resize(a.cfg.SurfaceW, a.cfg.SurfaceH)
	if err := a.controller.ApplyProfile(p); err != nil {
		log.Printf("skin: %s: %v", p.Skin, err)
	}
	a.forwarder.SetEnabled(a.cfg.AuxKeys && p.AuxKeys)

	if a.cfg.WatchSkins {
		w, err := skinwatch.New(a.cfg.SkinsDir, skinDebounce, a.onSkinChanged)
		if err != nil {
			log.Printf("skinwatch: disabled: %v", err)
		} else {
			a.watcher = w
		}
	}
	return nil
}

// Run drives the background workers until ctx is done.
func (a *App) Run(ctx context.Context) {
	var wg sync.WaitGroup
	spawn := func(fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(ctx)
		}()
	}
	spawn(a.hub.Run)
	spawn(a.broadcaster.Run)
	if a.renderer != nil {
		spawn(a.renderer.Run)
	}
	if a.watcher != nil {
		spawn(a.watcher.Run)
	}
	wg.Wait()
}

// Stop releases held input and closes the peer and watcher.
func (a *App) Stop() error {
	a.controller.Release()
	a.forwarder.Release()
	a.endpoint.ClosePeer()
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

// ApplyProfile installs and persists a profile submitted by the client.
func (a *App) ApplyProfile(p profile.Profile) (profile.Profile, error) {
	p = profile.Normalize(p)
	err := a.controller.ApplyProfile(p)
	a.forwarder.SetEnabled(a.cfg.AuxKeys && p.AuxKeys)
	if saveErr := a.saveProfile(p); saveErr != nil {
		return p, saveErr
	}
	return p, err
}

// openSkin resolves a skin name inside the skins directory.
func (a *App) openSkin(name string) (skin.Source, error) {
	return skinpack.Open(a.cfg.SkinsDir, name)
}

// saveProfile persists the profile. Writes are serialized.
func (a *App) saveProfile(p profile.Profile) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return profile.Save(a.cfg.ProfilePath, p)
}

// firstSkin returns the first installed skin, or "" when none exist.
func (a *App) firstSkin() string {
	names, err := skinpack.List(a.cfg.SkinsDir)
	if err != nil || len(names) == 0 {
		return ""
	}
	return names[0]
}

// onSkinChanged reloads the active skin when its files change on disk.
func (a *App) onSkinChanged(name string) {
	if name != a.controller.SkinName() {
		return
	}
	log.Printf("skinwatch: reloading %s", name)
	if err := a.controller.ReloadSkin(); err != nil {
		log.Printf("skinwatch: reload %s: %v", name, err)
	}
}

// Signaling returns the signaling websocket handler.
func (a *App) Signaling() *signaling.Server {
	return a.signaling
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// State returns the controller state websocket handler.
func (a *App) State() *hub.Server {
	return a.state
}

// OverlayStream returns the overlay MJPEG stream, or nil when disabled.
func (a *App) OverlayStream() *overlay.Stream {
	return a.stream
}
