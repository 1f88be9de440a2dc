package app

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/frudas24/padtouch/internal/profile"
	"github.com/frudas24/padtouch/internal/skin"
	"github.com/frudas24/padtouch/internal/skinpack"
	"github.com/frudas24/padtouch/internal/web"
)

// RegisterRoutes wires API and static handlers onto the mux.
func (a *App) RegisterRoutes(mux *http.ServeMux, staticDir string) {
	if staticDir == "" {
		staticDir = filepath.Join("internal", "web", "static")
	}

	mux.HandleFunc("/login", a.handleLogin)
	mux.HandleFunc("/logout", a.handleLogout)
	mux.HandleFunc("/api/state", a.handleState)
	mux.HandleFunc("/api/skins", a.handleSkins)
	mux.HandleFunc("/api/profile", a.handleProfile)
	mux.Handle("/ws/signal", a.Signaling())
	mux.Handle("/ws/control", a.Control())
	mux.Handle("/ws/state", a.State())
	mux.HandleFunc("/favicon.ico", handleFavicon)
	if stream := a.OverlayStream(); stream != nil {
		mux.HandleFunc("/mjpeg/overlay", a.authorized(stream.Handler))
		mux.HandleFunc("/overlay.jpg", a.authorized(stream.SnapshotHandler))
	}

	mux.Handle("/", staticFileServer(staticDir))
}

type loginRequest struct {
	Password string `json:"password"`
}

type surfaceSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type stateResponse struct {
	Authenticated bool        `json:"authenticated"`
	InputEnabled  bool        `json:"inputEnabled"`
	Kind          string      `json:"kind"`
	Surface       surfaceSize `json:"surface"`
	Skin          string      `json:"skin"`
	SkinInfo      skin.Info   `json:"skinInfo"`
	Octagon       bool        `json:"octagon"`
	Player        int         `json:"player"`
	ShowFPS       bool        `json:"showFps"`
	AuxKeys       bool        `json:"auxKeys"`
	StateClients  int         `json:"stateClients"`
	Overlay       bool        `json:"overlay"`
}

type skinsResponse struct {
	Skins   []string `json:"skins"`
	Current string   `json:"current"`
}

// handleLogin authenticates the session.
func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if !a.session.Authenticate(req.Password) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleLogout clears authentication state and lifts held input.
func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.session.Logout()
	a.controller.Release()
	writeJSON(w, map[string]bool{"ok": true})
}

// handleState returns the session and active skin state. Unauthenticated
// callers only learn that they are logged out.
func (a *App) handleState(w http.ResponseWriter, _ *http.Request) {
	snap := a.session.Snapshot()
	if !snap.Authenticated {
		writeJSON(w, stateResponse{})
		return
	}
	writeJSON(w, stateResponse{
		Authenticated: true,
		InputEnabled:  snap.InputEnabled,
		Kind:          a.cfg.SkinKind.String(),
		Surface:       surfaceSize{W: snap.SurfaceW, H: snap.SurfaceH},
		Skin:          a.controller.SkinName(),
		SkinInfo:      a.controller.SkinInfo(),
		Octagon:       snap.Profile.Octagon,
		Player:        a.controller.Player(),
		ShowFPS:       snap.Profile.ShowFPS,
		AuxKeys:       a.forwarder.Enabled(),
		StateClients:  a.hub.Count(),
		Overlay:       a.stream != nil,
	})
}

// handleSkins lists the installed skins.
func (a *App) handleSkins(w http.ResponseWriter, _ *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	names, err := skinpack.List(a.cfg.SkinsDir)
	if err != nil {
		log.Printf("skins: %v", err)
		http.Error(w, "failed to list skins", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, skinsResponse{Skins: names, Current: a.controller.SkinName()})
}

// handleProfile returns or replaces the persisted profile.
func (a *App) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !a.requireAuth(w) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, a.session.Profile())
	case http.MethodPost:
		var p profile.Profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		applied, err := a.ApplyProfile(p)
		if err != nil {
			log.Printf("profile: %v", err)
			w.WriteHeader(http.StatusUnprocessableEntity)
			writeJSON(w, map[string]any{"profile": applied, "error": err.Error()})
			return
		}
		writeJSON(w, map[string]any{"profile": applied})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// authorized wraps a handler with the session check.
func (a *App) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.requireAuth(w) {
			return
		}
		next(w, r)
	}
}

// requireAuth returns false and writes an error if the session is not authenticated.
func (a *App) requireAuth(w http.ResponseWriter) bool {
	if !a.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// staticFileServer returns a handler for static assets, preferring disk then
// the minified embedded copy.
func staticFileServer(staticDir string) http.Handler {
	if staticDir != "" {
		if info, err := os.Stat(staticDir); err == nil && info.IsDir() {
			return http.FileServer(http.Dir(staticDir))
		}
	}

	embedded, err := web.StaticFS()
	if err != nil {
		log.Printf("static assets unavailable: %v", err)
		return http.NotFoundHandler()
	}
	assets, err := web.NewAssets(embedded)
	if err != nil {
		log.Printf("static assets: minify failed, serving raw: %v", err)
		return http.FileServer(http.FS(embedded))
	}
	return assets
}

// handleFavicon avoids noisy 404s for the default browser request.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
