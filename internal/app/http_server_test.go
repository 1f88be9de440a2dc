package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/frudas24/padtouch/internal/config"
	"github.com/frudas24/padtouch/internal/profile"
	"github.com/frudas24/padtouch/internal/session"
	"github.com/frudas24/padtouch/internal/signaling"
	"github.com/frudas24/padtouch/internal/skin"
	"github.com/frudas24/padtouch/internal/testutil"
)

// newTestApp returns a started App over a temp data dir holding the Classic skin.
func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	skinDir := filepath.Join(dir, "skins", "Classic")
	if err := os.MkdirAll(skinDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, data := range testutil.ClassicSkin(t) {
		if err := os.WriteFile(filepath.Join(skinDir, name), data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	cfg := config.Config{
		ListenAddr:     "127.0.0.1:0",
		UIPassword:     "pw",
		SkinKind:       skin.Gamepad,
		DataDir:        dir,
		SkinsDir:       filepath.Join(dir, "skins"),
		FontsDir:       filepath.Join(dir, "fonts"),
		ProfilePath:    filepath.Join(dir, "profile.yaml"),
		SurfaceW:       201,
		SurfaceH:       201,
		OverlayEnabled: true,
		OverlayTickMs:  50,
		OverlayQuality: 60,
		StateSyncMs:    1000,
		AuxKeys:        true,
	}
	a, err := New(cfg, session.New(cfg.UIPassword), &testutil.FakeKeyboard{}, signaling.ControllerReplace)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = a.Stop() })
	return a
}

// newTestMux registers the app routes with an unavailable disk static dir.
func newTestMux(t *testing.T, a *App) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	a.RegisterRoutes(mux, filepath.Join(t.TempDir(), "missing"))
	return mux
}

// login authenticates the test session.
func login(t *testing.T, a *App) {
	t.Helper()
	if !a.session.Authenticate("pw") {
		t.Fatalf("expected authenticate success")
	}
}

// TestNew_RequiresDependencies verifies constructor validation.
func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := New(config.Config{}, nil, &testutil.FakeKeyboard{}, signaling.ControllerReject); err == nil {
		t.Fatalf("expected error for nil session")
	}
	if _, err := New(config.Config{}, session.New("pw"), nil, signaling.ControllerReject); err == nil {
		t.Fatalf("expected error for nil keyboard")
	}
}

// TestStart_LoadsFirstSkin verifies an empty profile falls back to the first installed skin.
func TestStart_LoadsFirstSkin(t *testing.T) {
	a := newTestApp(t)
	if got := a.controller.SkinName(); got != "Classic" {
		t.Fatalf("expected Classic, got %q", got)
	}
	if got := a.controller.SkinInfo().Author; got != "Tester" {
		t.Fatalf("expected author Tester, got %q", got)
	}
}

// TestHandleLogin verifies password checks.
func TestHandleLogin(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"password":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"password":"pw"}`)))
	if rec.Code != http.StatusOK || !a.session.IsAuthenticated() {
		t.Fatalf("expected login success, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

// TestHandleState verifies the logged-out and logged-in state payloads.
func TestHandleState(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Authenticated || resp.Skin != "" {
		t.Fatalf("expected empty logged-out state, got %+v", resp)
	}

	login(t, a)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Authenticated || resp.Skin != "Classic" || resp.Kind != "gamepad" {
		t.Fatalf("unexpected state: %+v", resp)
	}
	if resp.Surface.W != 201 || resp.Surface.H != 201 || !resp.AuxKeys || !resp.Overlay {
		t.Fatalf("unexpected state: %+v", resp)
	}
}

// TestHandleSkins verifies auth and the skin listing.
func TestHandleSkins(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/skins", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	login(t, a)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/skins", nil))
	var resp skinsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Skins) != 1 || resp.Skins[0] != "Classic" || resp.Current != "Classic" {
		t.Fatalf("unexpected skins: %+v", resp)
	}
}

// TestHandleProfile_PostPersists verifies a submitted profile is applied and saved.
func TestHandleProfile_PostPersists(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)
	login(t, a)

	body := `{"skin":"Classic","octagon":true,"player":2,"showFps":true,"auxKeys":false}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile", bytes.NewBufferString(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if a.controller.Player() != 2 || a.forwarder.Enabled() {
		t.Fatalf("expected player 2 and aux keys off, got %d/%v", a.controller.Player(), a.forwarder.Enabled())
	}

	saved, err := profile.Load(a.cfg.ProfilePath)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if saved.Player != 2 || !saved.Octagon || !saved.ShowFPS || saved.AuxKeys {
		t.Fatalf("unexpected saved profile: %+v", saved)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	var got profile.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != saved {
		t.Fatalf("expected %+v, got %+v", saved, got)
	}
}

// TestHandleProfile_UnknownSkin verifies a missing skin is reported.
func TestHandleProfile_UnknownSkin(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)
	login(t, a)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/profile", bytes.NewBufferString(`{"skin":"Missing"}`)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

// TestOverlayRoutes_RequireAuth verifies the overlay endpoints are gated.
func TestOverlayRoutes_RequireAuth(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overlay.jpg", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	login(t, a)
	a.renderer.Step()
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overlay.jpg", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("expected jpeg snapshot, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

// TestStatic_ServesEmbeddedClient verifies the minified client is served when no disk dir exists.
func TestStatic_ServesEmbeddedClient(t *testing.T) {
	a := newTestApp(t)
	mux := newTestMux(t, a)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "PadTouch") {
		t.Fatalf("expected index page, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

// TestOnSkinChanged_ReloadsActiveSkin verifies only the active skin triggers a reload.
func TestOnSkinChanged_ReloadsActiveSkin(t *testing.T) {
	a := newTestApp(t)
	before := a.controller.Scene().Generation

	a.onSkinChanged("Other")
	if got := a.controller.Scene().Generation; got != before {
		t.Fatalf("expected generation %d unchanged, got %d", before, got)
	}

	a.onSkinChanged("Classic")
	if got := a.controller.Scene().Generation; got <= before {
		t.Fatalf("expected generation above %d, got %d", before, got)
	}
}
