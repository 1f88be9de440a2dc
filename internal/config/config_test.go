package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frudas24/padtouch/internal/skin"
)

// clearEnv unsets every key Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LISTEN_ADDR", "UI_PASSWORD", "SKIN_KIND", "DATA_DIR", "SKINS_DIR", "FONTS_DIR",
		"PROFILE_PATH", "SURFACE_W", "SURFACE_H", "OVERLAY_ENABLED", "OVERLAY_TICK_MS",
		"OVERLAY_QUALITY", "STATE_SYNC_MS", "WATCH_SKINS", "AUX_KEYS",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

// TestLoad_Defaults verifies defaults derive from the data directory.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("UI_PASSWORD", "pw")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != defaultListenAddr || cfg.SkinKind != skin.Gamepad {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.SkinsDir != filepath.Join(dir, "skins", "gamepads") || cfg.ProfilePath != filepath.Join(dir, "profile.yaml") {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if cfg.SurfaceW != 1280 || cfg.SurfaceH != 720 || cfg.OverlayTickMs != 100 || cfg.OverlayQuality != 60 {
		t.Fatalf("unexpected numbers: %+v", cfg)
	}
	if !cfg.OverlayEnabled || !cfg.WatchSkins || !cfg.AuxKeys {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

// TestLoad_EnvFile verifies .env values apply and environment overrides win.
func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := "UI_PASSWORD=fromfile\nSKIN_KIND=touchpad\nSURFACE_W=966\nWATCH_SKINS=no\nLISTEN_ADDR=127.0.0.1:1\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LISTEN_ADDR", "127.0.0.1:2")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UIPassword != "fromfile" || cfg.SkinKind != skin.Touchpad || cfg.SurfaceW != 966 {
		t.Fatalf("expected .env values, got %+v", cfg)
	}
	if cfg.WatchSkins {
		t.Fatalf("expected WATCH_SKINS=no to disable watching")
	}
	if cfg.ListenAddr != "127.0.0.1:2" {
		t.Fatalf("expected environment override, got %q", cfg.ListenAddr)
	}
}

// TestLoad_RequiresPassword verifies UI_PASSWORD is mandatory.
func TestLoad_RequiresPassword(t *testing.T) {
	clearEnv(t)
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error without UI_PASSWORD")
	}
}

// TestLoad_Validation verifies invalid numbers and kinds are rejected.
func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"SURFACE_W":       "wide",
		"OVERLAY_QUALITY": "500",
		"OVERLAY_TICK_MS": "0",
		"SKIN_KIND":       "keyboard",
	}
	for key, value := range cases {
		clearEnv(t)
		t.Setenv("UI_PASSWORD", "pw")
		t.Setenv(key, value)
		if _, err := Load(t.TempDir()); err == nil {
			t.Fatalf("expected error for %s=%s", key, value)
		}
	}
}
