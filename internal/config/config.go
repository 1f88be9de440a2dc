// Package config loads environment configuration for padtouch.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frudas24/padtouch/internal/skin"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	defaultListenAddr     = "0.0.0.0:8787"
	defaultDataDir        = "./data"
	defaultSkinKind       = "gamepad"
	defaultSurfaceW       = 1280
	defaultSurfaceH       = 720
	defaultOverlayEnabled = true
	defaultOverlayTickMs  = 100
	defaultOverlayQuality = 60
	defaultStateSyncMs    = 1000
	defaultWatchSkins     = true
	defaultAuxKeys        = true
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr     string
	UIPassword     string
	SkinKind       skin.Kind
	DataDir        string
	SkinsDir       string
	FontsDir       string
	ProfilePath    string
	SurfaceW       int
	SurfaceH       int
	OverlayEnabled bool
	OverlayTickMs  int
	OverlayQuality int
	StateSyncMs    int
	WatchSkins     bool
	AuxKeys        bool
}

// Load reads configuration from <data dir>/.env and environment variables.
// An empty dataDir falls back to DATA_DIR, then ./data.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		dataDir = strings.TrimSpace(os.Getenv("DATA_DIR"))
	}
	if dataDir == "" {
		dataDir = defaultDataDir
	}

	v := viper.New()
	v.SetDefault("LISTEN_ADDR", defaultListenAddr)
	v.SetDefault("SKIN_KIND", defaultSkinKind)
	v.SetDefault("FONTS_DIR", filepath.Join(dataDir, "fonts"))
	v.SetDefault("PROFILE_PATH", filepath.Join(dataDir, "profile.yaml"))
	v.SetDefault("SURFACE_W", defaultSurfaceW)
	v.SetDefault("SURFACE_H", defaultSurfaceH)
	v.SetDefault("OVERLAY_ENABLED", defaultOverlayEnabled)
	v.SetDefault("OVERLAY_TICK_MS", defaultOverlayTickMs)
	v.SetDefault("OVERLAY_QUALITY", defaultOverlayQuality)
	v.SetDefault("STATE_SYNC_MS", defaultStateSyncMs)
	v.SetDefault("WATCH_SKINS", defaultWatchSkins)
	v.SetDefault("AUX_KEYS", defaultAuxKeys)
	v.AutomaticEnv()

	if err := loadEnvFile(v, filepath.Join(dataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:  strings.TrimSpace(v.GetString("LISTEN_ADDR")),
		UIPassword:  strings.TrimSpace(v.GetString("UI_PASSWORD")),
		DataDir:     dataDir,
		SkinsDir:    strings.TrimSpace(v.GetString("SKINS_DIR")),
		FontsDir:    strings.TrimSpace(v.GetString("FONTS_DIR")),
		ProfilePath: strings.TrimSpace(v.GetString("PROFILE_PATH")),
	}

	switch kind := strings.ToLower(strings.TrimSpace(v.GetString("SKIN_KIND"))); kind {
	case "gamepad", "touchpad":
		cfg.SkinKind = skin.ParseKind(kind)
	default:
		return Config{}, fmt.Errorf("SKIN_KIND must be gamepad or touchpad")
	}
	if cfg.SkinsDir == "" {
		cfg.SkinsDir = filepath.Join(dataDir, "skins", cfg.SkinKind.Dir())
	}

	ints := []struct {
		key   string
		dst   *int
		check func(int) bool
		rule  string
	}{
		{"SURFACE_W", &cfg.SurfaceW, positive, "> 0"},
		{"SURFACE_H", &cfg.SurfaceH, positive, "> 0"},
		{"OVERLAY_TICK_MS", &cfg.OverlayTickMs, positive, "> 0"},
		{"OVERLAY_QUALITY", &cfg.OverlayQuality, func(n int) bool { return n > 0 && n <= 100 }, "1-100"},
		{"STATE_SYNC_MS", &cfg.StateSyncMs, positive, "> 0"},
	}
	for _, f := range ints {
		n, err := envInt(v, f.key)
		if err != nil {
			return Config{}, err
		}
		if !f.check(n) {
			return Config{}, fmt.Errorf("%s must be %s", f.key, f.rule)
		}
		*f.dst = n
	}

	cfg.OverlayEnabled = envBool(v, "OVERLAY_ENABLED", defaultOverlayEnabled)
	cfg.WatchSkins = envBool(v, "WATCH_SKINS", defaultWatchSkins)
	cfg.AuxKeys = envBool(v, "AUX_KEYS", defaultAuxKeys)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}

	return cfg, nil
}

// positive reports whether n is greater than zero.
func positive(n int) bool {
	return n > 0
}

// envInt reads an integer setting, rejecting non-numeric values.
func envInt(v *viper.Viper, key string) (int, error) {
	raw := v.Get(key)
	if s, ok := raw.(string); ok {
		raw = strings.TrimSpace(s)
	}
	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// envBool reads a boolean setting, accepting yes/no and on/off spellings.
func envBool(v *viper.Viper, key string, def bool) bool {
	raw := v.Get(key)
	s, ok := raw.(string)
	if !ok {
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return def
		}
		return b
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile merges KEY=VALUE pairs from a .env file when it exists.
// Environment variables keep precedence over the file.
func loadEnvFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
