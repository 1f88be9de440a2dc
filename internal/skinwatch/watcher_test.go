package skinwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestSkinName verifies paths map to skin names.
func TestSkinName(t *testing.T) {
	root := filepath.FromSlash("/skins")
	cases := []struct {
		path string
		want string
		ok   bool
	}{
		{"/skins/Classic/pad.ini", "Classic", true},
		{"/skins/Classic/sub/a.png", "Classic", true},
		{"/skins/Retro.zip", "Retro", true},
		{"/skins/Retro.7Z", "Retro", true},
		{"/skins/NewSkin", "NewSkin", true},
		{"/skins/.hidden/pad.ini", "", false},
		{"/skins", "", false},
		{"/elsewhere/pad.ini", "", false},
	}
	for _, tc := range cases {
		got, ok := SkinName(root, filepath.FromSlash(tc.path))
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: expected (%q,%v), got (%q,%v)", tc.path, tc.want, tc.ok, got, ok)
		}
	}
}

// TestWatcher_DebouncedChange verifies writes inside a skin folder report that skin once.
func TestWatcher_DebouncedChange(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Classic")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	changed := make(chan string, 8)
	w, err := New(root, 200*time.Millisecond, func(name string) { changed <- name })
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(filepath.Join(dir, "pad.ini"), []byte{byte('a' + i)}, 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case name := <-changed:
		if name != "Classic" {
			t.Fatalf("expected Classic, got %q", name)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected a change notification")
	}
	select {
	case name := <-changed:
		t.Fatalf("expected a single debounced notification, got extra %q", name)
	case <-time.After(400 * time.Millisecond):
	}
}

// TestNew_RequiresCallback verifies a nil callback is rejected.
func TestNew_RequiresCallback(t *testing.T) {
	if _, err := New(t.TempDir(), 0, nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}

// TestNew_MissingRoot verifies a missing root is reported.
func TestNew_MissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), 0, func(string) {}); err == nil {
		t.Fatalf("expected error for missing root")
	}
}
