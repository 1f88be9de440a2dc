// Package skinwatch reports which skins changed on disk.
package skinwatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

// Watcher watches a skins root and its skin folders, calling onChange once
// per skin after its files stop changing for the debounce period.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	onChange func(name string)

	mu      sync.Mutex
	pending map[string]struct{}
}

// New watches root. A non-positive debounce uses 300ms.
func New(root string, debounce time.Duration, onChange func(name string)) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("skinwatch: onChange is required")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("skinwatch: %w", err)
	}
	w := &Watcher{
		fs:       fw,
		root:     filepath.Clean(root),
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}
	if err := w.addTree(); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// addTree watches the root and every skin folder directly below it.
func (w *Watcher) addTree() error {
	if err := w.fs.Add(w.root); err != nil {
		return fmt.Errorf("skinwatch: watch %s: %w", w.root, err)
	}
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return fmt.Errorf("skinwatch: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addDir(filepath.Join(w.root, e.Name()))
		}
	}
	return nil
}

// addDir watches one skin folder, logging failures.
func (w *Watcher) addDir(dir string) {
	if err := w.fs.Add(dir); err != nil {
		log.Printf("skinwatch: watch %s: %v", dir, err)
	}
}

// Run delivers change notifications until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.handle(ev) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Printf("skinwatch: %v", err)
		case <-timer.C:
			for _, name := range w.drain() {
				w.onChange(name)
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// handle records the skin touched by ev and reports whether one was.
func (w *Watcher) handle(ev fsnotify.Event) bool {
	if ev.Op.Has(fsnotify.Chmod) && !ev.Op.Has(fsnotify.Write) {
		return false
	}
	if ev.Op.Has(fsnotify.Create) && filepath.Dir(ev.Name) == w.root {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			w.addDir(ev.Name)
		}
	}
	name, ok := SkinName(w.root, ev.Name)
	if !ok {
		return false
	}
	w.mu.Lock()
	w.pending[name] = struct{}{}
	w.mu.Unlock()
	return true
}

// drain returns and clears the pending skin names in order.
func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.pending))
	for name := range w.pending {
		out = append(out, name)
	}
	clear(w.pending)
	sort.Strings(out)
	return out
}

// archiveExts are stripped from archive file names to get the skin name.
var archiveExts = []string{".zip", ".7z", ".rar"}

// SkinName maps a changed path under root to the skin it belongs to.
func SkinName(root, path string) (string, bool) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, rest, nested := strings.Cut(filepath.ToSlash(rel), "/")
	if strings.HasPrefix(first, ".") {
		return "", false
	}
	if nested {
		return first, rest != ""
	}
	ext := strings.ToLower(filepath.Ext(first))
	for _, a := range archiveExts {
		if ext == a {
			return strings.TrimSuffix(first, filepath.Ext(first)), true
		}
	}
	return first, true
}
