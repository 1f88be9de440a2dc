package web

import (
	"bytes"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// asset is one pre-minified file.
type asset struct {
	data []byte
	mime string
}

// Assets serves a static filesystem with html/css/js minified once at startup.
type Assets struct {
	files   map[string]asset
	modTime time.Time
}

// NewAssets walks fsys and minifies every supported file.
func NewAssets(fsys fs.FS) (*Assets, error) {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	a := &Assets{files: map[string]asset{}, modTime: time.Now()}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		kind := mediaType(p)
		data := raw
		if kind != "" {
			var out bytes.Buffer
			if err := m.Minify(kind, &out, bytes.NewReader(raw)); err != nil {
				return fmt.Errorf("minify %s: %w", p, err)
			}
			data = out.Bytes()
		}
		a.files[p] = asset{data: data, mime: contentType(p)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Size returns the stored size of a file, or -1 when missing.
func (a *Assets) Size(name string) int {
	f, ok := a.files[name]
	if !ok {
		return -1
	}
	return len(f.data)
}

// ServeHTTP serves a stored asset; "/" maps to index.html.
func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}
	f, ok := a.files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if f.mime != "" {
		w.Header().Set("Content-Type", f.mime)
	}
	http.ServeContent(w, r, name, a.modTime, bytes.NewReader(f.data))
}

// mediaType returns the minifier media type for a file, or "" to store it raw.
func mediaType(name string) string {
	switch path.Ext(name) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	}
	return ""
}

// contentType returns the response Content-Type for a file.
func contentType(name string) string {
	if kind := mime.TypeByExtension(path.Ext(name)); kind != "" {
		return kind
	}
	return ""
}
