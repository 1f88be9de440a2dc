package skinpack

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/frudas24/padtouch/internal/skin"
	"github.com/nwaples/rardecode/v2"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

// maxAssetSize caps every extracted file.
const maxAssetSize = 8 * 1024 * 1024

// ErrUnsupportedFormat is returned for files that are not a known archive.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// ErrFileTooLarge is returned when an extracted asset exceeds the size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size limit")

// ErrNoConfig is returned when an archive holds no pad.ini.
var ErrNoConfig = errors.New("no " + skin.ConfigFile + " in archive")

type formatType int

const (
	formatUnknown formatType = iota
	formatZIP
	format7z
	formatRAR
)

// openArchive extracts an archive into memory and roots it at its pad.ini.
func openArchive(p string) (skin.Source, error) {
	header, err := readHeader(p)
	if err != nil {
		return nil, err
	}
	var files map[string][]byte
	switch detectFormat(header) {
	case formatZIP:
		files, err = extractZIP(p)
	case format7z:
		files, err = extract7z(p)
	case formatRAR:
		files, err = extractRAR(p)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return rebase(files)
}

// readHeader reads the first bytes of a file for magic detection.
func readHeader(p string) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	return header[:n], nil
}

// detectFormat identifies an archive by its magic bytes.
func detectFormat(header []byte) formatType {
	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	default:
		return formatUnknown
	}
}

// extractZIP reads every regular file from a zip archive.
func extractZIP(p string) (map[string][]byte, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	files := make(map[string][]byte)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f.Name, f.Open)
		if err != nil {
			return nil, err
		}
		files[cleanName(f.Name)] = data
	}
	return files, nil
}

// extract7z reads every regular file from a 7z archive.
func extract7z(p string) (map[string][]byte, error) {
	r, err := sevenzip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open 7z: %w", err)
	}
	defer r.Close()

	files := make(map[string][]byte)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readEntry(f.Name, f.Open)
		if err != nil {
			return nil, err
		}
		files[cleanName(f.Name)] = data
	}
	return files, nil
}

// extractRAR reads every regular file from a rar archive.
func extractRAR(p string) (map[string][]byte, error) {
	r, err := rardecode.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("open rar: %w", err)
	}
	defer r.Close()

	files := make(map[string][]byte)
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rar entry: %w", err)
		}
		if header.IsDir {
			continue
		}
		data, err := limitedRead(r)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", header.Name, err)
		}
		files[cleanName(header.Name)] = data
	}
	return files, nil
}

// readEntry opens an archive entry and reads it under the size limit.
func readEntry(name string, open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, fmt.Errorf("open %s in archive: %w", name, err)
	}
	defer rc.Close()
	data, err := limitedRead(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// limitedRead reads from r up to maxAssetSize bytes, returning an error if exceeded.
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxAssetSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAssetSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// cleanName normalizes an archive path to slash form without a leading slash.
func cleanName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// rebase keeps the files next to the shallowest pad.ini, relative to it.
func rebase(files map[string][]byte) (skin.Source, error) {
	base := ""
	found := false
	for name := range files {
		if !strings.EqualFold(path.Base(name), skin.ConfigFile) {
			continue
		}
		dir := path.Dir(name)
		if !found || depth(dir) < depth(base) || (depth(dir) == depth(base) && dir < base) {
			base = dir
			found = true
		}
	}
	if !found {
		return nil, ErrNoConfig
	}
	src := skin.MapSource{}
	for name, data := range files {
		rel := name
		if base != "." {
			if !strings.HasPrefix(name, base+"/") {
				continue
			}
			rel = strings.TrimPrefix(name, base+"/")
		}
		if strings.EqualFold(rel, skin.ConfigFile) {
			rel = skin.ConfigFile
		}
		src[rel] = data
	}
	return src, nil
}

// depth counts the path elements of a cleaned directory.
func depth(dir string) int {
	if dir == "." || dir == "" {
		return 0
	}
	return strings.Count(dir, "/") + 1
}
