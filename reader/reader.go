// Package reader discovers Markdown files under a root directory and
// computes their stable identity (path, title, checksum, size, mtime).
package reader

import (
	"crypto/md5"
	"encoding/hex"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dotmd/dotmd/core"
)

var markdownExt = map[string]bool{
	".md":       true,
	".markdown": true,
}

// Reader discovers Markdown files and produces core.File records.
type Reader struct {
	logger *slog.Logger
}

// New creates a Reader.
func New() *Reader {
	return &Reader{logger: slog.Default().With("component", "reader")}
}

// FileResult pairs a discovered file with the raw bytes read from disk, so
// downstream chunking does not need to re-read the file.
type FileResult struct {
	File    core.File
	Content []byte
}

// Walk recursively discovers Markdown files under root. I/O failures on
// individual files are reported via onError and the file is skipped; the
// walk itself does not abort. Returns a slice for simplicity of use by the
// ingestion worker pool, which fans out over it.
func (r *Reader) Walk(root string, onError func(path string, err error)) ([]FileResult, error) {
	var results []FileResult

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if onError != nil {
				onError(path, wrapReadError(err))
			}
			r.logger.Warn("error walking path", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !markdownExt[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		fr, err := r.readOne(path, d)
		if err != nil {
			if onError != nil {
				onError(path, err)
			}
			r.logger.Warn("skipping unreadable file", "path", path, "err", err)
			return nil
		}
		results = append(results, fr)
		return nil
	})

	return results, err
}

func (r *Reader) readOne(path string, d fs.DirEntry) (FileResult, error) {
	info, err := d.Info()
	if err != nil {
		return FileResult{}, wrapReadError(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, wrapReadError(err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return FileResult{
		File: core.File{
			Path:     abs,
			Title:    deriveTitle(data, path),
			Checksum: checksum(data),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		},
		Content: data,
	}, nil
}

// deriveTitle returns the text of the first H1 heading, else the filename
// stem, per spec.md §4.1.
func deriveTitle(data []byte, path string) string {
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// checksum computes a fast, stable content hash. MD5 is used only as a
// content-identity fingerprint (never for security), matching the
// "fast 128-bit hash" spec.md §4.1 asks for.
func checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func wrapReadError(err error) error {
	return &ReadError{Cause: err}
}
