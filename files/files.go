// SPDX-License-Identifier: EPL-2.0

// Package files resolves asset paths for sketches.
//
// Absolute paths are read from the operating system. Relative paths are
// read from the packaged asset store, an fs.FS rooted at the asset
// directory of the project.
package files

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNoAssets is returned for a relative path when no asset store is set.
var ErrNoAssets = errors.New("files: no asset store")

// Loader reads files on behalf of sketches.
type Loader struct {
	// Assets serves relative paths. It may be nil.
	Assets fs.FS
	Logger *slog.Logger
}

// NewLoader returns a loader whose asset store is the directory dir.
// An empty dir leaves the asset store unset.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	l := &Loader{Logger: logger}
	if dir != "" {
		l.Assets = os.DirFS(dir)
	}
	return l
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// Open opens name. The caller closes the returned reader.
func (l *Loader) Open(name string) (io.ReadCloser, error) {
	if filepath.IsAbs(name) {
		return os.Open(name)
	}
	if l.Assets == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoAssets, name)
	}
	return l.Assets.Open(assetPath(name))
}

// ReadFile returns the whole content of name, or nil when it cannot be
// read. Failures are logged.
func (l *Loader) ReadFile(name string) []byte {
	var (
		data []byte
		err  error
	)
	switch {
	case filepath.IsAbs(name):
		data, err = os.ReadFile(name)
	case l.Assets == nil:
		err = fmt.Errorf("%w: %q", ErrNoAssets, name)
	default:
		data, err = fs.ReadFile(l.Assets, assetPath(name))
	}
	if err != nil {
		l.logger().Error("read file failed", "component", "files", "path", name, "err", err)
		return nil
	}
	return data
}

// assetPath converts an OS-style relative path to an fs.FS path.
func assetPath(name string) string {
	p := path.Clean(filepath.ToSlash(name))
	return strings.TrimPrefix(p, "./")
}
