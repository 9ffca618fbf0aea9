// Package hostfs adapts the reconstructed object graph onto a host
// filesystem: sanitizing stored names into safe path segments and creating
// the resulting directories and files.
package hostfs

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FS creates directories and files under a root. It joins path segments as
// given; callers sanitize names with Sanitize first. The zero value is not
// usable; use New.
type FS struct {
	afero.Fs
	Root string
}

// New wraps fs (use afero.NewOsFs() in production, afero.NewMemMapFs() in
// tests) rooted at root. root is created if it does not already exist.
func New(fs afero.Fs, root string) (*FS, error) {
	if err := fs.MkdirAll(root, 0o777); err != nil {
		return nil, errors.Wrapf(err, "hostfs: create output root %q", root)
	}
	return &FS{Fs: fs, Root: root}, nil
}

// Sanitize turns a raw, possibly non-UTF8 stored name into a single safe
// path segment: path separators and colons become '_', and an empty name
// is replaced with "OBJ_<id>". This is purely structural; no encoding
// validation is performed.
func Sanitize(name []byte, objID uint32) string {
	if len(name) == 0 {
		return fmt.Sprintf("OBJ_%d", objID)
	}
	out := make([]byte, len(name))
	for i, b := range name {
		switch b {
		case '/', '\\', ':':
			out[i] = '_'
		default:
			out[i] = b
		}
	}
	return string(out)
}

// Mkdir creates directory segment under parent, returning the joined path.
func (f *FS) Mkdir(parent, segment string) (string, error) {
	p := filepath.Join(parent, segment)
	if err := f.Fs.MkdirAll(p, 0o777); err != nil {
		return "", errors.Wrapf(err, "hostfs: mkdir %q", p)
	}
	return p, nil
}

// Create opens segment under parent for writing, truncating any existing
// file, returning the joined path and the open file.
func (f *FS) Create(parent, segment string) (string, afero.File, error) {
	p := filepath.Join(parent, segment)
	out, err := f.Fs.Create(p)
	if err != nil {
		return p, nil, errors.Wrapf(err, "hostfs: create %q", p)
	}
	return p, out, nil
}
