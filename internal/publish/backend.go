package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Backend stores published objects by name.
type Backend interface {
	// Read returns the object's bytes, or an error wrapping fs.ErrNotExist.
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte, contentType string) error
	Location(name string) string
}

// DirBackend writes objects as files under a directory. Writes go to a temp file
// that is renamed into place so readers never observe a partial feed.
type DirBackend struct {
	dir string
}

// NewDirBackend returns a backend rooted at dir.
func NewDirBackend(dir string) *DirBackend {
	return &DirBackend{dir: dir}
}

// Dir exposes the backend root.
func (b *DirBackend) Dir() string {
	if b == nil {
		return ""
	}
	return b.dir
}

func (b *DirBackend) Read(ctx context.Context, name string) ([]byte, error) {
	_ = ctx
	path, err := b.path(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (b *DirBackend) Write(ctx context.Context, name string, data []byte, contentType string) error {
	_ = ctx
	_ = contentType
	target, err := b.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (b *DirBackend) Location(name string) string {
	return filepath.Join(b.Dir(), name)
}

func (b *DirBackend) path(name string) (string, error) {
	if b == nil {
		return "", errors.New("publish directory not configured")
	}
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid object name %q: %w", name, fs.ErrInvalid)
	}
	return filepath.Join(b.dir, name), nil
}
