package httpx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore is the filesystem seen by the /files/ routes. Names are single
// path segments.
type FileStore interface {
	Exists(name string) bool
	// ReadAll fails with ErrNotFound if name is absent.
	ReadAll(name string) ([]byte, error)
	// WriteAll creates or truncates name. Failures wrap ErrStorage.
	WriteAll(name string, data []byte) error
}

// DirStore is a FileStore rooted at a directory on disk.
type DirStore struct {
	Root string
}

func NewDirStore(root string) DirStore { return DirStore{Root: root} }

// ValidFileName reports whether name is a single, non-traversing segment.
func ValidFileName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}

func (d DirStore) resolve(name string) (string, error) {
	if !ValidFileName(name) {
		return "", fmt.Errorf("%w: %q", ErrBadPath, name)
	}
	return filepath.Join(d.Root, name), nil
}

func (d DirStore) Exists(name string) bool {
	p, err := d.resolve(name)
	if err != nil {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

func (d DirStore) ReadAll(name string) ([]byte, error) {
	p, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return b, nil
}

func (d DirStore) WriteAll(name string, data []byte) error {
	p, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
