package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// localScratch implements Scratch on a directory created by os.MkdirTemp.
type localScratch struct {
	dir string
}

// WithTempDir creates a fresh, uniquely named directory under root (os.TempDir when empty),
// passes it to fn and removes it with all its contents before returning.
// Removal also runs when fn panics.
func WithTempDir(root, pattern string, fn func(Scratch) error) (err error) {
	if root != "" {
		if mkErr := os.MkdirAll(root, 0o755); mkErr != nil {
			return fmt.Errorf("create scratch root: %w", mkErr)
		}
	}
	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	abs, absErr := filepath.Abs(dir)
	if absErr != nil {
		abs = dir
	}

	defer func() {
		if rmErr := os.RemoveAll(abs); rmErr != nil && err == nil {
			err = fmt.Errorf("remove scratch dir: %w", rmErr)
		}
	}()

	return fn(&localScratch{dir: abs})
}

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if dir == "" {
		return errors.New("directory is required")
	}
	return os.MkdirAll(dir, 0o755)
}

func (s *localScratch) Dir() string { return s.dir }

func (s *localScratch) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *localScratch) Put(name string, r io.Reader) (ObjectInfo, error) {
	if r == nil {
		return ObjectInfo{}, errors.New("reader is nil")
	}
	p := s.Path(name)
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return ObjectInfo{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return ObjectInfo{}, err
	}
	if err := f.Close(); err != nil {
		return ObjectInfo{}, err
	}
	return s.Stat(name)
}

func (s *localScratch) Get(name string) (io.ReadCloser, ObjectInfo, error) {
	info, err := s.Stat(name)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(info.Path)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	return f, info, nil
}

func (s *localScratch) Stat(name string) (ObjectInfo, error) {
	p := s.Path(name)
	st, err := os.Stat(p)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Name:         filepath.Base(name),
		Path:         p,
		Size:         st.Size(),
		LastModified: st.ModTime(),
	}, nil
}
