package storage

import (
	"io"
	"time"
)

// Package storage contains request-scoped scratch space for external tools.
// Nothing written here outlives the request that created it.

// ObjectInfo contains basic information about a file in a workspace.
type ObjectInfo struct {
	Name         string
	Path         string
	Size         int64
	LastModified time.Time
}

// Scratch is an exclusive working directory handed to a single operation.
// Implementations are not safe for concurrent use; each request acquires its own.
type Scratch interface {
	// Dir returns the absolute path of the directory.
	Dir() string
	// Path joins name onto Dir.
	Path(name string) string
	// Put writes the reader's content to name, replacing any previous file.
	Put(name string, r io.Reader) (ObjectInfo, error)
	// Get opens name for reading alongside its info.
	Get(name string) (io.ReadCloser, ObjectInfo, error)
	// Stat returns info for name; the error satisfies errors.Is(err, fs.ErrNotExist) when missing.
	Stat(name string) (ObjectInfo, error)
}
