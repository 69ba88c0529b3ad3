// Package storage defines the library blob-store abstraction.
package storage

import "github.com/compliee/compliee/internal/models"

// WriteOptions controls how Write behaves on an existing path.
type WriteOptions struct {
	// Overwrite allows replacing an existing file. Without it a write to an
	// existing path fails with os.ErrExist.
	Overwrite bool
	// DedupeName picks the next free "name-N.ext" variant instead of
	// failing when the path is taken. Takes precedence over Overwrite.
	DedupeName bool
}

// Provider is the interface for library file operations. All paths are
// relative to the library root.
type Provider interface {
	// EnsureDir creates dir if missing. Creating an existing dir is not an
	// error.
	EnsureDir(dir string) error
	// List returns every non-directory .html entry directly under dir.
	List(dir string) ([]models.FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content and returns the path actually
	// written (which differs from path when DedupeName kicked in).
	Write(path string, content []byte, opts WriteOptions) (string, error)
	// Stat returns file metadata for path.
	Stat(path string) (models.FileInfo, error)
	// Delete removes the file at path. There is no trash tier; this is
	// irreversible.
	Delete(path string) error
}
