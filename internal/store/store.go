package store

import (
	"os"
	"path/filepath"
)

// Format identifies how a configuration file is edited.
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatPattern Format = "pattern"
)

// Handle tracks one target configuration file for the duration of a session.
// The backedUp flag transitions false to true exactly once per process
// lifetime, via the BackupManager.
type Handle struct {
	Format   Format
	Path     string
	backedUp bool
}

// NewHandle creates a handle for a target file.
func NewHandle(format Format, path string) *Handle {
	return &Handle{Format: format, Path: path}
}

// BackedUp reports whether the target has already been backed up this session.
func (h *Handle) BackedUp() bool { return h.backedUp }

// DocumentAdapter reads and writes a single numeric value at a dotted locator
// path inside a structured key/value document.
type DocumentAdapter interface {
	// Load returns the value at locator. An absent path segment yields
	// found=false without error so the caller can apply its default.
	Load(path string, locator string) (value float64, found bool, err error)

	// Write re-parses the on-disk document, creates any missing intermediate
	// mappings along locator, sets the leaf, and serializes the document back
	// preserving key order. value must be int64 or float64 so the numeric is
	// written in its native type.
	Write(path string, locator string, value any) error
}

// writeFileAtomic persists data via a temp file and rename in the target
// directory, so a crash mid-write never leaves a truncated file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pipetune-*.tmp")
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
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
