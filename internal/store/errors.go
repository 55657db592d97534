package store

import "fmt"

// StoreIOError reports an unreadable or unwritable configuration file.
// Recoverable: the caller degrades that store and continues.
type StoreIOError struct {
	Path string // file that failed
	Op   string // "read", "write"
	Err  error
}

func (e *StoreIOError) Error() string {
	return fmt.Sprintf("store %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreIOError) Unwrap() error { return e.Err }

// StoreFormatError reports unparsable document content. Recoverable: on load
// the store's parameters fall back to defaults, on write the store's
// parameters are reported as failed.
type StoreFormatError struct {
	Path string
	Err  error
}

func (e *StoreFormatError) Error() string {
	return fmt.Sprintf("unparsable document %s: %v", e.Path, e.Err)
}

func (e *StoreFormatError) Unwrap() error { return e.Err }

// AnchorNotFoundError reports a pattern-text key whose anchor matched nothing.
/// Recoverable: other keys in the same file are unaffected.
type AnchorNotFoundError struct {
	Path string
	Key  string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("anchor for key %q not found in %s", e.Key, e.Path)
}

// BackupError reports a failed backup copy. Fatal for that target file's
// write-back only; other stores continue.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("backup of %s failed: %v", e.Path, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }
