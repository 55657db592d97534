package store

import (
	"errors"
	"os"
	"sync"

	"pipetune/pkg/logging"
)

// BackupManager copies each target file to a sibling .bak exactly once per
// session, before its first mutation. A .bak left over from a previous
// session is overwritten at that first call; later calls in the same session
// are no-ops.
type BackupManager struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewBackupManager creates an empty backup manager for one session.
func NewBackupManager() *BackupManager {
	return &BackupManager{seen: make(map[string]bool)}
}

// EnsureBackup backs up the handle's target if this session has not already
// done so. A missing source file is non-fatal: there is nothing to back up
// and the subsequent write will create the file fresh. A failed copy returns
// a BackupError, which aborts write-back for this target only.
func (m *BackupManager) EnsureBackup(h *Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.backedUp || m.seen[h.Path] {
		h.backedUp = true
		return nil
	}

	data, err := os.ReadFile(h.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("Backup", "Nothing to back up, %s does not exist yet", h.Path)
			h.backedUp = true
			m.seen[h.Path] = true
			return nil
		}
		return &BackupError{Path: h.Path, Err: err}
	}

	bakPath := h.Path + ".bak"
	if err := os.WriteFile(bakPath, data, 0644); err != nil {
		return &BackupError{Path: h.Path, Err: err}
	}

	h.backedUp = true
	m.seen[h.Path] = true
	logging.Info("Backup", "Backed up %s to %s", h.Path, bakPath)
	return nil
}
