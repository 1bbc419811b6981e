package fsutil

import (
	"context"
	"fmt"
	"os"
)

// BackupMode specifies how backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the original with
	// BackupSuffix appended.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is the suffix used for sidecar backup files.
const BackupSuffix = ".quickfix.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns a sidecar configuration with backups off.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// ParseBackupMode converts a configuration string to a BackupMode.
// Unknown and empty values select sidecar backups.
func ParseBackupMode(s string) BackupMode {
	if BackupMode(s) == BackupModeNone {
		return BackupModeNone
	}
	return BackupModeSidecar
}

// BackupPath returns the backup location for path, or "" when mode
// disables backups.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup saves original, the content read into info, as the
// backup of info.Path. An existing backup is never overwritten so that
// repeated runs keep the oldest content. It returns the backup path, or
// "" when no backup was written.
func CreateBackup(ctx context.Context, info *FileInfo, original []byte, cfg BackupConfig) (string, error) {
	if info == nil {
		return "", ErrNilFileInfo
	}
	if !cfg.Enabled {
		return "", nil
	}
	backupPath := BackupPath(info.Path, cfg.Mode)
	if backupPath == "" {
		return "", nil
	}

	if _, err := os.Stat(backupPath); err == nil {
		return "", nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat backup path: %w", err)
	}

	if err := WriteAtomic(ctx, backupPath, original, info.Mode); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}
