package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.cpp.quickfix.bak", fsutil.BackupPath("a.cpp", fsutil.BackupModeSidecar))
	assert.Empty(t, fsutil.BackupPath("a.cpp", fsutil.BackupModeNone))
}

func TestParseBackupMode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fsutil.BackupModeNone, fsutil.ParseBackupMode("none"))
	assert.Equal(t, fsutil.BackupModeSidecar, fsutil.ParseBackupMode("sidecar"))
	assert.Equal(t, fsutil.BackupModeSidecar, fsutil.ParseBackupMode(""))
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	enabled := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("writes snapshot content", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		backup, err := fsutil.CreateBackup(context.Background(), info, content, enabled)
		require.NoError(t, err)
		assert.Equal(t, path+fsutil.BackupSuffix, backup)

		got, err := os.ReadFile(backup)
		require.NoError(t, err)
		assert.Equal(t, "int x;\n", string(got))
	})

	t.Run("keeps existing backup", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		require.NoError(t, os.WriteFile(path+fsutil.BackupSuffix, []byte("oldest"), 0o644))
		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		backup, err := fsutil.CreateBackup(context.Background(), info, content, enabled)
		require.NoError(t, err)
		assert.Empty(t, backup)

		got, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "oldest", string(got))
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		for _, cfg := range []fsutil.BackupConfig{
			fsutil.DefaultBackupConfig(),
			{Enabled: true, Mode: fsutil.BackupModeNone},
		} {
			backup, err := fsutil.CreateBackup(context.Background(), info, content, cfg)
			require.NoError(t, err)
			assert.Empty(t, backup)
		}
		assert.NoFileExists(t, path+fsutil.BackupSuffix)
	})
}
