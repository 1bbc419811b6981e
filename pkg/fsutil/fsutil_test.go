package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/fsutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "main.cpp", "int main() {}\n")
		content, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "int main() {}\n", string(content))
		assert.Equal(t, path, info.Path)
		assert.Equal(t, int64(len(content)), info.Size)
		assert.Equal(t, os.FileMode(0o644), info.Mode.Perm())
		assert.NotEqual(t, [32]byte{}, info.Hash)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(t.TempDir(), "absent.cpp"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(context.Background(), t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := fsutil.ReadFile(ctx, writeFile(t, "a.cpp", ""))
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)

		for _, strict := range []bool{false, true} {
			modified, err := fsutil.CheckModified(context.Background(), info, strict)
			require.NoError(t, err)
			assert.False(t, modified)
		}
		require.NoError(t, fsutil.VerifyUnchanged(context.Background(), info))
	})

	t.Run("size changed", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("int xy;\n"), 0o644))

		modified, err := fsutil.CheckModified(context.Background(), info, false)
		require.NoError(t, err)
		assert.True(t, modified)
		require.ErrorIs(t, fsutil.VerifyUnchanged(context.Background(), info), fsutil.ErrModified)
	})

	t.Run("same size and time only caught by hash", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("int y;\n"), 0o644))
		require.NoError(t, os.Chtimes(path, time.Now(), info.ModTime))

		quick, err := fsutil.CheckModified(context.Background(), info, false)
		require.NoError(t, err)
		assert.False(t, quick)

		strict, err := fsutil.CheckModified(context.Background(), info, true)
		require.NoError(t, err)
		assert.True(t, strict)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "a.cpp", "int x;\n")
		_, info, err := fsutil.ReadFile(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		modified, err := fsutil.CheckModified(context.Background(), info, true)
		require.NoError(t, err)
		assert.True(t, modified)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		_, err := fsutil.CheckModified(context.Background(), nil, true)
		require.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}
