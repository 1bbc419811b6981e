package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestFindProjectConfigWalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	want := filepath.Join(root, ".quickfix.yml")
	touch(t, want)
	nested := filepath.Join(root, "src", "geometry")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindProjectConfig(context.Background(), nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindProjectConfigPrefersDotfile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	touch(t, filepath.Join(root, "quickfix.yaml"))
	touch(t, filepath.Join(root, ".quickfix.yaml"))

	got, err := FindProjectConfig(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ".quickfix.yaml"), got)
}

func TestFindProjectConfigStopsAtRepoRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	touch(t, filepath.Join(outer, ".quickfix.yml"))
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	got, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindProjectConfigCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindProjectConfig(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscoverPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	userConfig := filepath.Join(xdg, "quickfix", "config.yml")
	touch(t, userConfig)

	project := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(project, ".git"), 0o755))
	touch(t, filepath.Join(project, "quickfix.yml"))
	touch(t, filepath.Join(project, ".env"))
	work := filepath.Join(project, "lib")
	require.NoError(t, os.Mkdir(work, 0o755))

	paths, err := DiscoverPaths(context.Background(), work)
	require.NoError(t, err)
	assert.Equal(t, userConfig, paths.User)
	assert.Equal(t, filepath.Join(project, "quickfix.yml"), paths.Project)
	assert.Equal(t, filepath.Join(project, ".env"), paths.DotEnv)
	assert.Empty(t, paths.Explicit)
}

func TestDiscoverPathsDotEnvWithoutProject(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	work := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(work, ".git"), 0o755))
	touch(t, filepath.Join(work, ".env"))

	paths, err := DiscoverPaths(context.Background(), work)
	require.NoError(t, err)
	assert.Empty(t, paths.User)
	assert.Empty(t, paths.Project)
	assert.Equal(t, filepath.Join(work, ".env"), paths.DotEnv)
}
