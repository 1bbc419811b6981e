package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/samber/lo"
)

// ConfigPaths holds the configuration files found for a run. Locations
// with no file are empty.
type ConfigPaths struct {
	System   string // /etc/quickfix/config.yaml, %ProgramData%\quickfix on Windows
	User     string // $XDG_CONFIG_HOME/quickfix/config.yaml
	Project  string // nearest .quickfix.yml above the working directory
	Explicit string // --config
	DotEnv   string // .env beside the project config, else in the working directory
}

const (
	appDir     = "quickfix"
	dotEnvFile = ".env"
)

//nolint:gochecknoglobals // read-only lookup tables
var (
	projectConfigNames = []string{".quickfix.yml", ".quickfix.yaml", "quickfix.yml", "quickfix.yaml"}
	globalConfigNames  = []string{"config.yaml", "config.yml"}
	repoMarkers        = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths locates the system, user and project configs and the .env
// file that apply to workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	envDir := lo.CoalesceOrEmpty(workDir, ".")
	if project != "" {
		envDir = filepath.Dir(project)
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), globalConfigNames),
		User:    firstFile(userConfigDir(), globalConfigNames),
		Project: project,
		DotEnv:  firstFile(envDir, []string{dotEnvFile}),
	}, nil
}

// FindProjectConfig walks up from startDir (the working directory when
// empty) and returns the first project config it finds. The walk ends
// without a result at a repository root, the home directory or the
// filesystem root.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if path := firstFile(dir, projectConfigNames); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isRepoRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(lo.CoalesceOrEmpty(os.Getenv("ProgramData"), `C:\ProgramData`), appDir)
	}
	return filepath.Join("/etc", appDir)
}

func userConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir)
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	path, _ := lo.Find(lo.Map(names, func(name string, _ int) string {
		return filepath.Join(dir, name)
	}), isFile)
	return path
}

func isRepoRoot(dir string) bool {
	return lo.SomeBy(repoMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
