package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/quickfix/pkg/langdetect"
)

// Discover resolves the files of a workspace: the main file first, then
// explicitly related files, then discovered companions. Paths are
// absolute, cleaned and unique.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	if opts.Path == "" {
		return nil, ErrNoPath
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	mainPath := absPath(workDir, opts.Path)
	add(mainPath)
	for _, rel := range opts.Related {
		add(absPath(workDir, rel))
	}

	if opts.DiscoverRelated {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}
		for _, companion := range companions(mainPath) {
			add(companion)
		}
	}

	return files, nil
}

// companions returns the existing files next to path that share its base
// name and have a header extension when path is a source, or a source
// extension when path is a header.
func companions(path string) []string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	candidates := HeaderExtensions()
	if langdetect.IsHeader(path) {
		candidates = SourceExtensions()
	}

	var found []string
	for _, cand := range candidates {
		if strings.EqualFold(cand, ext) {
			continue
		}
		p := stem + cand
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			found = append(found, p)
		}
	}
	return found
}

func absPath(workDir, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	return filepath.Clean(p)
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}
