package workspace_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/workspace"
)

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"widget.cpp": "",
		"widget.h":   "",
		"widget.hpp": "",
		"other.h":    "",
	})
	abs := func(name string) string { return filepath.Join(dir, name) }

	tests := []struct {
		name string
		opts workspace.Options
		want []string
	}{
		{
			name: "main only",
			opts: workspace.Options{Path: "widget.cpp", WorkingDir: dir},
			want: []string{abs("widget.cpp")},
		},
		{
			name: "headers of a source",
			opts: workspace.Options{Path: "widget.cpp", WorkingDir: dir, DiscoverRelated: true},
			want: []string{abs("widget.cpp"), abs("widget.h"), abs("widget.hpp")},
		},
		{
			name: "source of a header",
			opts: workspace.Options{Path: "widget.h", WorkingDir: dir, DiscoverRelated: true},
			want: []string{abs("widget.h"), abs("widget.cpp")},
		},
		{
			name: "explicit related first and deduplicated",
			opts: workspace.Options{
				Path:            "widget.cpp",
				Related:         []string{"other.h", "./widget.hpp", abs("other.h")},
				WorkingDir:      dir,
				DiscoverRelated: true,
			},
			want: []string{abs("widget.cpp"), abs("other.h"), abs("widget.hpp"), abs("widget.h")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := workspace.Discover(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
