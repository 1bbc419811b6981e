package workspace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

func TestSelectionResolve(t *testing.T) {
	t.Parallel()

	doc, err := cppast.Parse(context.Background(), "a.cpp", []byte("int a;\nint b;\n"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		sel       workspace.Selection
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{name: "offset cursor", sel: workspace.Cursor(workspace.AtOffset(4)), wantStart: 4, wantEnd: 4},
		{name: "line and column", sel: workspace.Cursor(workspace.AtLineColumn(2, 5)), wantStart: 11, wantEnd: 11},
		{name: "end of buffer", sel: workspace.Cursor(workspace.AtOffset(14)), wantStart: 14, wantEnd: 14},
		{
			name:      "reversed range",
			sel:       workspace.Range(workspace.AtOffset(9), workspace.AtLineColumn(1, 1)),
			wantStart: 0,
			wantEnd:   9,
		},
		{name: "negative offset", sel: workspace.Cursor(workspace.AtOffset(-1)), wantErr: true},
		{name: "past end", sel: workspace.Cursor(workspace.AtOffset(15)), wantErr: true},
		{name: "line past end", sel: workspace.Cursor(workspace.AtLineColumn(9, 1)), wantErr: true},
		{name: "column past line", sel: workspace.Cursor(workspace.AtLineColumn(1, 20)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			start, end, err := tt.sel.Resolve(doc)
			if tt.wantErr {
				require.ErrorIs(t, err, workspace.ErrBadPosition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestPositionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "3:7", workspace.AtLineColumn(3, 7).String())
	assert.Equal(t, "@42", workspace.AtOffset(42).String())
}
