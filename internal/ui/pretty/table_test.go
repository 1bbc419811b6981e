package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/analysis"
)

func TestFormatCatalog(t *testing.T) {
	t.Parallel()

	catalog := &analysis.Catalog{Rules: []analysis.RuleEntry{
		{ID: "QF002", Name: "add-braces", Enabled: true, Tags: []string{"statements"}, Description: "Adds braces."},
		{ID: "QF006", Name: "extract-function", Tags: []string{"functions", "refactoring"},
			Description: strings.Repeat("long description ", 10)},
	}}

	out := pretty.NewTableFormatter(pretty.NewStyles(false), 80).FormatCatalog(catalog)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.True(t, strings.HasPrefix(lines[0], "ID     Name              Enabled  Tags                   Description"))
	assert.Equal(t, "QF002  add-braces        yes      statements             Adds braces.", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "QF006  extract-function  no       functions,refactoring  long description"))
	assert.True(t, strings.HasSuffix(lines[3], "…"))
	assert.LessOrEqual(t, len([]rune(lines[3])), 80)
}
