package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// cursorMarker marks the cursor in test sources. Two markers delimit a
// selection.
const cursorMarker = "@"

// testFile is one buffer of a test workspace.
type testFile struct {
	path    string
	content string
}

// matched holds the result of running one rule at the marked position.
type matched struct {
	doc  *cppast.Document
	docs []*cppast.Document
	ops  []quickfix.Operation
}

// stripMarkers removes the cursor markers and returns the selection.
func stripMarkers(t *testing.T, src string) (string, int, int) {
	t.Helper()
	first := strings.Index(src, cursorMarker)
	require.GreaterOrEqual(t, first, 0, "source has no cursor marker")
	src = src[:first] + src[first+len(cursorMarker):]

	second := strings.Index(src, cursorMarker)
	if second < 0 {
		return src, first, first
	}
	return src[:second] + src[second+len(cursorMarker):], first, second
}

// matchAt parses src, which carries the cursor markers, together with the
// related files and runs rule at the marked position.
func matchAt(t *testing.T, rule quickfix.Rule, path, src string, related ...testFile) matched {
	t.Helper()
	ctx := context.Background()

	content, selStart, selEnd := stripMarkers(t, src)
	doc, err := cppast.Parse(ctx, path, []byte(content))
	require.NoError(t, err)
	require.Empty(t, doc.Diagnostics)

	docs := []*cppast.Document{doc}
	for _, f := range related {
		rd, err := cppast.Parse(ctx, f.path, []byte(f.content))
		require.NoError(t, err)
		docs = append(docs, rd)
	}

	mctx := quickfix.NewMatchContext(ctx, doc, selStart, selEnd, semantic.NewIndex(docs...))
	mctx.Related = docs[1:]
	ops, err := rule.Match(mctx)
	require.NoError(t, err)
	return matched{doc: doc, docs: docs, ops: ops}
}

// perform runs op and returns the content of every buffer afterwards.
func (m matched) perform(t *testing.T, op quickfix.Operation) map[string]string {
	t.Helper()
	sets, err := op.Perform(context.Background())
	require.NoError(t, err)

	buffers := make(map[string][]byte, len(m.docs))
	for _, d := range m.docs {
		buffers[d.Path] = d.Content
	}
	changed, err := fix.ApplyAll(buffers, sets)
	require.NoError(t, err)

	out := make(map[string]string, len(buffers))
	for path, content := range buffers {
		out[path] = string(content)
	}
	for path, content := range changed {
		out[path] = string(content)
	}
	return out
}

// single expects exactly one operation and returns the edited main buffer.
func (m matched) single(t *testing.T) string {
	t.Helper()
	require.Len(t, m.ops, 1)
	return m.perform(t, m.ops[0])[m.doc.Path]
}

// descriptions lists the operation descriptions in order.
func (m matched) descriptions() []string {
	out := make([]string, 0, len(m.ops))
	for _, op := range m.ops {
		out = append(out, op.Description())
	}
	return out
}

// withMarker inserts the cursor marker before the first occurrence of
// needle in src.
func withMarker(t *testing.T, src, needle string) string {
	t.Helper()
	i := strings.Index(src, needle)
	require.GreaterOrEqual(t, i, 0, "needle %q not found", needle)
	return src[:i] + cursorMarker + src[i:]
}
