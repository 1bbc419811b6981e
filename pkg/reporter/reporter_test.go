package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/analysis"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/reporter"
)

func sampleDiff() *fix.Diff {
	return fix.GenerateDiff("scale.cpp", []byte("int n = 255;\n"), []byte("int n = 0xff;\n"))
}

func sampleListing() *analysis.Listing {
	d := sampleDiff()
	return &analysis.Listing{
		Version:    analysis.ReportVersion,
		Path:       "scale.cpp",
		Line:       1,
		Column:     9,
		SourceLine: "int n = 255;",
		Operations: []analysis.OperationEntry{
			{
				Index: 0, RuleID: "QF004", RuleName: "convert-numeric-literal",
				Rule: "QF004/convert-numeric-literal", Description: "Convert to Hexadecimal",
				Priority: 3, Files: []string{"scale.cpp"}, Diffs: []*fix.Diff{d}, Diff: d.String(),
			},
			{
				Index: 1, RuleID: "QF007", RuleName: "extract-literal-as-parameter",
				Description: "Extract Literal | Parameter", Error: "overlapping edits",
			},
		},
		RuleErrors: []analysis.RuleErrorEntry{{RuleID: "QF005", Error: "boom"}},
		ByRule: []analysis.RuleCount{
			{RuleID: "QF004", Operations: 1},
			{RuleID: "QF007", Operations: 1},
		},
	}
}

func sampleChanges(written bool) *analysis.ChangeReport {
	d := sampleDiff()
	report := &analysis.ChangeReport{
		Version:     analysis.ReportVersion,
		RuleID:      "QF004",
		RuleName:    "convert-numeric-literal",
		Description: "Convert to Hexadecimal",
		DryRun:      !written,
		Files: []analysis.FileChange{{
			Path: "scale.cpp", Additions: 1, Deletions: 1,
			Written: written, Diff: d.String(), DiffModel: d,
		}},
		Totals: analysis.ChangeTotals{Files: 1, Additions: 1, Deletions: 1},
	}
	if written {
		report.Files[0].BackupPath = "scale.cpp.quickfix.bak"
		report.Totals.Written = 1
	}
	return report
}

func sampleCatalog() *analysis.Catalog {
	return &analysis.Catalog{
		Version: analysis.ReportVersion,
		Rules: []analysis.RuleEntry{
			{ID: "QF002", Name: "add-braces", Description: "Adds braces", Enabled: true, Aliases: []string{"braces"}},
			{ID: "QF006", Name: "extract-function", Description: "Moves statements into a function"},
		},
		Totals: analysis.CatalogTotals{Rules: 2, Enabled: 1},
	}
}

func newReporter(t *testing.T, format reporter.Format) (reporter.Reporter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.Format = format
	opts.Color = "never"
	rep, err := reporter.New(opts)
	require.NoError(t, err)
	return rep, &buf
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, format := range []reporter.Format{
		reporter.FormatText, reporter.FormatJSON, reporter.FormatMarkdown,
		reporter.FormatHTML, reporter.FormatDiff, "",
	} {
		t.Run(string(format), func(t *testing.T) {
			t.Parallel()
			rep, err := reporter.New(reporter.Options{Format: format})
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}

	_, err := reporter.New(reporter.Options{Format: "sarif"})
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    reporter.Format
		wantErr bool
	}{
		{"", reporter.FormatText, false},
		{"text", reporter.FormatText, false},
		{"json", reporter.FormatJSON, false},
		{"md", reporter.FormatMarkdown, false},
		{"markdown", reporter.FormatMarkdown, false},
		{"html", reporter.FormatHTML, false},
		{"diff", reporter.FormatDiff, false},
		{" JSON ", reporter.FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := reporter.ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestFormats(t *testing.T) {
	t.Parallel()

	all := reporter.Formats()
	require.Len(t, all, 5)
	assert.Equal(t, reporter.FormatText, all[0])

	all[0] = "mutated"
	assert.Equal(t, reporter.FormatText, reporter.Formats()[0])

	_, err := reporter.ParseFormat("sarif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text, json, markdown, html, diff")
}

func TestTextReporter_Operations(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportOperations(context.Background(), sampleListing()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "scale.cpp:1:9 (2 operations)\n"), out)
	assert.Contains(t, out, "    int n = 255;\n")
	assert.Contains(t, out, "  [0] Convert to Hexadecimal  (QF004/convert-numeric-literal, priority 3)\n")
	assert.Contains(t, out, "    preview failed: overlapping edits\n")
	assert.Contains(t, out, "-int n = 255;\n+int n = 0xff;\n")
	assert.Contains(t, out, "QF005")
	assert.Contains(t, out, "2 operations from 2 rules")
}

func TestTextReporter_NoDiff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never"})
	require.NoError(t, rep.ReportOperations(context.Background(), sampleListing()))

	out := buf.String()
	assert.NotContains(t, out, "+int n = 0xff;")
	assert.NotContains(t, out, "    int n = 255;")
	assert.NotContains(t, out, "operations from")
}

func TestTextReporter_Changes(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportChanges(context.Background(), sampleChanges(true)))

	out := buf.String()
	assert.Contains(t, out, "Convert to Hexadecimal (QF004)")
	assert.Contains(t, out, "scale.cpp  written (backup scale.cpp.quickfix.bak)")
	assert.Contains(t, out, "+int n = 0xff;")
	assert.Contains(t, out, "1 file changed, 1 insertion(+), 1 deletion(-), 1 file written")
}

func TestTextReporter_Catalog(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatText)
	require.NoError(t, rep.ReportCatalog(context.Background(), sampleCatalog()))

	out := buf.String()
	assert.Contains(t, out, "add-braces")
	assert.Contains(t, out, "extract-function")
	assert.Contains(t, out, "2 rules, 1 enabled")
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatJSON)
	require.NoError(t, rep.ReportOperations(context.Background(), sampleListing()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "scale.cpp", got["path"])
	ops, ok := got["operations"].([]any)
	require.True(t, ok)
	require.Len(t, ops, 2)
	first, ok := ops[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "QF004", first["ruleId"])
	assert.Contains(t, first["diff"], "+int n = 0xff;")
	assert.NotContains(t, first, "Diffs")
	assert.Contains(t, buf.String(), "\n  \"version\"")
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})
	require.NoError(t, rep.ReportCatalog(context.Background(), sampleCatalog()))

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	var got analysis.Catalog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Totals.Rules)
	assert.Equal(t, []string{"braces"}, got.Rules[0].Aliases)
}

func TestMarkdownReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatMarkdown)
	require.NoError(t, rep.ReportOperations(context.Background(), sampleListing()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Operations at `scale.cpp:1:9`\n"), out)
	assert.Contains(t, out, "| 0 | QF004/convert-numeric-literal | Convert to Hexadecimal | 3 |\n")
	assert.Contains(t, out, `| 1 | QF007 | Extract Literal \| Parameter | 0 |`)
	assert.Contains(t, out, "- **QF005**: boom\n")
	assert.Contains(t, out, "```diff\n--- a/scale.cpp\n")
	assert.Contains(t, out, "> Preview failed: overlapping edits\n")
}

func TestMarkdownReporter_Changes(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatMarkdown)
	require.NoError(t, rep.ReportChanges(context.Background(), sampleChanges(false)))

	out := buf.String()
	assert.Contains(t, out, "| `scale.cpp` | 1 | 1 | dry run |\n")
	assert.Contains(t, out, "**Summary:** 1 files, 1 insertions, 1 deletions\n")
}

func TestHTMLReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatHTML)
	require.NoError(t, rep.ReportCatalog(context.Background(), sampleCatalog()))

	out := buf.String()
	assert.Contains(t, out, "<h1>Rules</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>add-braces</td>")
}

func TestHTMLReporter_DiffBlock(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatHTML)
	require.NoError(t, rep.ReportChanges(context.Background(), sampleChanges(true)))

	assert.Contains(t, buf.String(), `<pre><code class="language-diff">`)
}

func TestDiffReporter(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatDiff)
	require.NoError(t, rep.ReportChanges(context.Background(), sampleChanges(true)))

	assert.Equal(t,
		"diff --git a/scale.cpp b/scale.cpp\n--- a/scale.cpp\n+++ b/scale.cpp\n@@ -1,1 +1,1 @@\n-int n = 255;\n+int n = 0xff;\n",
		buf.String())
}

func TestDiffReporter_Operations(t *testing.T) {
	t.Parallel()

	rep, buf := newReporter(t, reporter.FormatDiff)
	require.NoError(t, rep.ReportOperations(context.Background(), sampleListing()))

	out := buf.String()
	assert.Contains(t, out, "# [0] Convert to Hexadecimal (QF004)\n")
	assert.Contains(t, out, "# [1] Extract Literal | Parameter (QF007)\n# preview failed: overlapping edits\n")
}
