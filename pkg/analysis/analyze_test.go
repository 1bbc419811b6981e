package analysis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/analysis"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/quickfix/rules"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

const source = "int scale(int x) {\n  if (x) return x * 255;\n  return 0;\n}\n"

func setup(t *testing.T) (*workspace.Workspace, *quickfix.Registry, *quickfix.MatchResult, workspace.Selection) {
	t.Helper()

	ctx := context.Background()
	ws, err := workspace.FromBuffers(ctx, []workspace.Buffer{{Path: "/src/scale.cpp", Content: []byte(source)}}, nil)
	require.NoError(t, err)

	registry := quickfix.NewRegistry()
	rules.RegisterAll(registry)

	sel := workspace.Cursor(workspace.AtLineColumn(2, 21))
	res, err := ws.Match(ctx, quickfix.NewDispatcher(registry, config.NewConfig()), sel)
	require.NoError(t, err)
	require.True(t, res.HasOperations())
	return ws, registry, res, sel
}

func TestAnalyzeMatch(t *testing.T) {
	t.Parallel()

	ws, registry, res, sel := setup(t)
	opts := analysis.DefaultOptions()
	opts.WorkingDir = "/src"

	listing, err := analysis.AnalyzeMatch(context.Background(), ws, sel, res, registry, opts)
	require.NoError(t, err)

	assert.Equal(t, analysis.ReportVersion, listing.Version)
	assert.Equal(t, "scale.cpp", listing.Path)
	assert.Equal(t, 2, listing.Line)
	assert.Equal(t, 21, listing.Column)
	assert.Equal(t, "  if (x) return x * 255;", listing.SourceLine)
	require.Len(t, listing.Operations, len(res.Operations))

	first := listing.Operations[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "QF004", first.RuleID)
	assert.Equal(t, "convert-numeric-literal", first.RuleName)
	assert.Equal(t, "QF004/convert-numeric-literal", first.Rule)
	assert.Empty(t, first.Diff, "no preview requested")

	require.NotEmpty(t, listing.ByRule)
	assert.Equal(t, "QF004", listing.ByRule[0].RuleID)
	assert.Equal(t, 3, listing.ByRule[0].Operations)
	assert.Empty(t, listing.RuleErrors)
}

func TestAnalyzeMatch_Preview(t *testing.T) {
	t.Parallel()

	ws, registry, res, sel := setup(t)
	opts := analysis.DefaultOptions()
	opts.Preview = true
	opts.WorkingDir = "/src"

	listing, err := analysis.AnalyzeMatch(context.Background(), ws, sel, res, registry, opts)
	require.NoError(t, err)

	for _, op := range listing.Operations {
		assert.Empty(t, op.Error, op.Description)
		assert.Equal(t, []string{"scale.cpp"}, op.Files, op.Description)
		assert.Contains(t, op.Diff, "--- a/src/scale.cpp", op.Description)
	}
	assert.Contains(t, listing.Operations[0].Diff, "+  if (x) return x * 0xFF;")
}

func TestAnalyzeMatch_PreviewJobsAgree(t *testing.T) {
	t.Parallel()

	ws, registry, res, sel := setup(t)

	listings := make([]*analysis.Listing, 0, 2)
	for _, jobs := range []int{1, 8} {
		opts := analysis.DefaultOptions()
		opts.Preview = true
		opts.Jobs = jobs

		listing, err := analysis.AnalyzeMatch(context.Background(), ws, sel, res, registry, opts)
		require.NoError(t, err)
		listings = append(listings, listing)
	}

	require.Len(t, listings[1].Operations, len(listings[0].Operations))
	for i := range listings[0].Operations {
		assert.Equal(t, listings[0].Operations[i].Index, listings[1].Operations[i].Index)
		assert.Equal(t, listings[0].Operations[i].Diff, listings[1].Operations[i].Diff)
	}
}

func TestAnalyzeMatch_PreviewCancelled(t *testing.T) {
	t.Parallel()

	ws, registry, res, sel := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := analysis.DefaultOptions()
	opts.Preview = true

	_, err := analysis.AnalyzeMatch(ctx, ws, sel, res, registry, opts)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeMatch_RuleErrors(t *testing.T) {
	t.Parallel()

	ws, registry, res, sel := setup(t)
	res.RuleErrors["QF009"] = errors.New("boom")
	res.RuleErrors["QF001"] = errors.New("bang")

	listing, err := analysis.AnalyzeMatch(context.Background(), ws, sel, res, registry, analysis.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []analysis.RuleErrorEntry{
		{RuleID: "QF001", Error: "bang"},
		{RuleID: "QF009", Error: "boom"},
	}, listing.RuleErrors)
}

func TestAnalyzeChanges(t *testing.T) {
	t.Parallel()

	ws, registry, res, _ := setup(t)
	result, err := ws.Apply(context.Background(), res.Operations[0])
	require.NoError(t, err)

	opts := analysis.DefaultOptions()
	opts.RuleFormat = config.RuleFormatName
	opts.WorkingDir = "/src"
	report := analysis.AnalyzeChanges(result, registry, true, opts)

	assert.True(t, report.DryRun)
	assert.Equal(t, "convert-numeric-literal", report.Rule)
	assert.Equal(t, result.Description, report.Description)
	require.Len(t, report.Files, 1)
	assert.Equal(t, "scale.cpp", report.Files[0].Path)
	assert.Equal(t, 1, report.Files[0].Additions)
	assert.Equal(t, 1, report.Files[0].Deletions)
	assert.False(t, report.Files[0].Written)
	assert.Equal(t, analysis.ChangeTotals{Files: 1, Additions: 1, Deletions: 1}, report.Totals)
}

func TestAnalyzeRules(t *testing.T) {
	t.Parallel()

	registry := quickfix.NewRegistry()
	rules.RegisterAll(registry)

	cfg := config.NewConfig()
	cfg.DisableRules = []string{"QF006"}

	catalog := analysis.AnalyzeRules(registry, cfg, analysis.DefaultOptions())
	require.Len(t, catalog.Rules, 12)
	assert.Equal(t, analysis.CatalogTotals{Rules: 12, Enabled: 11}, catalog.Totals)
	assert.Equal(t, "QF001", catalog.Rules[0].ID)

	var extract analysis.RuleEntry
	for _, r := range catalog.Rules {
		if r.ID == "QF006" {
			extract = r
		}
	}
	assert.False(t, extract.Enabled)
	assert.Equal(t, "extracted", extract.Options["name"])

	var braces analysis.RuleEntry
	for _, r := range catalog.Rules {
		if r.ID == "QF002" {
			braces = r
		}
	}
	assert.Equal(t, []string{"braces"}, braces.Aliases)

	infos := catalog.RuleInfos()
	assert.Len(t, infos, 12)

	byName := analysis.AnalyzeRules(registry, cfg, analysis.Options{SortBy: analysis.SortByName})
	assert.Equal(t, "add-braces", byName.Rules[0].Name)
}

func TestSortFieldIsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []analysis.SortField{analysis.SortByID, analysis.SortByName, analysis.SortByRegistration} {
		assert.True(t, f.IsValid())
	}
	assert.False(t, analysis.SortField("count").IsValid())
}
