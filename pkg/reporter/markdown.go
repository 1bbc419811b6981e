package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

// MarkdownReporter formats reports as GitHub-flavored Markdown.
type MarkdownReporter struct {
	opts Options
	out  io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(opts Options) *MarkdownReporter {
	return &MarkdownReporter{opts: opts, out: opts.Writer}
}

// ReportOperations implements Reporter.
func (r *MarkdownReporter) ReportOperations(_ context.Context, listing *analysis.Listing) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	writeListingMarkdown(bw, listing, r.opts.ShowDiff)
	return nil
}

// ReportChanges implements Reporter.
func (r *MarkdownReporter) ReportChanges(_ context.Context, report *analysis.ChangeReport) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	writeChangesMarkdown(bw, report, r.opts.ShowDiff)
	return nil
}

// ReportCatalog implements Reporter.
func (r *MarkdownReporter) ReportCatalog(_ context.Context, catalog *analysis.Catalog) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	writeCatalogMarkdown(bw, catalog)
	return nil
}

func writeListingMarkdown(w io.Writer, listing *analysis.Listing, showDiff bool) {
	fmt.Fprintf(w, "# Operations at `%s:%d:%d`\n\n", listing.Path, listing.Line, listing.Column)

	if !listing.HasOperations() {
		fmt.Fprintln(w, "No operations available at this position.")
	} else {
		fmt.Fprintln(w, "| # | Rule | Operation | Priority |")
		fmt.Fprintln(w, "|---|------|-----------|----------|")
		for _, op := range listing.Operations {
			fmt.Fprintf(w, "| %d | %s | %s | %d |\n",
				op.Index, escapeCell(ruleLabel(op.Rule, op.RuleID)), escapeCell(op.Description), op.Priority)
		}
	}

	if len(listing.RuleErrors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Rule errors")
		fmt.Fprintln(w)
		for _, e := range listing.RuleErrors {
			fmt.Fprintf(w, "- **%s**: %s\n", e.RuleID, e.Error)
		}
	}

	if !showDiff {
		return
	}
	for _, op := range listing.Operations {
		if op.Diff == "" && op.Error == "" {
			continue
		}
		fmt.Fprintf(w, "\n## [%d] %s\n\n", op.Index, op.Description)
		if op.Error != "" {
			fmt.Fprintf(w, "> Preview failed: %s\n", op.Error)
			continue
		}
		writeDiffFence(w, op.Diff)
	}
}

func writeChangesMarkdown(w io.Writer, report *analysis.ChangeReport, showDiff bool) {
	fmt.Fprintf(w, "# %s (%s)\n\n", report.Description, ruleLabel(report.Rule, report.RuleID))

	if len(report.Files) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}

	fmt.Fprintln(w, "| File | + | - | Status |")
	fmt.Fprintln(w, "|------|---|---|--------|")
	for _, f := range report.Files {
		status := "pending"
		switch {
		case f.Written:
			status = "written"
		case report.DryRun:
			status = "dry run"
		}
		fmt.Fprintf(w, "| `%s` | %d | %d | %s |\n", escapeCell(f.Path), f.Additions, f.Deletions, status)
	}

	fmt.Fprintf(w, "\n**Summary:** %d files, %d insertions, %d deletions\n",
		report.Totals.Files, report.Totals.Additions, report.Totals.Deletions)

	for _, f := range report.Files {
		for _, se := range f.SyntaxErrors {
			fmt.Fprintf(w, "\n> Syntax error in `%s`: %s\n", f.Path, se)
		}
	}

	if !showDiff {
		return
	}
	for _, f := range report.Files {
		if f.Diff == "" {
			continue
		}
		fmt.Fprintf(w, "\n## `%s`\n\n", f.Path)
		writeDiffFence(w, f.Diff)
	}
}

func writeCatalogMarkdown(w io.Writer, catalog *analysis.Catalog) {
	fmt.Fprintln(w, "# Rules")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| ID | Name | Enabled | Aliases | Description |")
	fmt.Fprintln(w, "|----|------|---------|---------|-------------|")
	for _, rule := range catalog.Rules {
		enabled := "no"
		if rule.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			rule.ID, escapeCell(rule.Name), enabled,
			escapeCell(strings.Join(rule.Aliases, ", ")), escapeCell(rule.Description))
	}
	fmt.Fprintf(w, "\n%d rules, %d enabled\n", catalog.Totals.Rules, catalog.Totals.Enabled)
}

func writeDiffFence(w io.Writer, diff string) {
	fmt.Fprintln(w, "```diff")
	fmt.Fprint(w, diff)
	if !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "```")
}

// escapeCell makes s safe inside a Markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
