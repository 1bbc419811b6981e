package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/analysis"
)

// defaultTermWidth is used when terminal width cannot be determined.
const defaultTermWidth = 100

// TextReporter formats reports as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	table  *pretty.TableFormatter
	out    io.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	return &TextReporter{
		opts:   opts,
		styles: styles,
		table:  pretty.NewTableFormatter(styles, getTerminalWidth(opts.Writer)),
		out:    opts.Writer,
	}
}

// ReportOperations implements Reporter.
func (r *TextReporter) ReportOperations(_ context.Context, listing *analysis.Listing) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	fmt.Fprintln(bw, r.styles.FormatLocationHeader(listing.Path, listing.Line, listing.Column, len(listing.Operations)))
	if r.opts.ShowContext && listing.SourceLine != "" {
		fmt.Fprint(bw, r.styles.FormatSourceContext(listing.SourceLine, listing.Column))
	}

	for _, op := range listing.Operations {
		fmt.Fprint(bw, r.styles.FormatOperation(op))
		if r.opts.ShowDiff {
			for i, d := range op.Diffs {
				fmt.Fprint(bw, r.styles.FormatDiff(d, op.Files[i]))
			}
		}
	}
	for _, e := range listing.RuleErrors {
		fmt.Fprint(bw, r.styles.FormatRuleError(e))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(bw)
		fmt.Fprint(bw, r.styles.FormatListingSummary(listing))
	}
	return nil
}

// ReportChanges implements Reporter.
func (r *TextReporter) ReportChanges(_ context.Context, report *analysis.ChangeReport) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	fmt.Fprintln(bw, r.styles.Bold.Render(report.Description)+" "+r.styles.RuleID.Render("("+ruleLabel(report.Rule, report.RuleID)+")"))

	for _, f := range report.Files {
		status := r.styles.Dim.Render("pending")
		if f.Written {
			status = r.styles.Success.Render("written")
		}
		line := fmt.Sprintf("  %s  %s", r.styles.FilePath.Render(f.Path), status)
		if f.BackupPath != "" {
			line += r.styles.Dim.Render(" (backup " + f.BackupPath + ")")
		}
		fmt.Fprintln(bw, line)
		for _, se := range f.SyntaxErrors {
			fmt.Fprintln(bw, "    "+r.styles.Warning.Render("syntax: "+se))
		}
	}

	if r.opts.ShowDiff {
		for _, f := range report.Files {
			fmt.Fprint(bw, r.styles.FormatDiff(f.DiffModel, f.Path))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatChangeSummary(report.Totals, report.DryRun))
	}
	return nil
}

// ReportCatalog implements Reporter.
func (r *TextReporter) ReportCatalog(_ context.Context, catalog *analysis.Catalog) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	fmt.Fprint(bw, r.table.FormatCatalog(catalog))
	if r.opts.ShowSummary {
		fmt.Fprintln(bw, r.styles.Dim.Render(fmt.Sprintf("%d rules, %d enabled", catalog.Totals.Rules, catalog.Totals.Enabled)))
	}
	return nil
}

// ruleLabel returns the formatted rule identifier, or id when unset.
func ruleLabel(label, id string) string {
	if label == "" {
		return id
	}
	return label
}

// flush flushes bw into *err unless an error is already set.
func flush(bw *bufio.Writer, err *error) {
	if flushErr := bw.Flush(); *err == nil {
		*err = flushErr
	}
}

// getTerminalWidth attempts to get the terminal width from the writer.
func getTerminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
