package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/analysis"
)

// DiffReporter writes only unified diffs, suitable for piping to patch.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		out:    opts.Writer,
	}
}

// ReportOperations implements Reporter. Each previewed operation is
// introduced by a comment line naming its index.
func (r *DiffReporter) ReportOperations(_ context.Context, listing *analysis.Listing) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	for _, op := range listing.Operations {
		fmt.Fprintln(bw, r.styles.Dim.Render(fmt.Sprintf("# [%d] %s (%s)", op.Index, op.Description, op.RuleID)))
		if op.Error != "" {
			fmt.Fprintln(bw, r.styles.Warning.Render("# preview failed: "+op.Error))
			continue
		}
		for i, d := range op.Diffs {
			fmt.Fprint(bw, r.styles.FormatDiff(d, relativePath(op.Files[i])))
		}
	}
	return nil
}

// ReportChanges implements Reporter.
func (r *DiffReporter) ReportChanges(_ context.Context, report *analysis.ChangeReport) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	for _, f := range report.Files {
		fmt.Fprint(bw, r.styles.FormatDiff(f.DiffModel, relativePath(f.Path)))
	}
	return nil
}

// ReportCatalog implements Reporter. A catalog has no diff form, so it is
// written as text.
func (r *DiffReporter) ReportCatalog(ctx context.Context, catalog *analysis.Catalog) error {
	return NewTextReporter(r.opts).ReportCatalog(ctx, catalog)
}

// relativePath converts an absolute path to relative from cwd.
func relativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
