package reporter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

// HTMLReporter renders the Markdown report to an HTML fragment.
type HTMLReporter struct {
	opts Options
	out  io.Writer
	md   goldmark.Markdown
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(opts Options) *HTMLReporter {
	return &HTMLReporter{
		opts: opts,
		out:  opts.Writer,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ReportOperations implements Reporter.
func (r *HTMLReporter) ReportOperations(_ context.Context, listing *analysis.Listing) error {
	var src bytes.Buffer
	writeListingMarkdown(&src, listing, r.opts.ShowDiff)
	return r.render(src.Bytes())
}

// ReportChanges implements Reporter.
func (r *HTMLReporter) ReportChanges(_ context.Context, report *analysis.ChangeReport) error {
	var src bytes.Buffer
	writeChangesMarkdown(&src, report, r.opts.ShowDiff)
	return r.render(src.Bytes())
}

// ReportCatalog implements Reporter.
func (r *HTMLReporter) ReportCatalog(_ context.Context, catalog *analysis.Catalog) error {
	var src bytes.Buffer
	writeCatalogMarkdown(&src, catalog)
	return r.render(src.Bytes())
}

func (r *HTMLReporter) render(src []byte) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	if err := r.md.Convert(src, bw); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}
	return nil
}
