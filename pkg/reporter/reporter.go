// Package reporter writes quickfix reports: the operations offered at a
// position, the changes made by an applied operation, and the rule
// catalog, in text, JSON, Markdown, HTML or diff form.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

// Output is written through a bufio.Writer of this size and flushed once
// per report.
const bufWriterSize = 64 << 10

// Reporter formats and writes reports.
type Reporter interface {
	// ReportOperations writes the operations offered at one position.
	ReportOperations(ctx context.Context, listing *analysis.Listing) error

	// ReportChanges writes the effect of an applied operation.
	ReportChanges(ctx context.Context, report *analysis.ChangeReport) error

	// ReportCatalog writes the rule catalog.
	ReportCatalog(ctx context.Context, catalog *analysis.Catalog) error
}

// Options configures a Reporter. Not every format honours every option.
type Options struct {
	Writer io.Writer // os.Stdout when nil
	Format Format    // text when empty
	Color  string    // auto, always or never

	ShowContext bool // text: print the source line under each location
	ShowSummary bool // text: close with a summary line
	ShowDiff    bool // text: preview operations and show change diffs
	Compact     bool // json: no indentation
}

// DefaultOptions returns the options used by the command line for a
// terminal.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		ShowDiff:    true,
	}
}

//nolint:gochecknoglobals // read-only
var constructors = map[Format]func(Options) Reporter{
	FormatText:     func(o Options) Reporter { return NewTextReporter(o) },
	FormatJSON:     func(o Options) Reporter { return NewJSONReporter(o) },
	FormatMarkdown: func(o Options) Reporter { return NewMarkdownReporter(o) },
	FormatHTML:     func(o Options) Reporter { return NewHTMLReporter(o) },
	FormatDiff:     func(o Options) Reporter { return NewDiffReporter(o) },
}

// New returns the Reporter for opts.Format.
//
//nolint:ireturn // the concrete type depends on the format
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	newReporter, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return newReporter(opts), nil
}
