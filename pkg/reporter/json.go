package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

// JSONReporter formats reports as JSON documents.
type JSONReporter struct {
	opts Options
	out  io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{opts: opts, out: opts.Writer}
}

// ReportOperations implements Reporter.
func (r *JSONReporter) ReportOperations(_ context.Context, listing *analysis.Listing) error {
	return r.encode(listing)
}

// ReportChanges implements Reporter.
func (r *JSONReporter) ReportChanges(_ context.Context, report *analysis.ChangeReport) error {
	return r.encode(report)
}

// ReportCatalog implements Reporter.
func (r *JSONReporter) ReportCatalog(_ context.Context, catalog *analysis.Catalog) error {
	return r.encode(catalog)
}

func (r *JSONReporter) encode(v any) (err error) {
	bw := bufio.NewWriterSize(r.out, bufWriterSize)
	defer flush(bw, &err)

	encoder := json.NewEncoder(bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
