package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// Change is the effect of an operation on one buffer.
type Change struct {
	// Path is the buffer that changed.
	Path string

	// Before and After are the buffer contents around the operation.
	Before []byte
	After  []byte

	// Diff is the unified diff from Before to After.
	Diff *fix.Diff

	// Diagnostics are syntax errors the parser recovered from in After
	// that Before did not have.
	Diagnostics []*cppast.SyntaxError

	// BackupPath is set when Write saved a backup of the file.
	BackupPath string

	// Written is true once Write has replaced the file on disk.
	Written bool
}

// Result is the outcome of applying one operation.
type Result struct {
	// RuleID and Description identify the applied operation.
	RuleID      string
	Description string

	// Changes holds one entry per modified buffer, in workspace order.
	Changes []*Change
}

// Modified returns the number of changed buffers.
func (r *Result) Modified() int {
	return len(r.Changes)
}

// Written returns the number of buffers written to disk.
func (r *Result) Written() int {
	n := 0
	for _, c := range r.Changes {
		if c.Written {
			n++
		}
	}
	return n
}

// Additions returns the total number of added lines.
func (r *Result) Additions() int {
	n := 0
	for _, c := range r.Changes {
		if c.Diff != nil {
			n += c.Diff.Additions
		}
	}
	return n
}

// Deletions returns the total number of removed lines.
func (r *Result) Deletions() int {
	n := 0
	for _, c := range r.Changes {
		if c.Diff != nil {
			n += c.Diff.Deletions
		}
	}
	return n
}

// Apply performs op and applies its change sets to the workspace buffers
// in memory. Either every touched buffer changes or Apply fails. The
// workspace itself is not modified; the new contents are in the result.
func (w *Workspace) Apply(ctx context.Context, op quickfix.Operation) (*Result, error) {
	sets, err := op.Perform(ctx)
	if err != nil {
		return nil, fmt.Errorf("perform %s: %w", op.RuleID(), err)
	}

	out, err := fix.ApplyAll(w.buffers(), sets)
	if err != nil {
		return nil, fmt.Errorf("apply %s: %w", op.RuleID(), err)
	}

	result := &Result{RuleID: op.RuleID(), Description: op.Description()}
	for _, f := range w.files {
		after, ok := out[f.Path]
		if !ok {
			continue
		}
		diff := fix.GenerateDiff(f.Path, f.Content, after)
		if diff == nil {
			continue
		}
		change := &Change{Path: f.Path, Before: f.Content, After: after, Diff: diff}
		change.Diagnostics, err = newDiagnostics(ctx, f, after)
		if err != nil {
			return nil, fmt.Errorf("reparse %s: %w", f.Path, err)
		}
		for _, d := range change.Diagnostics {
			w.logger.Warn("operation introduced a syntax error", "rule", op.RuleID(), "error", d)
		}
		result.Changes = append(result.Changes, change)
	}

	w.logger.Debug("operation applied",
		"rule", op.RuleID(),
		"files", result.Modified(),
		"additions", result.Additions(),
		"deletions", result.Deletions(),
	)
	return result, nil
}

// newDiagnostics re-parses after and returns the syntax errors beyond
// those already present in f.
func newDiagnostics(ctx context.Context, f *File, after []byte) ([]*cppast.SyntaxError, error) {
	doc, err := cppast.Parse(ctx, f.Path, after)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if len(doc.Diagnostics) <= len(f.Doc.Diagnostics) {
		return nil, nil
	}
	return doc.Diagnostics[len(f.Doc.Diagnostics):], nil
}

// Write stores the result's buffers on disk. Every file is checked for
// modification since it was loaded before anything is written. If a
// write fails, files already written are restored from their snapshots.
func (w *Workspace) Write(ctx context.Context, result *Result, backup fsutil.BackupConfig) error {
	files := make([]*File, len(result.Changes))
	for i, c := range result.Changes {
		f, ok := w.byPath[c.Path]
		if !ok || f.Info == nil {
			return fmt.Errorf("%w: %s", ErrNotOnDisk, c.Path)
		}
		if err := fsutil.VerifyUnchanged(ctx, f.Info); err != nil {
			return err
		}
		files[i] = f
	}

	for i, c := range result.Changes {
		f := files[i]
		backupPath, err := fsutil.CreateBackup(ctx, f.Info, f.Content, backup)
		if err != nil {
			return errors.Join(fmt.Errorf("backup %s: %w", f.Path, err), w.rollback(ctx, result))
		}
		c.BackupPath = backupPath

		if err := fsutil.WriteAtomic(ctx, f.Path, c.After, f.Info.Mode); err != nil {
			return errors.Join(fmt.Errorf("%w: %s: %w", ErrWrite, f.Path, err), w.rollback(ctx, result))
		}
		c.Written = true
		w.logger.Info("file updated", "path", f.Path, "backup", backupPath)
	}
	return nil
}

// rollback restores the original content of every written change.
func (w *Workspace) rollback(ctx context.Context, result *Result) error {
	var errs []error
	for _, c := range result.Changes {
		if !c.Written {
			continue
		}
		f := w.byPath[c.Path]
		if err := fsutil.WriteAtomic(context.WithoutCancel(ctx), f.Path, c.Before, f.Info.Mode); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", f.Path, err))
			continue
		}
		c.Written = false
		w.logger.Warn("file restored", "path", f.Path)
	}
	return errors.Join(errs...)
}
