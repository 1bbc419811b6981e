package analysis

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

// previewJob is one operation waiting to be performed in memory.
type previewJob struct {
	index int
	op    quickfix.Operation
}

// previewOutcome carries the preview of the operation at index.
type previewOutcome struct {
	index int
	files []string
	diffs []string
	err   error
	model []*workspace.Change
}

// previewAll performs ops in memory on a pool of workers and fills the
// matching entries. Outcomes are stored by index, so the listing order
// does not depend on which worker finishes first.
func previewAll(ctx context.Context, ws *workspace.Workspace, ops []quickfix.Operation, entries []OperationEntry, opts Options) error {
	if len(ops) == 0 {
		return nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	if jobs > len(ops) {
		jobs = len(ops)
	}

	workCh := make(chan previewJob)
	outCh := make(chan previewOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			previewWorker(ctx, ws, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for i, op := range ops {
			select {
			case <-ctx.Done():
				return
			case workCh <- previewJob{index: i, op: op}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	for outcome := range outCh {
		entry := &entries[outcome.index]
		if outcome.err != nil {
			entry.Error = outcome.err.Error()
			continue
		}
		entry.Files = outcome.files
		for _, c := range outcome.model {
			entry.Diffs = append(entry.Diffs, c.Diff)
		}
		entry.Diff = strings.Join(outcome.diffs, "")
	}

	if ctx.Err() != nil {
		return fmt.Errorf("preview cancelled: %w", ctx.Err())
	}
	return nil
}

func previewWorker(
	ctx context.Context,
	ws *workspace.Workspace,
	workCh <-chan previewJob,
	outCh chan<- previewOutcome,
	opts Options,
) {
	for job := range workCh {
		outcome := previewOutcome{index: job.index}
		if ctx.Err() != nil {
			outcome.err = ctx.Err()
		} else if res, err := ws.Apply(ctx, job.op); err != nil {
			outcome.err = err
		} else {
			outcome.model = res.Changes
			for _, c := range res.Changes {
				outcome.files = append(outcome.files, makeRelativePath(c.Path, opts.WorkingDir))
				outcome.diffs = append(outcome.diffs, c.Diff.String())
			}
		}

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
