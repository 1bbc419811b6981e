package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/analysis"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

type listFlags struct {
	position  positionFlags
	workspace workspaceFlags
	diff      bool
	jobs      int
}

func newListCommand(a *app) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "List the operations available at a position",
		Long: `List the quick fixes and refactorings offered at a cursor position or
selection, highest priority first. The index printed before each
operation is the value to pass to 'quickfix apply --pick'.`,
		Example: `  quickfix list main.cpp --line 12 --column 5
  quickfix list main.cpp --offset 240 --selection-end 310 --diff
  quickfix list shape.cpp -l 8 -c 3 --with include/shape.h --format json`,
		Args:        exactArgs(1),
		Annotations: map[string]string{annotationRules: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList(cmd, args[0], flags)
		},
	}

	addPositionFlags(cmd, &flags.position)
	addWorkspaceFlags(cmd, &flags.workspace)
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "preview every operation as a diff")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "number of operations previewed in parallel (0 = auto)")

	return cmd
}

func (a *app) runList(cmd *cobra.Command, path string, flags *listFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	sel, err := flags.position.selection()
	if err != nil {
		return err
	}

	cfg, err := a.loadConfig(ctx, flags.workspace.cliConfig())
	if err != nil {
		return err
	}

	ws, err := a.loadWorkspace(ctx, path, &flags.workspace, cfg)
	if err != nil {
		return err
	}

	dispatcher := quickfix.NewDispatcher(a.registry, cfg)
	dispatcher.Logger = logger

	result, err := ws.Match(ctx, dispatcher, sel)
	if err != nil {
		return fmt.Errorf("match: %w", err)
	}

	preview := flags.diff || cfg.Format == config.FormatDiff
	listing, err := analysis.AnalyzeMatch(ctx, ws, sel, result, a.registry, analysis.Options{
		Preview:    preview,
		Jobs:       flags.jobs,
		RuleFormat: cfg.RuleFormat,
		WorkingDir: workingDir(logger),
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	logger.Debug("operations listed",
		logging.FieldPath, listing.Path,
		logging.FieldOffset, listing.Offset,
		logging.FieldOperations, len(listing.Operations),
	)

	rep, err := a.newReporter(cmd, cfg, &flags.workspace, preview)
	if err != nil {
		return err
	}
	if err := rep.ReportOperations(ctx, listing); err != nil {
		return fmt.Errorf("report operations: %w", err)
	}
	return nil
}
