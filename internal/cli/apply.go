package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/analysis"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

// ErrSyntaxIntroduced is returned when --write is refused because the
// operation would leave a file that no longer parses.
var ErrSyntaxIntroduced = errors.New("operation introduces syntax errors")

type applyFlags struct {
	position  positionFlags
	workspace workspaceFlags
	pick      int
	rule      string
	write     bool
	dryRun    bool
	backup    bool
	noBackup  bool
	force     bool
}

func newApplyCommand(a *app) *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply FILE",
		Short: "Apply one of the operations available at a position",
		Long: `Apply an operation offered at a position. Choose it by index (as shown
by 'quickfix list') or by rule; with --rule, --pick indexes the operations
of that rule.

Without --write the change is only shown as a diff. With --write every
touched file is checked for modification since it was read, backed up,
and replaced atomically; on any failure the files already written are
restored.`,
		Example: `  quickfix apply main.cpp -l 12 -c 5 --pick 0
  quickfix apply main.cpp -l 12 -c 5 --rule add-braces --write
  quickfix apply main.cpp --offset 240 --rule QF011 --pick 1 --write --no-backup`,
		Args:        exactArgs(1),
		Annotations: map[string]string{annotationRules: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd, args[0], flags)
		},
	}

	addPositionFlags(cmd, &flags.position)
	addWorkspaceFlags(cmd, &flags.workspace)
	cmd.Flags().IntVarP(&flags.pick, "pick", "p", 0, "index of the operation to apply")
	cmd.Flags().StringVarP(&flags.rule, "rule", "r", "", "apply an operation offered by this rule (ID, name, or alias)")
	cmd.Flags().BoolVar(&flags.write, "write", false, "write the changed files")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the diff without writing (default unless --write)")
	cmd.Flags().BoolVar(&flags.backup, "backup", false, "back up files before writing even if disabled in config")
	cmd.Flags().BoolVar(&flags.noBackup, "no-backup", false, "do not back up files before writing")
	cmd.Flags().BoolVar(&flags.force, "force", false, "write even if the result no longer parses")

	return cmd
}

// validate rejects contradictory flag combinations.
func (f *applyFlags) validate() error {
	if f.write && f.dryRun {
		return fmt.Errorf("%w: --write and --dry-run cannot be combined", ErrUsage)
	}
	if f.backup && f.noBackup {
		return fmt.Errorf("%w: --backup and --no-backup cannot be combined", ErrUsage)
	}
	return nil
}

func (a *app) runApply(cmd *cobra.Command, path string, flags *applyFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	if err := flags.validate(); err != nil {
		return err
	}

	sel, err := flags.position.selection()
	if err != nil {
		return err
	}

	cliCfg := flags.workspace.cliConfig()
	cliCfg.Write = flags.write
	cliCfg.DryRun = flags.dryRun
	cliCfg.NoBackups = flags.noBackup
	cliCfg.Backups.Enabled = flags.backup

	cfg, err := a.loadConfig(ctx, cliCfg)
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

	op, err := a.choose(result, flags)
	if err != nil {
		return err
	}

	ctx = logging.WithFields(ctx, logging.FieldRule, op.RuleID())
	logger = logging.FromContext(ctx)
	logger.Debug("applying operation", logging.FieldDescription, op.Description())

	applied, err := ws.Apply(ctx, op)
	if err != nil {
		return fmt.Errorf("apply %s: %w", op.RuleID(), err)
	}

	write := cfg.Write && !cfg.DryRun
	if write {
		if err := refuseBrokenResult(applied, flags.force); err != nil {
			return err
		}
		if err := ws.Write(ctx, applied, workspace.BackupConfigFromConfig(cfg)); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}

	logger.Debug("operation complete",
		logging.FieldFiles, applied.Modified(),
		logging.FieldAdditions, applied.Additions(),
		logging.FieldDeletions, applied.Deletions(),
		logging.FieldWrite, write,
		logging.FieldBackups, write && backupsEnabled(cfg),
	)

	report := analysis.AnalyzeChanges(applied, a.registry, !write, analysis.Options{
		RuleFormat: cfg.RuleFormat,
		WorkingDir: workingDir(logger),
	})

	rep, err := a.newReporter(cmd, cfg, &flags.workspace, true)
	if err != nil {
		return err
	}
	if err := rep.ReportChanges(ctx, report); err != nil {
		return fmt.Errorf("report changes: %w", err)
	}
	return nil
}

// choose selects the operation named by --pick and --rule.
func (a *app) choose(result *quickfix.MatchResult, flags *applyFlags) (quickfix.Operation, error) {
	if flags.rule == "" {
		return result.Pick(flags.pick)
	}

	id, _, ok := a.registry.Resolve(flags.rule)
	if !ok {
		return nil, fmt.Errorf("%w: unknown rule %q", ErrUsage, flags.rule)
	}

	var offered []quickfix.Operation
	for _, op := range result.Operations {
		if op.RuleID() == id {
			offered = append(offered, op)
		}
	}
	if flags.pick < 0 || flags.pick >= len(offered) {
		return nil, fmt.Errorf("%w: %s offered %d operations, cannot pick %d",
			quickfix.ErrNoOperation, id, len(offered), flags.pick)
	}
	return offered[flags.pick], nil
}

// refuseBrokenResult fails when a change leaves a file with new syntax
// errors, unless force is set.
func refuseBrokenResult(result *workspace.Result, force bool) error {
	if force {
		return nil
	}
	var errs []error
	for _, c := range result.Changes {
		for _, d := range c.Diagnostics {
			errs = append(errs, d)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w (use --force to write anyway): %w", ErrSyntaxIntroduced, errors.Join(errs...))
}

// backupsEnabled reports whether cfg takes backups on write.
func backupsEnabled(cfg *config.Config) bool {
	return workspace.BackupConfigFromConfig(cfg).Enabled
}
