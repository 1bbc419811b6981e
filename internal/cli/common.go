package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/configloader"
	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/reporter"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

var (
	// ErrUsage marks invalid arguments and flag combinations.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration files or values that cannot be used.
	ErrConfig = errors.New("invalid configuration")
)

// positionFlags select the cursor or selection in the main file.
type positionFlags struct {
	offset       int
	line         int
	column       int
	selectionEnd int
	endLine      int
	endColumn    int
}

func addPositionFlags(cmd *cobra.Command, pf *positionFlags) {
	cmd.Flags().IntVar(&pf.offset, "offset", -1, "cursor as a 0-based byte offset")
	cmd.Flags().IntVarP(&pf.line, "line", "l", 0, "cursor line (1-based)")
	cmd.Flags().IntVarP(&pf.column, "column", "c", 0, "cursor column (1-based, in bytes)")
	cmd.Flags().IntVar(&pf.selectionEnd, "selection-end", -1, "end of the selection as a byte offset")
	cmd.Flags().IntVar(&pf.endLine, "end-line", 0, "end of the selection: line (1-based)")
	cmd.Flags().IntVar(&pf.endColumn, "end-column", 0, "end of the selection: column (1-based)")
}

// selection converts the position flags to a workspace.Selection.
func (pf *positionFlags) selection() (workspace.Selection, error) {
	hasOffset := pf.offset >= 0
	hasLineCol := pf.line > 0 || pf.column > 0

	var start workspace.Position
	switch {
	case hasOffset && hasLineCol:
		return workspace.Selection{}, fmt.Errorf("%w: use either --offset or --line/--column", ErrUsage)
	case hasOffset:
		start = workspace.AtOffset(pf.offset)
	case pf.line > 0 && pf.column > 0:
		start = workspace.AtLineColumn(pf.line, pf.column)
	case hasLineCol:
		return workspace.Selection{}, fmt.Errorf("%w: --line and --column must be given together", ErrUsage)
	default:
		return workspace.Selection{}, fmt.Errorf("%w: a position is required (--offset or --line/--column)", ErrUsage)
	}

	hasEndOffset := pf.selectionEnd >= 0
	hasEndLineCol := pf.endLine > 0 || pf.endColumn > 0
	switch {
	case hasEndOffset && hasEndLineCol:
		return workspace.Selection{}, fmt.Errorf("%w: use either --selection-end or --end-line/--end-column", ErrUsage)
	case hasEndOffset:
		return workspace.Range(start, workspace.AtOffset(pf.selectionEnd)), nil
	case pf.endLine > 0 && pf.endColumn > 0:
		return workspace.Range(start, workspace.AtLineColumn(pf.endLine, pf.endColumn)), nil
	case hasEndLineCol:
		return workspace.Selection{}, fmt.Errorf("%w: --end-line and --end-column must be given together", ErrUsage)
	default:
		return workspace.Cursor(start), nil
	}
}

// workspaceFlags choose the files loaded alongside the main one.
type workspaceFlags struct {
	with        []string
	noRelated   bool
	extensions  []string
	enable      []string
	disable     []string
	ruleFormat  string
	outFormat   string
	compact     bool
	showContext bool
}

func addWorkspaceFlags(cmd *cobra.Command, wf *workspaceFlags) {
	cmd.Flags().StringSliceVarP(&wf.with, "with", "w", nil, "additional files rules may read or edit")
	cmd.Flags().BoolVar(&wf.noRelated, "no-related", false, "do not load the companion header or source")
	cmd.Flags().StringSliceVar(&wf.extensions, "ext", nil, "extra file extensions accepted as C or C++")
	cmd.Flags().StringSliceVar(&wf.enable, "enable", nil, "rules or tags to enable")
	cmd.Flags().StringSliceVar(&wf.disable, "disable", nil, "rules or tags to disable")
	cmd.Flags().StringVar(&wf.ruleFormat, "rule-format", "", "rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVarP(&wf.outFormat, "format", "f", "", "output format: text, json, markdown, html, diff")
	cmd.Flags().BoolVar(&wf.compact, "compact", false, "use compact JSON output")
	cmd.Flags().BoolVar(&wf.showContext, "context", true, "show the source line under the location")
}

// cliConfig returns the configuration layer contributed by the flags.
func (wf *workspaceFlags) cliConfig() *config.Config {
	return &config.Config{
		Extensions:   wf.extensions,
		EnableRules:  wf.enable,
		DisableRules: wf.disable,
		RuleFormat:   config.RuleFormat(wf.ruleFormat),
		Format:       config.OutputFormat(wf.outFormat),
	}
}

// loadConfig merges every configuration source with the CLI layer.
func (a *app) loadConfig(ctx context.Context, cliCfg *config.Config) (*config.Config, error) {
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: a.flags.configPath,
		Registry:     a.registry,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	return result.Config, nil
}

// loadWorkspace parses path and the files loaded alongside it.
func (a *app) loadWorkspace(ctx context.Context, path string, wf *workspaceFlags, cfg *config.Config) (*workspace.Workspace, error) {
	ws, err := workspace.Load(ctx, workspace.Options{
		Path:            path,
		Related:         wf.with,
		DiscoverRelated: !wf.noRelated,
		Config:          cfg,
		Logger:          logging.FromContext(ctx),
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ws, nil
}

// newReporter creates the reporter for cmd's output streams.
func (a *app) newReporter(cmd *cobra.Command, cfg *config.Config, wf *workspaceFlags, showDiff bool) (reporter.Reporter, error) {
	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       a.flags.color,
		ShowContext: wf.showContext,
		ShowSummary: true,
		ShowDiff:    showDiff,
		Compact:     wf.compact,
	})
	if err != nil {
		return nil, fmt.Errorf("create reporter: %w", err)
	}
	return rep, nil
}

// workingDir returns the process working directory, or "" when unknown.
func workingDir(logger *log.Logger) string {
	wd, err := os.Getwd()
	if err != nil {
		logger.Debug("cannot determine working directory", logging.FieldError, err)
		return ""
	}
	return wd
}

// exactArgs is cobra.ExactArgs with the error marked as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}

// noArgs is cobra.NoArgs with the error marked as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}
