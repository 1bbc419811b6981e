package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/analysis"
	"github.com/yaklabco/quickfix/pkg/config"
)

type rulesFlags struct {
	workspace workspaceFlags
	sortBy    string
}

func newRulesCommand(a *app) *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available quick-fix rules",
		Long: `List all registered rules with their IDs, names, aliases, tags and
whether the current configuration enables them.`,
		Example: `  quickfix rules
  quickfix rules --format markdown > RULES.md
  quickfix rules --disable statements --sort name`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRules(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.workspace.outFormat, "format", "f", "", "output format: text, json, markdown, html")
	cmd.Flags().StringVar(&flags.workspace.ruleFormat, "rule-format", "", "rule identifier format: name, id, or combined")
	cmd.Flags().StringSliceVar(&flags.workspace.enable, "enable", nil, "rules or tags to show as enabled")
	cmd.Flags().StringSliceVar(&flags.workspace.disable, "disable", nil, "rules or tags to show as disabled")
	cmd.Flags().BoolVar(&flags.workspace.compact, "compact", false, "use compact JSON output")
	cmd.Flags().StringVar(&flags.sortBy, "sort", string(analysis.SortByID), "sort order: id, name, registration")

	return cmd
}

func (a *app) runRules(cmd *cobra.Command, flags *rulesFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return fmt.Errorf("%w: invalid sort order %q", ErrUsage, flags.sortBy)
	}

	cfg, err := a.loadConfig(ctx, flags.workspace.cliConfig())
	if err != nil {
		return err
	}
	if cfg.Format == config.FormatDiff {
		return fmt.Errorf("%w: the rule catalog has no diff format", ErrUsage)
	}

	catalog := analysis.AnalyzeRules(a.registry, cfg, analysis.Options{
		SortBy:     sortBy,
		RuleFormat: cfg.RuleFormat,
	})

	for _, rule := range catalog.Rules {
		logger.Debug("rule",
			logging.FieldRule, rule.ID,
			logging.FieldName, rule.Name,
			logging.FieldEnabled, rule.Enabled,
		)
	}

	rep, err := a.newReporter(cmd, cfg, &flags.workspace, false)
	if err != nil {
		return err
	}
	if err := rep.ReportCatalog(ctx, catalog); err != nil {
		return fmt.Errorf("report rules: %w", err)
	}
	return nil
}
