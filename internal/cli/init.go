package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/analysis"
	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/fsutil"
)

// defaultConfigFile is the file written by init when --output is not set.
const defaultConfigFile = ".quickfix.yml"

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand(a *app) *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new quickfix configuration file",
		Long: `Create a new .quickfix.yml configuration file in the current directory.
The file can be customized to enable or disable rules, set rule options
such as the name given to extracted functions, and configure backups.`,
		Example: `  quickfix init                     Create a minimal .quickfix.yml
  quickfix init --full              Document every rule and its options
  quickfix init --output ci.yml     Write to a custom file path`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "generate a full template with all rules documented")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func (a *app) runInit(cmd *cobra.Command, flags *initFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	catalog := analysis.AnalyzeRules(a.registry, config.NewConfig(), analysis.DefaultOptions())
	content := config.GenerateTemplate(config.TemplateOptions{
		Full:  flags.full,
		Rules: catalog.RuleInfos(),
	})

	if err := fsutil.WriteAtomic(ctx, absPath, content, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'quickfix rules' to see all available rules")

	return nil
}
