// Package cli provides the Cobra command structure for quickfix.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/quickfix/rules"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// app carries the state shared by the subcommands of one invocation.
type app struct {
	registry *quickfix.Registry
	flags    globalFlags
}

// NewRootCommand creates the root quickfix command with all subcommands.
// A nil registry means a registry of the built-in rules.
func NewRootCommand(info BuildInfo, registry *quickfix.Registry) *cobra.Command {
	if registry == nil {
		registry = rules.NewRegistry()
	}
	a := &app{registry: registry}

	rootCmd := &cobra.Command{
		Use:   "quickfix",
		Short: "Cursor-driven quick fixes and refactorings for C and C++",
		Long: `quickfix offers the small refactorings an IDE shows at the cursor:
splitting declarations, adding braces, converting literals, completing
switch statements, extracting functions and more.

Point it at a file and a position to list what is available, then apply
one of the offered operations. Changes are previewed as diffs and only
written with --write, after verifying that no file changed on disk and
taking a backup of each one.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if a.flags.debug {
				level = "debug"
			}
			logging.SetLevel(level)

			logger := logging.ForSession(logging.NewWithWriter(cmd.ErrOrStderr(), level), uuid.NewString()[:8])
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Annotations: map[string]string{
			annotationEnvironment: "true",
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&a.flags.color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newApplyCommand(a))
	rootCmd.AddCommand(newRulesCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newVersionCommand(info))

	newHelpRenderer(colorModeFromArgs(os.Args[1:]), os.Stdout, a.registry).install(rootCmd)

	return rootCmd
}

// colorModeFromArgs finds --color before flags are parsed, so help output
// honours it.
func colorModeFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--color" && i+1 < len(args) {
			return args[i+1]
		}
		if mode, ok := strings.CutPrefix(arg, "--color="); ok {
			return mode
		}
	}
	return "auto"
}
