package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yaklabco/quickfix/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit and build date of quickfix, and the Go
toolchain and platform it was built for. With --short only the version
is printed.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			}

			// Printed through a plain info logger so the fields render as key=value.
			logging.NewWithWriter(cmd.OutOrStdout(), "info").
				WithPrefix("").
				Info("quickfix",
					logging.FieldVersion, info.Version,
					logging.FieldCommit, info.Commit,
					logging.FieldBuilt, info.Date,
					logging.FieldRuntime, runtime.Version(),
					logging.FieldPlatform, runtime.GOOS+"/"+runtime.GOARCH,
				)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version")

	return cmd
}
