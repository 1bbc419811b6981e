// Command quickfix lists and applies cursor-driven quick fixes and
// refactorings to C and C++ sources.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/yaklabco/quickfix/internal/cli"
	"github.com/yaklabco/quickfix/internal/logging"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/quickfix/rules"
)

// Set with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // ldflags targets
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	root := cli.NewRootCommand(buildInfo(), rules.NewRegistry())

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	logger := logging.FromContext(root.Context())
	switch {
	case errors.Is(err, quickfix.ErrNoOperation):
		logger.Warn("nothing to apply", logging.FieldError, err)
	case errors.Is(err, context.Canceled):
		logger.Warn("interrupted")
	default:
		logger.Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}

// buildInfo falls back to the module version recorded by go install when
// the binary was built without ldflags.
func buildInfo() cli.BuildInfo {
	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	if version != "dev" {
		return info
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	return info
}
