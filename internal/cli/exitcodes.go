package cli

import (
	"errors"

	"github.com/yaklabco/quickfix/internal/configloader"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/workspace"
)

// Exit codes for quickfix.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitNoOperation indicates the requested operation was not offered.
	ExitNoOperation = 1

	// ExitRefused indicates a write was refused to protect the files:
	// a file changed on disk or the result no longer parses.
	ExitRefused = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInputError indicates a missing or unusable input file.
	ExitInputError = 66

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUsage), errors.Is(err, workspace.ErrBadPosition), errors.Is(err, workspace.ErrNoPath):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, quickfix.ErrNoOperation):
		return ExitNoOperation
	case errors.Is(err, fsutil.ErrModified), errors.Is(err, ErrSyntaxIntroduced):
		return ExitRefused
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, workspace.ErrNotCpp), errors.Is(err, workspace.ErrParse):
		return ExitInputError
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, workspace.ErrWrite):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
