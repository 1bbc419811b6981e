// Package workspace loads C and C++ buffers, runs the quick-fix
// dispatcher at a position in one of them, and applies the chosen
// operation across every buffer it touches.
package workspace

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/fsutil"
)

// Options controls how a Workspace is loaded from disk.
type Options struct {
	// Path is the file the cursor is in.
	Path string

	// Related are additional files whose declarations rules may read or
	// edit, such as the header declaring the functions defined in Path.
	Related []string

	// DiscoverRelated adds companion files sharing Path's base name in
	// the same directory: headers for a source file, sources for a header.
	DiscoverRelated bool

	// WorkingDir resolves relative paths. Empty means the process
	// working directory.
	WorkingDir string

	// Config supplies extra source extensions and backup settings (may
	// be nil).
	Config *config.Config

	// Logger receives load and write events (may be nil).
	Logger *log.Logger
}

// HeaderExtensions are tried, in order, when looking for the header of a
// source file.
func HeaderExtensions() []string {
	return []string{".h", ".hpp", ".hh", ".hxx"}
}

// SourceExtensions are tried, in order, when looking for the source of a
// header.
func SourceExtensions() []string {
	return []string{".cpp", ".cc", ".cxx", ".c"}
}

// extensions returns the extra source extensions from the config.
func (o Options) extensions() []string {
	if o.Config == nil {
		return nil
	}
	return o.Config.Extensions
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from cfg. CLI
// --no-backup wins over the configuration file.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.ParseBackupMode(cfg.Backups.Mode),
	}
}
