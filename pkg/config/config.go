// Package config defines core configuration types for quickfix.
// These types are pure data structures; discovery, environment overrides
// and merging live in internal/configloader.
package config

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled *bool          `yaml:"enabled"`
	Options map[string]any `yaml:"options"`
}

// BackupsConfig controls backup behavior when writing changed files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Mode    string `yaml:"mode"` // "sidecar"
}

// OutputFormat specifies the output format for operations and catalogs.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatHTML     OutputFormat = "html"
	FormatDiff     OutputFormat = "diff"
)

// IsValid returns true if the output format is known.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatMarkdown, FormatHTML, FormatDiff:
		return true
	default:
		return false
	}
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "split-declaration"
	RuleFormatID       RuleFormat = "id"       // "QF001"
	RuleFormatCombined RuleFormat = "combined" // "QF001/split-declaration"
)

// Config is the root configuration structure for quickfix.
type Config struct {
	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules"`

	// Extensions lists additional file extensions accepted as C or C++
	// sources when language detection is inconclusive.
	Extensions []string `yaml:"extensions"`

	// Backups configures backup behavior when writing files.
	Backups BackupsConfig `yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Write applies the chosen operation to the files on disk.
	Write bool `yaml:"-"`

	// DryRun prints the diff of the chosen operation without writing.
	DryRun bool `yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Rules: make(map[string]RuleConfig),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatCombined,
	}
}
