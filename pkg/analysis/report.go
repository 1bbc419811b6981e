package analysis

import (
	"path/filepath"
	"time"

	"github.com/yaklabco/quickfix/pkg/fix"
)

// Listing describes the operations offered at one selection.
type Listing struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	// Path, Line and Column locate the selection start.
	Path   string `json:"path"`
	Line   int    `json:"line"`
	Column int    `json:"column"`

	// Offset and EndOffset are the selection as byte offsets.
	Offset    int `json:"offset"`
	EndOffset int `json:"endOffset"`

	// SourceLine is the text of the line holding the selection start.
	SourceLine string `json:"-"`

	// Operations are in dispatcher order: priority descending.
	Operations []OperationEntry `json:"operations"`

	// RuleErrors lists rules that failed while matching.
	RuleErrors []RuleErrorEntry `json:"ruleErrors,omitempty"`

	// ByRule counts operations per offering rule, in first-offer order.
	ByRule []RuleCount `json:"byRule,omitempty"`
}

// OperationEntry is one offered operation.
type OperationEntry struct {
	// Index is the 0-based position used to pick the operation.
	Index       int    `json:"index"`
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
	Rule        string `json:"-"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`

	// Files, Diffs and Error are filled when previews are requested.
	Files []string    `json:"files,omitempty"`
	Diffs []*fix.Diff `json:"-"`
	Diff  string      `json:"diff,omitempty"`
	Error string      `json:"error,omitempty"`
}

// RuleErrorEntry records a rule that failed during matching.
type RuleErrorEntry struct {
	RuleID string `json:"ruleId"`
	Error  string `json:"error"`
}

// RuleCount is the number of operations one rule offered.
type RuleCount struct {
	RuleID     string `json:"ruleId"`
	RuleName   string `json:"ruleName"`
	Operations int    `json:"operations"`
}

// HasOperations returns true if any operation was offered.
func (l *Listing) HasOperations() bool {
	return len(l.Operations) > 0
}

// ChangeReport describes the effect of one applied operation.
type ChangeReport struct {
	Version     string `json:"version"`
	RuleID      string `json:"ruleId"`
	RuleName    string `json:"ruleName"`
	Rule        string `json:"-"`
	Description string `json:"description"`

	// DryRun is true when nothing was written.
	DryRun bool `json:"dryRun"`

	Files  []FileChange `json:"files"`
	Totals ChangeTotals `json:"summary"`
}

// FileChange is the effect on one file.
type FileChange struct {
	Path       string    `json:"path"`
	Additions  int       `json:"additions"`
	Deletions  int       `json:"deletions"`
	Written    bool      `json:"written"`
	BackupPath string    `json:"backupPath,omitempty"`
	Diff       string    `json:"diff"`
	DiffModel  *fix.Diff `json:"-"`

	// SyntaxErrors are parse errors introduced by the change.
	SyntaxErrors []string `json:"syntaxErrors,omitempty"`
}

// ChangeTotals aggregates a ChangeReport.
type ChangeTotals struct {
	Files     int `json:"files"`
	Written   int `json:"written"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

// Catalog describes the registered rules.
type Catalog struct {
	Version string        `json:"version"`
	Rules   []RuleEntry   `json:"rules"`
	Totals  CatalogTotals `json:"summary"`
}

// RuleEntry is one rule of the catalog.
type RuleEntry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Rule        string         `json:"-"`
	Description string         `json:"description"`
	Enabled     bool           `json:"enabled"`
	Tags        []string       `json:"tags,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

// CatalogTotals aggregates a Catalog.
type CatalogTotals struct {
	Rules   int `json:"rules"`
	Enabled int `json:"enabled"`
}

// makeRelativePath converts a path to one relative to workDir. If workDir
// is empty or conversion fails, it returns the original path.
func makeRelativePath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
