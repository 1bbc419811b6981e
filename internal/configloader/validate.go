package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// ValidationError is a problem with one configuration field.
type ValidationError struct {
	Field    string // dotted path, e.g. "rules.QF006.options.name"
	Value    any
	Message  string
	FilePath string // set when the field is known to come from one file
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	for _, prefix := range []string{e.FilePath, e.Field} {
		if prefix != "" {
			b.WriteString(prefix)
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationResult collects the findings of Validate. Errors stop loading;
// warnings are reported and the offending entries ignored.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks cfg. With a registry, rule entries and their options are
// checked against the registered rules too.
func Validate(cfg *config.Config, registry *quickfix.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format,
			"invalid format %q; must be one of: text, json, markdown, html, diff", cfg.Format)
	}
	if cfg.RuleFormat != "" && !cfg.RuleFormat.IsValid() {
		result.fail("rule_format", cfg.RuleFormat,
			"invalid rule format %q; must be one of: name, id, combined", cfg.RuleFormat)
	}
	if mode := cfg.Backups.Mode; mode != "" && string(fsutil.ParseBackupMode(mode)) != mode {
		result.fail("backups.mode", mode, "invalid backup mode %q; must be one of: sidecar, none", mode)
	}
	if cfg.Write && cfg.DryRun {
		result.fail("write", true, "write and dry-run are mutually exclusive")
	}
	for i, ext := range cfg.Extensions {
		if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext, `/\`) {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext, "invalid extension %q; must look like .cxx", ext)
		}
	}

	if registry != nil {
		validateRules(cfg.Rules, registry, result)
	}
	return result
}

// validateRules warns about entries for unknown rules and about options a
// rule does not define.
func validateRules(entries map[string]config.RuleConfig, registry *quickfix.Registry, result *ValidationResult) {
	for _, id := range slices.Sorted(maps.Keys(entries)) {
		field := "rules." + id
		rule, ok := registry.Get(id)
		if !ok {
			result.warn(field, id, "unknown rule %q; it will be ignored", id)
			continue
		}

		defaults := rule.DefaultOptions()
		for _, key := range slices.Sorted(maps.Keys(entries[id].Options)) {
			if _, known := defaults[key]; !known {
				result.warn(field+".options."+key, key, "unknown option %q for %s", key, id)
			}
		}
	}
}
