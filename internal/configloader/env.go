package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/yaklabco/quickfix/pkg/config"
)

const envVarPrefix = "QUICKFIX_"

// LookupFunc reports the value of an environment variable and whether it
// is set, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envVar is one QUICKFIX_* variable and how it sets the configuration.
type envVar struct {
	suffix string
	help   string
	apply  func(cfg *config.Config, value string) error
}

func stringVar(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolVar(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%q is not a boolean (expected true/false/1/0)", value)
		}
		set(cfg, b)
		return nil
	}
}

func listVar(set func(*config.Config, []string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, splitList(value))
		return nil
	}
}

//nolint:gochecknoglobals // read-only
var envVars = []envVar{
	{"FORMAT", "Output format: text, json, markdown, html, or diff",
		stringVar(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"RULE_FORMAT", "Rule identifiers in output: name, id, or combined",
		stringVar(func(c *config.Config, v string) { c.RuleFormat = config.RuleFormat(v) })},
	{"DRY_RUN", "Print the diff without writing: true or false",
		boolVar(func(c *config.Config, v bool) { c.DryRun = v })},
	{"BACKUPS_ENABLED", "Enable backups when writing: true or false",
		boolVar(func(c *config.Config, v bool) { c.Backups.Enabled = v })},
	{"BACKUPS_MODE", "Backup mode: sidecar or none",
		stringVar(func(c *config.Config, v string) { c.Backups.Mode = v })},
	{"NO_BACKUPS", "Disable backups: true or false",
		boolVar(func(c *config.Config, v bool) { c.NoBackups = v })},
	{"EXTENSIONS", "Comma-separated extra C/C++ file extensions",
		listVar(func(c *config.Config, v []string) { c.Extensions = v })},
	{"ENABLE_RULES", "Comma-separated rules or tags to enable",
		listVar(func(c *config.Config, v []string) { c.EnableRules = v })},
	{"DISABLE_RULES", "Comma-separated rules or tags to disable",
		listVar(func(c *config.Config, v []string) { c.DisableRules = v })},
}

// ListEnvVars maps every supported environment variable to its help text.
func ListEnvVars() map[string]string {
	return lo.SliceToMap(envVars, func(v envVar) (string, string) {
		return envVarPrefix + v.suffix, v.help
	})
}

// DotEnvLookup reads the .env file at path. The returned lookup prefers
// the process environment over the file; the process environment itself is
// left alone.
func DotEnvLookup(path string) (LookupFunc, error) {
	fromFile, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fromFile[key]
		return v, ok
	}, nil
}

// loadFromLookup applies every QUICKFIX_* variable that lookup reports as
// set and non-empty.
func loadFromLookup(cfg *config.Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		name := envVarPrefix + v.suffix
		value, ok := lookup(name)
		if !ok || value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank items.
func splitList(value string) []string {
	items := lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(items)
}
