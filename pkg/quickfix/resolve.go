package quickfix

import (
	"slices"

	"github.com/yaklabco/quickfix/pkg/config"
)

// ResolvedRule is a rule that will run, with its configuration entry when
// the configuration has one.
type ResolvedRule struct {
	Rule   Rule
	Config *config.RuleConfig
}

// ResolveRules returns the rules of registry that are enabled under cfg,
// in registration order.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var out []ResolvedRule
	for _, rule := range registry.Rules() {
		if enabled, rc := ruleState(rule, cfg); enabled {
			out = append(out, ResolvedRule{Rule: rule, Config: rc})
		}
	}
	return out
}

// RuleEnabled reports whether rule runs under cfg.
func RuleEnabled(rule Rule, cfg *config.Config) bool {
	enabled, _ := ruleState(rule, cfg)
	return enabled
}

// ruleState decides whether rule is enabled. Later sources win: the
// rule's default, its entry in the configuration, the enable list, then
// the disable list.
func ruleState(rule Rule, cfg *config.Config) (bool, *config.RuleConfig) {
	enabled := rule.DefaultEnabled()
	if cfg == nil {
		return enabled, nil
	}

	var rc *config.RuleConfig
	if entry, ok := cfg.Rules[rule.ID()]; ok {
		rc = &entry
		if entry.Enabled != nil {
			enabled = *entry.Enabled
		}
	}

	switch id := rule.ID(); {
	case slices.Contains(cfg.DisableRules, id):
		enabled = false
	case slices.Contains(cfg.EnableRules, id):
		enabled = true
	}
	return enabled, rc
}
