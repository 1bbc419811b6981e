package configloader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// RuleTags maps each tag carried by a registered rule to the rule IDs
// that carry it, in registration order.
func RuleTags(registry *quickfix.Registry) map[string][]string {
	tags := make(map[string][]string)
	for _, rule := range registry.Rules() {
		for _, tag := range rule.Tags() {
			tags[tag] = append(tags[tag], rule.ID())
		}
	}
	return tags
}

// ExpandRuleSelectors converts rule IDs, names, aliases and tags to
// canonical rule IDs. Unknown selectors are returned separately.
func ExpandRuleSelectors(registry *quickfix.Registry, selectors []string) ([]string, []string) {
	if selectors == nil {
		return nil, nil
	}

	tags := RuleTags(registry)
	ids := make([]string, 0, len(selectors))
	var unknown []string

	add := func(id string) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	for _, sel := range selectors {
		if id, _, ok := registry.Resolve(sel); ok {
			add(id)
			continue
		}
		if tagged, ok := tags[sel]; ok {
			for _, id := range tagged {
				add(id)
			}
			continue
		}
		unknown = append(unknown, sel)
	}

	return ids, unknown
}

// normalizeRuleSelectors rewrites EnableRules and DisableRules to rule IDs.
func normalizeRuleSelectors(registry *quickfix.Registry, result *LoadResult) {
	cfg := result.Config
	var unknown, bad []string

	cfg.EnableRules, bad = ExpandRuleSelectors(registry, cfg.EnableRules)
	unknown = append(unknown, bad...)
	cfg.DisableRules, bad = ExpandRuleSelectors(registry, cfg.DisableRules)
	unknown = append(unknown, bad...)

	for _, sel := range unknown {
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown rule or tag %q; it will be ignored", sel))
	}
}

// normalizeRuleKeys converts rule names and aliases used as keys of the
// rules map to canonical IDs. When one rule is configured under two keys,
// the entries are merged in key order and a warning is recorded.
func normalizeRuleKeys(registry *quickfix.Registry, result *LoadResult) {
	cfg := result.Config
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seen := make(map[string]string)

	for _, key := range slices.Sorted(maps.Keys(cfg.Rules)) {
		ruleCfg := cfg.Rules[key]
		canonicalID, _, found := registry.Resolve(key)
		if !found {
			normalized[key] = ruleCfg
			continue
		}

		if originalKey, exists := seen[canonicalID]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; merging",
					originalKey, key, canonicalID))
			normalized[canonicalID] = normalized[canonicalID].Overlay(ruleCfg)
			continue
		}

		seen[canonicalID] = key
		normalized[canonicalID] = ruleCfg
	}

	cfg.Rules = normalized
}
