package config

import "maps"

// Overlay returns a new configuration with the values set in over layered
// on top of c. Neither input is modified.
//
// Strings and lists replace the base when set. Booleans can only be
// switched on, since false cannot be told apart from unset. Rule entries
// merge per rule: Enabled replaces when set and Options merge key by key.
func (c *Config) Overlay(over *Config) *Config {
	switch {
	case c == nil:
		return over.Clone()
	case over == nil:
		return c.Clone()
	}

	out := c.Clone()

	if over.Format != "" {
		out.Format = over.Format
	}
	if over.RuleFormat != "" {
		out.RuleFormat = over.RuleFormat
	}
	if over.Backups.Mode != "" {
		out.Backups.Mode = over.Backups.Mode
	}
	out.Write = out.Write || over.Write
	out.DryRun = out.DryRun || over.DryRun
	out.NoBackups = out.NoBackups || over.NoBackups
	out.Backups.Enabled = out.Backups.Enabled || over.Backups.Enabled

	if over.Extensions != nil {
		out.Extensions = append([]string(nil), over.Extensions...)
	}
	if over.EnableRules != nil {
		out.EnableRules = append([]string(nil), over.EnableRules...)
	}
	if over.DisableRules != nil {
		out.DisableRules = append([]string(nil), over.DisableRules...)
	}

	if len(over.Rules) > 0 && out.Rules == nil {
		out.Rules = make(map[string]RuleConfig, len(over.Rules))
	}
	for id, rc := range over.Rules {
		out.Rules[id] = out.Rules[id].Overlay(rc)
	}

	return out
}

// Overlay returns rc with the fields set in over applied.
func (rc RuleConfig) Overlay(over RuleConfig) RuleConfig {
	if over.Enabled != nil {
		enabled := *over.Enabled
		rc.Enabled = &enabled
	}
	if over.Options != nil {
		merged := make(map[string]any, len(rc.Options)+len(over.Options))
		maps.Copy(merged, rc.Options)
		maps.Copy(merged, over.Options)
		rc.Options = merged
	}
	return rc
}
