package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Indent is the indentation used for generated YAML.
const Indent = 2

// Parse decodes a configuration file. Fields that only come from the
// command line are ignored.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleConfig{}
	}
	return &cfg, nil
}

// Marshal encodes the persisted part of c as YAML. A nil config encodes
// to nothing.
func (c *Config) Marshal() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(Indent)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a copy of c that shares no slices or maps with it.
// Option values are copied shallowly.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	out.Extensions = slices.Clone(c.Extensions)
	out.EnableRules = slices.Clone(c.EnableRules)
	out.DisableRules = slices.Clone(c.DisableRules)
	if c.Rules != nil {
		out.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			out.Rules[id] = rc.clone()
		}
	}
	return &out
}

func (rc RuleConfig) clone() RuleConfig {
	var out RuleConfig
	if rc.Enabled != nil {
		enabled := *rc.Enabled
		out.Enabled = &enabled
	}
	if rc.Options != nil {
		out.Options = maps.Clone(rc.Options)
	}
	return out
}
