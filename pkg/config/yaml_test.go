package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()
		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies rules", func(t *testing.T) {
		t.Parallel()
		enabled := true
		original := &config.Config{
			Rules: map[string]config.RuleConfig{
				"QF006": {
					Enabled: &enabled,
					Options: map[string]any{"function-name": "helper"},
				},
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)
		require.Contains(t, clone.Rules, "QF006")
		assert.True(t, *clone.Rules["QF006"].Enabled)
		assert.NotSame(t, original.Rules["QF006"].Enabled, clone.Rules["QF006"].Enabled)

		clone.Rules["QF006"].Options["function-name"] = "other"
		assert.Equal(t, "helper", original.Rules["QF006"].Options["function-name"])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		t.Parallel()
		original := &config.Config{
			Extensions:   []string{".ipp"},
			Backups:      config.BackupsConfig{Enabled: true, Mode: "sidecar"},
			Write:        true,
			DryRun:       true,
			Format:       config.FormatJSON,
			RuleFormat:   config.RuleFormatID,
			EnableRules:  []string{"QF010"},
			DisableRules: []string{"QF003"},
			NoBackups:    true,
		}

		clone := original.Clone()
		assert.Equal(t, original, clone)

		clone.Extensions[0] = ".changed"
		assert.Equal(t, ".ipp", original.Extensions[0])
	})
}

func TestParseAndMarshal(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte(`
extensions: [.ipp, .tpp]
backups:
  enabled: false
rules:
  QF012:
    enabled: false
    options:
      variable-name: limit
`))
	require.NoError(t, err)
	assert.Equal(t, []string{".ipp", ".tpp"}, cfg.Extensions)
	assert.False(t, cfg.Backups.Enabled)
	require.Contains(t, cfg.Rules, "QF012")
	assert.False(t, *cfg.Rules["QF012"].Enabled)
	assert.Equal(t, "limit", cfg.Rules["QF012"].Options["variable-name"])

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "variable-name: limit")
	assert.NotContains(t, string(data), "write", "CLI-only fields are not serialized")

	var nilCfg *config.Config
	data, err = nilCfg.Marshal()
	require.NoError(t, err)
	assert.Nil(t, data)

	_, err = config.Parse([]byte("rules: [unterminated"))
	require.Error(t, err)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	minimal := string(config.GenerateTemplate(config.TemplateOptions{}))
	assert.Contains(t, minimal, "# quickfix configuration")
	assert.Contains(t, minimal, "# rules:")

	full := string(config.GenerateTemplate(config.TemplateOptions{
		Full: true,
		Rules: []config.RuleInfo{
			{ID: "QF002", Name: "add-braces", Description: "Adds braces.", Enabled: true},
			{ID: "QF001", Name: "split-declaration", Description: "Splits.", Enabled: true, Tags: []string{"declaration"}},
			{ID: "QF006", Name: "extract-function", Enabled: true, Options: map[string]any{"function-name": "extracted"}},
		},
	}))
	assert.Less(t, strings.Index(full, "QF001:"), strings.Index(full, "QF002:"))
	assert.Contains(t, full, "# Tags: declaration")
	assert.Contains(t, full, "      function-name: extracted")

	cfg, err := config.Parse([]byte(full))
	require.NoError(t, err, "the full template is valid configuration")
	assert.Len(t, cfg.Rules, 3)
}
