package config

import (
	"bytes"
	"cmp"
	"maps"
	"slices"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

// RuleInfo describes a rule for the generated configuration.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Tags        []string
	Options     map[string]any
}

// TemplateOptions controls GenerateTemplate.
type TemplateOptions struct {
	// Full writes an entry for every rule in Rules. Otherwise the rules
	// section is a commented example.
	Full  bool
	Rules []RuleInfo
}

const descriptionWidth = 70

//nolint:gochecknoglobals // parsed once
var configTemplate = template.Must(template.New("config").Funcs(template.FuncMap{
	"wrap":   wrapWords,
	"join":   strings.Join,
	"keys":   func(m map[string]any) []string { return slices.Sorted(maps.Keys(m)) },
	"scalar": yamlScalar,
}).Parse(`# quickfix configuration
# Place this file at .quickfix.yml in a project root or pass it with --config.

# Extra file extensions treated as C++ sources.
# extensions:
#   - .ipp

# Backups written next to changed files (file.cpp.quickfix.bak).
backups:
  enabled: true
  mode: sidecar
{{if .Full}}
rules:
{{- range .Rules}}

  # {{.ID}}: {{.Name}}
{{- range wrap .Description}}
  # {{.}}
{{- end}}
{{- with .Tags}}
  # Tags: {{join . ", "}}
{{- end}}
  {{.ID}}:
    enabled: {{.Enabled}}
{{- with $opts := .Options}}
    options:
{{- range $key := keys $opts}}
      {{$key}}: {{scalar (index $opts $key)}}
{{- end}}
{{- end}}
{{- end}}
{{else}}
# Rule-specific configuration
# rules:
#   QF006:
#     options:
#       function-name: extracted
#   QF010:
#     enabled: false
{{end}}`))

// GenerateTemplate renders a commented configuration file.
func GenerateTemplate(opts TemplateOptions) []byte {
	rules := slices.Clone(opts.Rules)
	slices.SortFunc(rules, func(a, b RuleInfo) int { return cmp.Compare(a.ID, b.ID) })

	var buf bytes.Buffer
	// The template and its inputs are fixed; execution cannot fail.
	_ = configTemplate.Execute(&buf, TemplateOptions{Full: opts.Full, Rules: rules})
	return buf.Bytes()
}

// wrapWords splits text into lines of at most descriptionWidth bytes,
// breaking between words. A single longer word gets a line of its own.
func wrapWords(text string) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > descriptionWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// yamlScalar renders an option value as it would appear in YAML.
func yamlScalar(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "null"
	}
	return strings.TrimSpace(string(out))
}
