package cli

import (
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/quickfix/internal/configloader"
	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/quickfix"
)

// Help sections enabled per command through cobra annotations.
const (
	// annotationEnvironment lists the QUICKFIX_* environment variables.
	annotationEnvironment = "quickfix/environment"

	// annotationRules lists the rule selectors accepted by --rule,
	// --enable and --disable.
	annotationRules = "quickfix/rules"
)

const helpTemplate = `{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}
{{- range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (pad .Name .NamePadding) }} {{ .Short }}
{{- end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if annotated . "` + annotationRules + `"}}

{{ heading "Rules:" }}
{{ rules }}
{{- end}}
{{- if annotated . "` + annotationEnvironment + `"}}

{{ heading "Environment:" }}
{{ environment }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Run "{{ command (print .CommandPath " [command] --help") }}" for details on a command.
{{- end}}
`

// flagLine splits a pflag usage line into indentation, flag spelling and
// description. pflag separates the last two by at least two spaces.
var flagLine = regexp.MustCompile(`^(\s*)(\S.*?)\s{2,}(\S.*)$`)

// helpRenderer renders command help with the output styles and, for the
// commands that select rules, the registered rules.
type helpRenderer struct {
	styles   *pretty.Styles
	registry *quickfix.Registry
	tmpl     *template.Template
}

func newHelpRenderer(colorMode string, writer io.Writer, registry *quickfix.Registry) *helpRenderer {
	h := &helpRenderer{
		styles:   pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer)),
		registry: registry,
	}
	h.tmpl = template.Must(template.New("help").Funcs(template.FuncMap{
		"heading":     h.styles.Bold.Render,
		"command":     h.styles.Index.Render,
		"subcommand":  h.styles.Success.Render,
		"dim":         h.styles.Dim.Render,
		"pad":         pad,
		"trimRight":   trimRight,
		"annotated":   annotated,
		"flags":       h.flags,
		"rules":       h.rules,
		"environment": h.environment,
	}).Parse(helpTemplate))
	return h
}

// install makes cmd and its subcommands render help and usage with h.
func (h *helpRenderer) install(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := h.tmpl.Execute(c.OutOrStderr(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := h.tmpl.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

func annotated(cmd *cobra.Command, key string) bool {
	return cmd.Annotations[key] != ""
}

// flags styles the flag names of a flag set and dims the value types.
func (h *helpRenderer) flags(fs *pflag.FlagSet) string {
	usages := strings.TrimRight(fs.FlagUsages(), "\n")
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		m := flagLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		words := strings.Fields(m[2])
		for j, w := range words {
			if name, ok := strings.CutSuffix(w, ","); ok && strings.HasPrefix(name, "-") {
				words[j] = h.styles.Tag.Render(name) + ","
			} else if strings.HasPrefix(w, "-") {
				words[j] = h.styles.Tag.Render(w)
			} else {
				words[j] = h.styles.Dim.Render(w)
			}
		}
		lines[i] = m[1] + strings.Join(words, " ") + "   " + m[3]
	}
	return strings.Join(lines, "\n")
}

// rules lists every registered rule as ID, name and aliases.
func (h *helpRenderer) rules() string {
	if h.registry == nil {
		return ""
	}
	all := h.registry.Rules()
	width := 0
	for _, r := range all {
		width = max(width, len(r.Name()))
	}

	lines := make([]string, 0, len(all)+1)
	for _, r := range all {
		line := "  " + h.styles.RuleID.Render(r.ID()) + "  " + h.styles.Tag.Render(pad(r.Name(), width))
		if aliases := h.registry.Aliases(r.ID()); len(aliases) > 0 {
			line += "  " + h.styles.Dim.Render("("+strings.Join(aliases, ", ")+")")
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	lines = append(lines, h.styles.Dim.Render("  Tags select groups of rules; see 'quickfix rules'."))
	return strings.Join(lines, "\n")
}

// environment lists the supported environment variables.
func (h *helpRenderer) environment() string {
	vars := configloader.ListEnvVars()
	names := slices.Sorted(maps.Keys(vars))

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+h.styles.Tag.Render(pad(name, width))+"   "+vars[name])
	}
	return strings.Join(lines, "\n")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimRight(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
