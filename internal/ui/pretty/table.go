package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

// Column layout for the rule table.
const (
	minDescWidth   = 20
	columnGap      = 2
	enabledColumn  = 7
	defaultTermCol = 100
)

// TableFormatter lays out the rule catalog as a table sized to the
// terminal.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a TableFormatter. A non-positive termWidth
// selects a default width.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermCol
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type catalogWidths struct {
	id, name, tags, desc int
}

// FormatCatalog renders the rules of catalog with ID, name, enabled
// state, tags and a description truncated to the remaining width.
func (t *TableFormatter) FormatCatalog(catalog *analysis.Catalog) string {
	widths := t.widths(catalog.Rules)
	total := widths.id + widths.name + enabledColumn + widths.tags + widths.desc + 4*columnGap

	var b strings.Builder
	sep := t.styles.TableSeparator.Render(strings.Repeat("─", total))
	header := t.row(widths, "ID", "Name", "Enabled", "Tags", "Description", t.styles.TableHeader)
	b.WriteString(header + "\n" + sep + "\n")

	for _, r := range catalog.Rules {
		enabled, enabledStyle := "no", t.styles.Disabled
		if r.Enabled {
			enabled, enabledStyle = "yes", t.styles.Enabled
		}
		b.WriteString(padRight(r.ID, widths.id) + gap() +
			padRight(r.Name, widths.name) + gap() +
			enabledStyle.Render(padRight(enabled, enabledColumn)) + gap() +
			t.styles.Tag.Render(padRight(strings.Join(r.Tags, ","), widths.tags)) + gap() +
			truncateString(r.Description, widths.desc) + "\n")
	}

	b.WriteString(sep + "\n")
	return b.String()
}

func (t *TableFormatter) widths(rules []analysis.RuleEntry) catalogWidths {
	w := catalogWidths{id: len("ID"), name: len("Name"), tags: len("Tags")}
	for _, r := range rules {
		w.id = max(w.id, len(r.ID))
		w.name = max(w.name, len(r.Name))
		w.tags = max(w.tags, len(strings.Join(r.Tags, ",")))
	}
	w.desc = max(minDescWidth, t.termWidth-(w.id+w.name+enabledColumn+w.tags+4*columnGap))
	return w
}

func (t *TableFormatter) row(w catalogWidths, id, name, enabled, tags, desc string, style lipgloss.Style) string {
	return style.Render(padRight(id, w.id)) + gap() +
		style.Render(padRight(name, w.name)) + gap() +
		style.Render(padRight(enabled, enabledColumn)) + gap() +
		style.Render(padRight(tags, w.tags)) + gap() +
		style.Render(desc)
}

func gap() string {
	return strings.Repeat(" ", columnGap)
}

// padRight pads a string to width. Padding happens before styling so
// ANSI sequences do not count toward the width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// truncateString shortens str to maxLen characters with an ellipsis.
func truncateString(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	if maxLen <= 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
