// Package pretty renders quickfix output for terminals with lipgloss:
// offered operations, source context, colored diffs and the rule table.
package pretty

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles are the lipgloss styles of every piece of terminal output.
type Styles struct {
	Error, Warning, Success lipgloss.Style

	// Operation listings.
	FilePath, Location, Index, Description lipgloss.Style
	RuleID, Priority, SourceLine, Caret    lipgloss.Style

	// Diffs.
	DiffHeader, DiffHunk, DiffAdd, DiffRemove, DiffContext lipgloss.Style

	// Rule table.
	TableHeader, TableSeparator, Enabled, Disabled, Tag lipgloss.Style

	Dim, Bold lipgloss.Style
}

// ANSI 256-color palette indexes.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorGray   = "8"
	colorSilver = "7"
)

// NewStyles returns colored styles, or styles that render text unchanged
// when color is off.
func NewStyles(color bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(c string) lipgloss.Style {
		if !color {
			return plain
		}
		return plain.Foreground(lipgloss.Color(c))
	}
	bold := func(s lipgloss.Style) lipgloss.Style {
		if !color {
			return s
		}
		return s.Bold(true)
	}

	return &Styles{
		Error:   bold(fg(colorRed)),
		Warning: bold(fg(colorYellow)),
		Success: bold(fg(colorGreen)),

		FilePath:    bold(plain),
		Location:    fg(colorGray),
		Index:       bold(fg(colorCyan)),
		Description: plain,
		RuleID:      fg(colorGray),
		Priority:    fg(colorGray).Italic(color),
		SourceLine:  fg(colorSilver),
		Caret:       fg(colorGreen),

		DiffHeader:  bold(plain),
		DiffHunk:    fg(colorCyan),
		DiffAdd:     fg(colorGreen),
		DiffRemove:  fg(colorRed),
		DiffContext: fg(colorGray),

		TableHeader:    bold(fg(colorSilver)),
		TableSeparator: fg(colorGray),
		Enabled:        fg(colorGreen),
		Disabled:       fg(colorGray),
		Tag:            fg(colorBlue),

		Dim:  fg(colorGray),
		Bold: bold(plain),
	}
}

// IsColorEnabled resolves a --color mode for writer. "always" and "never"
// are honoured as given. Anything else means auto: color only on a
// terminal, and never when NO_COLOR is set (https://no-color.org/).
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
