package reporter

import (
	"fmt"
	"slices"
	"strings"
)

// Format names a reporter output format.
type Format string

// Output formats.
const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDiff     Format = "diff"
)

//nolint:gochecknoglobals // read-only
var formats = []Format{FormatText, FormatJSON, FormatMarkdown, FormatHTML, FormatDiff}

// Formats returns the supported formats in display order.
func Formats() []Format {
	return slices.Clone(formats)
}

// ParseFormat resolves a format name, case-insensitively. The empty name
// means text and "md" is accepted for markdown.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	default:
		if f.IsValid() {
			return f, nil
		}
		return "", fmt.Errorf("unknown format %q (want one of %s)", name, joinFormats(formats))
	}
}

func (f Format) String() string { return string(f) }

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	return slices.Contains(formats, f)
}

func joinFormats(fs []Format) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
