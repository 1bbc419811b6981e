package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/quickfix/pkg/fix"
)

// FormatDiff renders a diff in git style with colored lines. displayPath
// replaces the diff's own path in the headers.
func (s *Styles) FormatDiff(diff *fix.Diff, displayPath string) string {
	if !diff.HasChanges() {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)) + "\n")
	builder.WriteString(s.DiffRemove.Render("--- a/"+displayPath) + "\n")
	builder.WriteString(s.DiffAdd.Render("+++ b/"+displayPath) + "\n")

	for _, hunk := range diff.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)
		builder.WriteString(s.DiffHunk.Render(header) + "\n")
		for _, line := range hunk.Lines {
			builder.WriteString(s.formatDiffLine(line) + "\n")
		}
	}
	return builder.String()
}

func (s *Styles) formatDiffLine(line fix.DiffLine) string {
	switch line.Kind {
	case fix.DiffLineAdd:
		return s.DiffAdd.Render("+" + line.Content)
	case fix.DiffLineRemove:
		return s.DiffRemove.Render("-" + line.Content)
	default:
		return s.DiffContext.Render(" " + line.Content)
	}
}
