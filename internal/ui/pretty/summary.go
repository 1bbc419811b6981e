package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatChangeSummary formats the totals of an applied operation as one
// line, e.g. "2 files changed, 6 insertions(+), 1 deletion(-)".
func (s *Styles) FormatChangeSummary(totals analysis.ChangeTotals, dryRun bool) string {
	if totals.Files == 0 {
		return s.Dim.Render("No changes") + "\n"
	}

	parts := []string{fmt.Sprintf("%d %s changed", totals.Files, plural(totals.Files, wordFile, wordFiles))}
	if totals.Additions > 0 {
		parts = append(parts, s.DiffAdd.Render(fmt.Sprintf("%d %s(+)",
			totals.Additions, plural(totals.Additions, "insertion", "insertions"))))
	}
	if totals.Deletions > 0 {
		parts = append(parts, s.DiffRemove.Render(fmt.Sprintf("%d %s(-)",
			totals.Deletions, plural(totals.Deletions, "deletion", "deletions"))))
	}

	line := strings.Join(parts, ", ")
	switch {
	case dryRun:
		line += s.Dim.Render(" (dry run)")
	case totals.Written > 0:
		line += ", " + s.Success.Render(fmt.Sprintf("%d %s written", totals.Written, plural(totals.Written, wordFile, wordFiles)))
	}
	return line + "\n"
}

// FormatListingSummary formats a one-line account of a listing.
func (s *Styles) FormatListingSummary(listing *analysis.Listing) string {
	if !listing.HasOperations() {
		return s.Dim.Render("No operations available at this position") + "\n"
	}

	rules := make([]string, 0, len(listing.ByRule))
	for _, rc := range listing.ByRule {
		rules = append(rules, fmt.Sprintf("%s×%d", rc.RuleID, rc.Operations))
	}
	line := fmt.Sprintf("%d %s from %d %s",
		len(listing.Operations), plural(len(listing.Operations), "operation", "operations"),
		len(listing.ByRule), plural(len(listing.ByRule), "rule", "rules"))
	line = s.Bold.Render(line) + s.Dim.Render(" ("+strings.Join(rules, ", ")+")")

	if n := len(listing.RuleErrors); n > 0 {
		line += ", " + s.Warning.Render(fmt.Sprintf("%d %s failed", n, plural(n, "rule", "rules")))
	}
	return line + "\n"
}
