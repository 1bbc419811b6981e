package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/quickfix/pkg/analysis"
)

// contextIndent aligns source context under operation lines.
const contextIndent = "    "

// FormatLocationHeader formats "path:line:col" followed by the number of
// offered operations.
func (s *Styles) FormatLocationHeader(path string, line, column, count int) string {
	header := s.FilePath.Render(path) + s.Location.Render(fmt.Sprintf(":%d:%d", line, column))
	word := "operations"
	if count == 1 {
		word = "operation"
	}
	return header + s.Dim.Render(fmt.Sprintf(" (%d %s)", count, word))
}

// FormatOperation formats one offered operation:
//
//	[0] Convert to Hexadecimal  (QF004/convert-numeric-literal, priority 3)
func (s *Styles) FormatOperation(op analysis.OperationEntry) string {
	rule := op.Rule
	if rule == "" {
		rule = op.RuleID
	}
	line := fmt.Sprintf("  %s %s  %s\n",
		s.Index.Render("["+strconv.Itoa(op.Index)+"]"),
		s.Description.Render(op.Description),
		s.RuleID.Render("("+rule+", ")+s.Priority.Render("priority "+strconv.Itoa(op.Priority))+s.RuleID.Render(")"),
	)
	if op.Error != "" {
		line += contextIndent + s.Error.Render("preview failed: "+op.Error) + "\n"
	}
	return line
}

// FormatSourceContext formats the source line with a caret under column.
// Tabs before the column are kept so the caret lines up.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder
	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		var pad strings.Builder
		for i := 0; i < column-1 && i < len(line); i++ {
			if line[i] == '\t' {
				pad.WriteByte('\t')
			} else {
				pad.WriteByte(' ')
			}
		}
		builder.WriteString(contextIndent + pad.String() + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// FormatRuleError formats a rule that failed while matching.
func (s *Styles) FormatRuleError(e analysis.RuleErrorEntry) string {
	return "  " + s.Warning.Render("rule "+e.RuleID+" failed:") + " " + e.Error + "\n"
}
