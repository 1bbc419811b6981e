package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/quickfix/internal/ui/pretty"
	"github.com/yaklabco/quickfix/pkg/analysis"
)

func TestFormatChangeSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name   string
		totals analysis.ChangeTotals
		dryRun bool
		want   string
	}{
		{"nothing", analysis.ChangeTotals{}, false, "No changes\n"},
		{
			"dry run",
			analysis.ChangeTotals{Files: 1, Additions: 1, Deletions: 1},
			true,
			"1 file changed, 1 insertion(+), 1 deletion(-) (dry run)\n",
		},
		{
			"written",
			analysis.ChangeTotals{Files: 2, Written: 2, Additions: 6},
			false,
			"2 files changed, 6 insertions(+), 2 files written\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatChangeSummary(tt.totals, tt.dryRun))
		})
	}
}

func TestFormatListingSummary(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	empty := &analysis.Listing{}
	assert.Equal(t, "No operations available at this position\n", styles.FormatListingSummary(empty))

	listing := &analysis.Listing{
		Operations: make([]analysis.OperationEntry, 4),
		ByRule: []analysis.RuleCount{
			{RuleID: "QF004", Operations: 3},
			{RuleID: "QF007", Operations: 1},
		},
		RuleErrors: []analysis.RuleErrorEntry{{RuleID: "QF009", Error: "boom"}},
	}
	assert.Equal(t, "4 operations from 2 rules (QF004×3, QF007×1), 1 rule failed\n", styles.FormatListingSummary(listing))
}
