// Package quickfix provides the rule engine for C++ quick fixes: the Rule
// and Operation contracts, the rule registry, and the dispatcher that runs
// every enabled rule against one cursor position.
package quickfix

import (
	"context"

	"github.com/yaklabco/quickfix/pkg/fix"
)

// Rule defines the interface that all quick-fix rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule (e.g., "QF001").
	ID() string

	// Name returns the human-readable name of the rule.
	Name() string

	// Description returns a detailed description of what the rule offers.
	Description() string

	// DefaultEnabled returns whether the rule is enabled by default.
	DefaultEnabled() bool

	// Tags returns categorization tags for this rule.
	Tags() []string

	// DefaultOptions returns the rule's options and their default values.
	DefaultOptions() map[string]any

	// Match inspects the context and returns the operations the rule can
	// offer there.
	//
	// Rules must:
	//   - Return no operations, not an error, when the code at the cursor
	//     does not have the shape they handle.
	//   - Treat the context as read-only.
	//   - Return error only for internal failures.
	Match(mctx *MatchContext) ([]Operation, error)
}

// Operation is one matched refactoring opportunity. It captures what the
// rule found and produces the edits on demand.
type Operation interface {
	// Priority orders operations; higher comes first.
	Priority() int

	// Description is the user-visible label.
	Description() string

	// RuleID identifies the rule that produced the operation.
	RuleID() string

	// Perform builds the change sets, at most one per buffer. Positions in
	// each change set refer to the snapshot the operation was matched on.
	Perform(ctx context.Context) ([]*fix.ChangeSet, error)
}
