package quickfix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/quickfix/pkg/config"
)

var (
	// ErrNilContext is returned when Match is called without a context or
	// without a parsed document.
	ErrNilContext = errors.New("quickfix: nil match context")

	// ErrNoOperation is returned when a requested operation does not exist.
	ErrNoOperation = errors.New("quickfix: no such operation")
)

// MatchResult contains the operations offered at one cursor position.
type MatchResult struct {
	// Operations are sorted by priority, highest first. Ties keep rule
	// registration order.
	Operations []Operation

	// RuleErrors contains errors from rules that failed. A failing rule
	// never prevents other rules from offering operations.
	RuleErrors map[string]error
}

// HasOperations returns true if any rule offered an operation.
func (mr *MatchResult) HasOperations() bool {
	return len(mr.Operations) > 0
}

// Pick returns the operation at index i of the sorted list.
func (mr *MatchResult) Pick(i int) (Operation, error) {
	if i < 0 || i >= len(mr.Operations) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoOperation, i, len(mr.Operations))
	}
	return mr.Operations[i], nil
}

// ByRule returns the first operation offered by the rule with the given ID.
func (mr *MatchResult) ByRule(ruleID string) (Operation, error) {
	for _, op := range mr.Operations {
		if op.RuleID() == ruleID {
			return op, nil
		}
	}
	return nil, fmt.Errorf("%w: rule %s offered nothing", ErrNoOperation, ruleID)
}

// Dispatcher runs the enabled rules of a registry against a MatchContext.
type Dispatcher struct {
	// Registry holds all available rules.
	Registry *Registry

	// Config selects the enabled rules and their options (may be nil).
	Config *config.Config

	// Logger receives rule failures and match summaries.
	Logger *log.Logger
}

// NewDispatcher creates a Dispatcher for the given registry and config.
func NewDispatcher(registry *Registry, cfg *config.Config) *Dispatcher {
	return &Dispatcher{
		Registry: registry,
		Config:   cfg,
		Logger:   log.Default(),
	}
}

// Match runs every enabled rule in registration order and returns their
// operations, stable-sorted by priority descending.
func (d *Dispatcher) Match(mctx *MatchContext) (*MatchResult, error) {
	if mctx == nil || mctx.Doc == nil || mctx.Doc.Tree == nil {
		return nil, ErrNilContext
	}

	logger := d.logger()
	resolved := ResolveRules(d.Registry, d.Config)

	result := &MatchResult{
		RuleErrors: make(map[string]error),
	}

	for _, rr := range resolved {
		if mctx.Cancelled() {
			return result, fmt.Errorf("matching cancelled: %w", mctx.Ctx.Err())
		}

		ruleCtx := mctx.forRule(rr)
		ruleCtx.Config = d.Config
		ruleCtx.Logger = logger.With("rule", rr.Rule.ID())

		ops, err := runRule(rr.Rule, ruleCtx)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			logger.Warn("rule failed", "rule", rr.Rule.ID(), "error", err)
			continue
		}

		result.Operations = append(result.Operations, ops...)
	}

	slices.SortStableFunc(result.Operations, func(a, b Operation) int {
		return b.Priority() - a.Priority()
	})

	logger.Debug("match complete",
		"path", mctx.Doc.Path,
		"offset", mctx.SelectionStart,
		"rules", len(resolved),
		"operations", len(result.Operations),
		"errors", len(result.RuleErrors),
	)

	return result, nil
}

// runRule calls rule.Match, turning a panic into an error.
func runRule(rule Rule, mctx *MatchContext) (ops []Operation, err error) {
	defer func() {
		if r := recover(); r != nil {
			ops = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.ID(), r)
		}
	}()
	return rule.Match(mctx)
}

func (d *Dispatcher) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}
