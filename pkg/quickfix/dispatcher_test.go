package quickfix_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fix"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// stubRule offers a fixed set of operations, or fails.
type stubRule struct {
	quickfix.BaseRule
	enabled    bool
	priorities []int
	err        error
	panicWith  any
	seen       *quickfix.MatchContext
}

func newStubRule(id, name string, priorities ...int) *stubRule {
	return &stubRule{
		BaseRule:   quickfix.NewBaseRule(id, name, "stub", nil),
		enabled:    true,
		priorities: priorities,
	}
}

func (r *stubRule) DefaultEnabled() bool { return r.enabled }

func (r *stubRule) Match(mctx *quickfix.MatchContext) ([]quickfix.Operation, error) {
	r.seen = mctx
	if r.panicWith != nil {
		panic(r.panicWith)
	}
	if r.err != nil {
		return nil, r.err
	}
	ops := make([]quickfix.Operation, 0, len(r.priorities))
	for _, p := range r.priorities {
		ops = append(ops, &stubOperation{BaseOperation: quickfix.NewBaseOperation(r, p, r.Name())})
	}
	return ops, nil
}

type stubOperation struct {
	quickfix.BaseOperation
}

func (o *stubOperation) Perform(context.Context) ([]*fix.ChangeSet, error) {
	return nil, nil
}

func parseDoc(t *testing.T, src string) *cppast.Document {
	t.Helper()
	doc, err := cppast.Parse(context.Background(), "test.cpp", []byte(src))
	require.NoError(t, err)
	return doc
}

func newMatchContext(t *testing.T) *quickfix.MatchContext {
	t.Helper()
	doc := parseDoc(t, "int main() { return 0; }\n")
	return quickfix.NewMatchContext(context.Background(), doc, 13, 13, semantic.NewIndex(doc))
}

func TestDispatcher_OrdersByPriority(t *testing.T) {
	t.Parallel()

	reg := quickfix.NewRegistry()
	reg.Register(newStubRule("QF001", "first", 1, 3))
	reg.Register(newStubRule("QF002", "second", 3, 2))
	reg.Register(newStubRule("QF003", "third", 1))

	result, err := quickfix.NewDispatcher(reg, nil).Match(newMatchContext(t))
	require.NoError(t, err)
	require.Len(t, result.Operations, 5)

	type entry struct {
		rule     string
		priority int
	}
	var got []entry
	for _, op := range result.Operations {
		got = append(got, entry{op.RuleID(), op.Priority()})
	}
	// Ties keep registration order.
	assert.Equal(t, []entry{
		{"QF001", 3},
		{"QF002", 3},
		{"QF002", 2},
		{"QF001", 1},
		{"QF003", 1},
	}, got)
}

func TestDispatcher_IsolatesFailingRules(t *testing.T) {
	t.Parallel()

	failing := newStubRule("QF001", "failing")
	failing.err = errors.New("boom")
	panicking := newStubRule("QF002", "panicking")
	panicking.panicWith = "index out of range"

	reg := quickfix.NewRegistry()
	reg.Register(failing)
	reg.Register(panicking)
	reg.Register(newStubRule("QF003", "working", 4))

	result, err := quickfix.NewDispatcher(reg, nil).Match(newMatchContext(t))
	require.NoError(t, err)

	require.Len(t, result.Operations, 1)
	assert.Equal(t, "QF003", result.Operations[0].RuleID())

	require.Len(t, result.RuleErrors, 2)
	require.ErrorContains(t, result.RuleErrors["QF001"], "boom")
	require.ErrorContains(t, result.RuleErrors["QF002"], "panicked")
}

func TestDispatcher_NilContext(t *testing.T) {
	t.Parallel()

	d := quickfix.NewDispatcher(quickfix.NewRegistry(), nil)

	_, err := d.Match(nil)
	require.ErrorIs(t, err, quickfix.ErrNilContext)

	_, err = d.Match(&quickfix.MatchContext{Ctx: context.Background()})
	require.ErrorIs(t, err, quickfix.ErrNilContext)
}

func TestDispatcher_SkipsDisabledRules(t *testing.T) {
	t.Parallel()

	reg := quickfix.NewRegistry()
	reg.Register(newStubRule("QF001", "one", 1))
	reg.Register(newStubRule("QF002", "two", 1))

	cfg := config.NewConfig()
	cfg.DisableRules = []string{"QF001"}

	result, err := quickfix.NewDispatcher(reg, cfg).Match(newMatchContext(t))
	require.NoError(t, err)
	require.Len(t, result.Operations, 1)
	assert.Equal(t, "QF002", result.Operations[0].RuleID())
}

func TestDispatcher_Cancelled(t *testing.T) {
	t.Parallel()

	reg := quickfix.NewRegistry()
	reg.Register(newStubRule("QF001", "one", 1))

	mctx := newMatchContext(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mctx.Ctx = ctx

	_, err := quickfix.NewDispatcher(reg, nil).Match(mctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDispatcher_PassesRuleOptions(t *testing.T) {
	t.Parallel()

	rule := newStubRule("QF001", "one")
	rule.BaseRule = rule.BaseRule.WithOptions(map[string]any{"name": "extracted", "limit": 3})

	reg := quickfix.NewRegistry()
	reg.Register(rule)

	cfg := config.NewConfig()
	cfg.Rules["QF001"] = config.RuleConfig{Options: map[string]any{"name": "helper"}}

	_, err := quickfix.NewDispatcher(reg, cfg).Match(newMatchContext(t))
	require.NoError(t, err)
	require.NotNil(t, rule.seen)

	assert.Equal(t, "helper", rule.seen.OptionString("name", "fallback"))
	assert.Equal(t, 3, rule.seen.OptionInt("limit", 0))
	assert.True(t, rule.seen.OptionBool("missing", true))
	assert.Same(t, cfg, rule.seen.Config)
}

func TestMatchResult_Pick(t *testing.T) {
	t.Parallel()

	reg := quickfix.NewRegistry()
	reg.Register(newStubRule("QF001", "one", 2))
	reg.Register(newStubRule("QF002", "two", 5))

	result, err := quickfix.NewDispatcher(reg, nil).Match(newMatchContext(t))
	require.NoError(t, err)
	assert.True(t, result.HasOperations())

	op, err := result.Pick(0)
	require.NoError(t, err)
	assert.Equal(t, "QF002", op.RuleID())

	_, err = result.Pick(2)
	require.ErrorIs(t, err, quickfix.ErrNoOperation)

	op, err = result.ByRule("QF001")
	require.NoError(t, err)
	assert.Equal(t, 2, op.Priority())

	_, err = result.ByRule("QF404")
	require.ErrorIs(t, err, quickfix.ErrNoOperation)
}
