package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

func TestRegisterAll(t *testing.T) {
	t.Parallel()

	registry := quickfix.NewRegistry()
	RegisterAll(registry)

	want := []string{
		"QF001", "QF002", "QF003", "QF004", "QF005", "QF006",
		"QF007", "QF008", "QF009", "QF010", "QF011", "QF012",
		"QF013", "QF014", "QF015",
	}
	assert.Equal(t, want, registry.IDs())

	rule, ok := registry.Get("complete-switch")
	require.True(t, ok)
	assert.Equal(t, "QF005", rule.ID())

	id, _, ok := registry.Resolve("camel-case")
	require.True(t, ok)
	assert.Equal(t, "QF010", id)

	id, _, ok = registry.Resolve("comment-style")
	require.True(t, ok)
	assert.Equal(t, "QF013", id)
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	first, second := NewRegistry(), NewRegistry()
	assert.Equal(t, 15, first.Len())
	assert.NotSame(t, first, second)
	assert.Equal(t, first.IDs(), second.IDs())
}

func TestDispatchBuiltinRules(t *testing.T) {
	t.Parallel()

	const source = "int scale(int x)\n{\n\tif (x) return x * 255;\n\treturn 0;\n}\n"
	doc, err := cppast.Parse(context.Background(), "scale.cpp", []byte(source))
	require.NoError(t, err)

	registry := quickfix.NewRegistry()
	RegisterAll(registry)

	offset := len("int scale(int x)\n{\n\tif (x) return x * ")
	mctx := quickfix.NewMatchContext(context.Background(), doc, offset, offset, semantic.NewIndex(doc))
	result, err := quickfix.NewDispatcher(registry, config.NewConfig()).Match(mctx)
	require.NoError(t, err)
	require.Empty(t, result.RuleErrors)

	var ids []string
	for _, op := range result.Operations {
		ids = append(ids, op.RuleID())
	}
	assert.Equal(t, []string{"QF004", "QF004", "QF004", "QF007"}, ids)
	assert.Equal(t, "Convert to Hexadecimal", result.Operations[0].Description())
}

func TestDispatchBuiltinRules_DisabledByConfig(t *testing.T) {
	t.Parallel()

	doc, err := cppast.Parse(context.Background(), "x.cpp", []byte("int x = 255;\n"))
	require.NoError(t, err)

	registry := quickfix.NewRegistry()
	RegisterAll(registry)
	cfg := config.NewConfig()
	cfg.DisableRules = []string{"QF004"}

	offset := len("int x = ")
	mctx := quickfix.NewMatchContext(context.Background(), doc, offset, offset, semantic.NewIndex(doc))
	result, err := quickfix.NewDispatcher(registry, cfg).Match(mctx)
	require.NoError(t, err)
	assert.False(t, result.HasOperations())
}
