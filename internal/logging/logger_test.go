package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]log.Level{
		"debug":   log.DebugLevel,
		"DEBUG":   log.DebugLevel,
		"Info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		" error ": log.ErrorLevel,
		"fatal":   log.InfoLevel,
		"verbose": log.InfoLevel,
		"":        log.InfoLevel,
	}
	for input, want := range cases {
		assert.Equal(t, want, logging.ParseLevel(input), "level %q", input)
	}
}

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")
	logger.Debug("hidden")
	logger.Info("operation applied", logging.FieldRule, "QF002", logging.FieldAdditions, 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	for _, want := range []string{"quickfix", "operation applied", "rule=QF002", "additions=3"} {
		assert.Contains(t, out, want)
	}
}

func TestForSession(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.ForSession(logging.NewWithWriter(&buf, "warn"), "3f2a")
	logger.Warn("file restored")

	assert.Contains(t, buf.String(), "session=3f2a")
}

func TestDefaultAndSetLevel(t *testing.T) {
	// Mutates the process-wide logger.
	original := logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	require.NotNil(t, original)

	replacement := logging.New("error")
	logging.SetDefault(replacement)
	assert.Same(t, replacement, logging.Default())

	logging.SetLevel("debug")
	assert.Equal(t, log.DebugLevel, replacement.GetLevel())

	logging.SetDefault(nil)
	assert.NotNil(t, logging.Default())
}

func TestContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // a nil context is accepted
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}

func TestWithLoggerAndFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "info")

	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	tagged := logging.WithFields(ctx, logging.FieldRule, "QF005")
	logging.FromContext(tagged).Info("matched")
	logging.FromContext(ctx).Info("untagged")

	out := buf.String()
	assert.Contains(t, out, "rule=QF005")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("rule=")))
}
