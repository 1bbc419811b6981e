package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRearrangeParametersRule(t *testing.T) {
	t.Parallel()

	m := matchAt(t, NewRearrangeParametersRule(), "test.cpp", "void f(int a, @double b, char c);\n")
	require.Equal(t, []string{"Switch with Previous Parameter", "Switch with Next Parameter"}, m.descriptions())

	assert.Equal(t, "void f(double b, int a, char c);\n", m.perform(t, m.ops[0])["test.cpp"])
	assert.Equal(t, "void f(int a, char c, double b);\n", m.perform(t, m.ops[1])["test.cpp"])
}

func TestRearrangeParametersRule_Ends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		desc  string
		want  string
	}{
		{
			name:  "first parameter",
			input: "void f(@int a, const char *s)\n{\n}\n",
			desc:  "Switch with Next Parameter",
			want:  "void f(const char *s, int a)\n{\n}\n",
		},
		{
			name:  "last parameter",
			input: "void f(int a, const char *@s)\n{\n}\n",
			desc:  "Switch with Previous Parameter",
			want:  "void f(const char *s, int a)\n{\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewRearrangeParametersRule(), "test.cpp", tt.input)
			require.Equal(t, []string{tt.desc}, m.descriptions())
			assert.Equal(t, tt.want, m.single(t))
		})
	}
}

func TestRearrangeParametersRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"single parameter", "void f(@int a);\n"},
		{"function name", "void @f(int a, int b);\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewRearrangeParametersRule(), "test.cpp", tt.input)
			assert.Empty(t, m.ops)
		})
	}
}
