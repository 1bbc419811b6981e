package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIfRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "and without else",
			input: "void f() {\n  if (a @&& b) g();\n}\n",
			want:  "void f() {\n  if (a) {\nif (b) g();\n}\n}\n",
		},
		{
			name:  "or with else",
			input: "void f() {\n  if (a @|| b) g(); else h();\n}\n",
			want:  "void f() {\n  if (a) g();\nelse if (b) g(); else h();\n}\n",
		},
		{
			name:  "or with compound then",
			input: "void f() {\n  if (a @|| b) { g(); }\n}\n",
			want:  "void f() {\n  if (a) { g(); } else if (b) { g(); }\n}\n",
		},
		{
			name:  "and chain split at the first operator",
			input: "void f() {\n  if (a @&& b && c) g();\n}\n",
			want:  "void f() {\n  if (a) {\nif (b && c) g();\n}\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewSplitIfRule(), "test.cpp", tt.input)
			assert.Equal(t, tt.want, m.single(t))
		})
	}
}

func TestSplitIfRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"and with else", "void f() {\n  if (a @&& b) g(); else h();\n}\n"},
		{"mixed operators", "void f() {\n  if ((a || b) @&& c) g(); else h();\n}\n"},
		{"cursor on operand", "void f() {\n  if (@a && b) g();\n}\n"},
		{"comparison", "void f() {\n  if (a @== b) g();\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewSplitIfRule(), "test.cpp", tt.input)
			assert.Empty(t, m.ops)
		})
	}
}
