package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const countDecl = "int count();\nvoid use(int);\n"

func TestOptimizeForLoopRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "prefix increment and hoisted bound",
			input: "void f() {\n  @for (int i = 0; i < count(); i++) use(i);\n}\n",
			want:  "void f() {\n  for (int i = 0, total = count(); i < total; ++i) use(i);\n}\n",
		},
		{
			name:  "empty initializer",
			input: "void f() {\n  int i = 0;\n  @for (; i < count(); ++i) use(i);\n}\n",
			want:  "void f() {\n  int i = 0;\n  for (int total = count(); i < total; ++i) use(i);\n}\n",
		},
		{
			name:  "name clash",
			input: "void f() {\n  @for (int i = 0, total = 0; i < count(); ++i) total += i;\n}\n",
			want:  "void f() {\n  for (int i = 0, total = 0, totalX = count(); i < totalX; ++i) total += i;\n}\n",
		},
		{
			name:  "bound on the left",
			input: "void f() {\n  @for (int i = 0; count() > i; i--) use(i);\n}\n",
			want:  "void f() {\n  for (int i = 0, total = count(); total > i; --i) use(i);\n}\n",
		},
		{
			name:  "literal bound keeps the condition",
			input: "void f() {\n  @for (int i = 0; i < 10; i++) use(i);\n}\n",
			want:  "void f() {\n  for (int i = 0; i < 10; ++i) use(i);\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewOptimizeForLoopRule(), "test.cpp", countDecl+tt.input)
			assert.Equal(t, []string{"Optimize for-Loop"}, m.descriptions())
			assert.Equal(t, countDecl+tt.want, m.single(t))
		})
	}
}

func TestOptimizeForLoopRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"already optimal", "void f() {\n  @for (int i = 0; i < 10; ++i) use(i);\n}\n"},
		{"type mismatch", "void f() {\n  int n = 0;\n  @for (long i = 0; n < count(); ++i) use(n);\n}\n"},
		{"cursor in body", "void f() {\n  for (int i = 0; i < count(); i++) @use(i);\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewOptimizeForLoopRule(), "test.cpp", countDecl+tt.input)
			assert.Empty(t, m.ops)
		})
	}
}
