package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const letterEnum = "enum Letter { A, B, C };\n"

func TestCompleteSwitchRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "adds missing enumerators in declaration order",
			input: letterEnum + "void f(Letter l) {\n  @switch (l) {\n  case A:\n    break;\n  }\n}\n",
			want:  letterEnum + "void f(Letter l) {\n  switch (l) {\n  case B:\n    break;\n  case C:\n    break;\n  case A:\n    break;\n  }\n}\n",
		},
		{
			name:  "empty switch",
			input: letterEnum + "void f(Letter l) {\n  @switch (l) {}\n}\n",
			want:  letterEnum + "void f(Letter l) {\n  switch (l) {\n  case A:\n    break;\n  case B:\n    break;\n  case C:\n    break;}\n}\n",
		},
		{
			name: "scoped enum labels are qualified",
			input: "enum class Mode { On, Off };\n" +
				"void f(Mode m) {\n  switch (m) {\n  @case Mode::On:\n    break;\n  }\n}\n",
			want: "enum class Mode { On, Off };\n" +
				"void f(Mode m) {\n  switch (m) {\n  case Mode::Off:\n    break;\n  case Mode::On:\n    break;\n  }\n}\n",
		},
		{
			name:  "tabs in a nested block",
			input: letterEnum + "void f(Letter l) {\n\t{\n\t\t@switch (l) {\n\t\tcase A:\n\t\tcase B:\n\t\t\tbreak;\n\t\t}\n\t}\n}\n",
			want: letterEnum + "void f(Letter l) {\n\t{\n\t\tswitch (l) {\n\t\tcase C:\n\t\t\tbreak;" +
				"\n\t\tcase A:\n\t\tcase B:\n\t\t\tbreak;\n\t\t}\n\t}\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewCompleteSwitchRule(), "test.cpp", tt.input)
			require.Equal(t, []string{"Complete Switch Statement"}, m.descriptions())
			assert.Equal(t, tt.want, m.single(t))
		})
	}
}

func TestCompleteSwitchRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "all enumerators handled",
			input: letterEnum + "void f(Letter l) {\n  @switch (l) {\n  case A: case B: case C:\n    break;\n  }\n}\n",
		},
		{
			name:  "integer condition",
			input: "void f(int n) {\n  @switch (n) {\n  case 1:\n    break;\n  }\n}\n",
		},
		{
			name:  "outside a switch",
			input: letterEnum + "void f(Letter l) {\n  @g(l);\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewCompleteSwitchRule(), "test.cpp", tt.input)
			assert.Empty(t, m.ops)
		})
	}
}

func TestCompleteSwitchRule_IgnoresNestedSwitch(t *testing.T) {
	t.Parallel()

	input := letterEnum + "void f(Letter l, Letter k) {\n  @switch (l) {\n  case A:\n" +
		"    switch (k) { case B: break; }\n    break;\n  }\n}\n"
	m := matchAt(t, NewCompleteSwitchRule(), "test.cpp", input)
	out := m.single(t)
	assert.Contains(t, out, "switch (l) {\n  case B:\n    break;\n  case C:\n    break;\n")
}
