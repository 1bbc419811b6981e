package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

func TestExtractFunctionRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "parameters from earlier locals",
			input: "void f()\n{\n\tint a = 1;\n\t@int b = a + 1;\n\tg(b);@\n\th(a);\n}\n",
			want: "void extracted(int a)\n{\nint b = a + 1;\n\tg(b);\n}\n\n" +
				"void f()\n{\n\tint a = 1;\n\textracted(a);\n\th(a);\n}\n",
		},
		{
			name:  "returns the local used afterwards",
			input: "int f(int n)\n{\n\t@int sum = n * 2;@\n\treturn sum;\n}\n",
			want: "int extracted(int n)\n{\nint sum = n * 2;\n\nreturn sum;\n}\n\n" +
				"int f(int n)\n{\n\tint sum = extracted(n);\n\treturn sum;\n}\n",
		},
		{
			name:  "inserted above leading comments",
			input: "// f logs twice.\nvoid f()\n{\n\t@log();\n\tlog();@\n}\n",
			want: "void extracted()\n{\nlog();\n\tlog();\n}\n\n" +
				"// f logs twice.\nvoid f()\n{\n\textracted();\n}\n",
		},
		{
			name:  "selection starting inside a statement list",
			input: "void f(int n)\n{\n\tif (n) {\n\t\t@g(n);@\n\t}\n}\n",
			want: "void extracted(int n)\n{\ng(n);\n}\n\n" +
				"void f(int n)\n{\n\tif (n) {\n\t\textracted(n);\n\t}\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewExtractFunctionRule(), "test.cpp", tt.input)
			assert.Equal(t, []string{"Extract Function"}, m.descriptions())
			assert.Equal(t, tt.want, m.single(t))
		})
	}
}

func TestExtractFunctionRule_HeaderFunctionIsInline(t *testing.T) {
	t.Parallel()

	m := matchAt(t, NewExtractFunctionRule(), "util.h", "void f()\n{\n\t@g();@\n}\n")
	out := m.single(t)
	assert.True(t, strings.HasPrefix(out, "inline void extracted()\n{\ng();\n}\n\n"), out)
}

func TestExtractFunctionRule_OutOfLineMember(t *testing.T) {
	t.Parallel()

	header := testFile{
		path:    "shape.h",
		content: "class Shape {\npublic:\n\tint area() const;\nprivate:\n\tint w;\n};\n",
	}
	m := matchAt(t, NewExtractFunctionRule(), "shape.cpp",
		"int Shape::area() const\n{\n\t@int r = w * 2;@\n\treturn r;\n}\n", header)
	require.Len(t, m.ops, 1)

	out := m.perform(t, m.ops[0])
	assert.Equal(t,
		"int Shape::extracted() const\n{\nint r = w * 2;\n\nreturn r;\n}\n\n"+
			"int Shape::area() const\n{\n\tint r = extracted();\n\treturn r;\n}\n",
		out["shape.cpp"])
	assert.Equal(t,
		"class Shape {\npublic:\n\tint area() const;\nprivate:\n\tint w;\npublic:\n\tint extracted() const;\n};\n",
		out["shape.h"])
}

func TestExtractFunctionRule_InClassDefinition(t *testing.T) {
	t.Parallel()

	m := matchAt(t, NewExtractFunctionRule(), "test.cpp",
		"struct Counter {\n\tvoid bump()\n\t{\n\t\t@tick();@\n\t}\n};\n")
	out := m.single(t)
	assert.Contains(t, out, "\tvoid extracted()\n{\ntick();\n}\n\nvoid bump()")
	assert.NotContains(t, out, "Counter::")
}

func TestExtractFunctionRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "selection contains a return",
			input: "int f(int n)\n{\n\t@int sum = n * 2;\n\treturn sum;@\n}\n",
		},
		{
			name:  "two locals used afterwards",
			input: "int f()\n{\n\t@int a = 1;\n\tint b = 2;@\n\treturn a + b;\n}\n",
		},
		{
			name:  "no selection",
			input: "void f()\n{\n\t@g();\n}\n",
		},
		{
			name:  "template function",
			input: "template <typename T>\nvoid f(T t)\n{\n\t@g(t);@\n}\n",
		},
		{
			name:  "selection between statements",
			input: "void f()\n{\n\tg();@ @\n\th();\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewExtractFunctionRule(), "test.cpp", tt.input)
			assert.Empty(t, m.ops)
		})
	}
}

func TestAccessAtEnd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"class default", "class A { int x; };\n", "private"},
		{"struct default", "struct A { int x; };\n", "public"},
		{"last label wins", "class A {\npublic:\n\tint x;\nprotected:\n\tint y;\n};\n", "protected"},
		{"nested class labels ignored", "struct A {\n\tclass B {\n\tprivate:\n\t\tint y;\n\t};\n};\n", "public"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewExtractFunctionRule(), "test.cpp", "@"+tt.input)
			cls := m.doc.Tree.Children(m.doc.Tree.Root())[0]
			var found bool
			m.doc.Tree.Walk(cls, func(id cppast.NodeID) bool {
				ca := cppast.As[*cppast.ClassAttrs](m.doc.Tree, id)
				if ca == nil {
					return true
				}
				assert.Equal(t, tt.want, accessAtEnd(m.doc, ca))
				found = true
				return false
			})
			assert.True(t, found)
		})
	}
}
