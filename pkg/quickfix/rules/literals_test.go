package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/quickfix"
)

func TestParseIntegerLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spelling string
		value    uint64
		radix    Radix
		digits   string
		ok       bool
	}{
		{"255", 255, RadixDecimal, "255", true},
		{"0xff", 255, RadixHex, "0xff", true},
		{"0XFFu", 255, RadixHex, "0XFF", true},
		{"0377", 255, RadixOctal, "0377", true},
		{"0b11111111", 255, RadixBinary, "0b11111111", true},
		{"0", 0, RadixDecimal, "0", true},
		{"10ul", 10, RadixDecimal, "10", true},
		{"42LL", 42, RadixDecimal, "42", true},
		{"09", 0, RadixOctal, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spelling, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseIntegerLiteral(tt.spelling)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.radix, got.Radix)
			assert.Equal(t, tt.digits, got.Digits)
		})
	}
}

func TestRadixFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0xFF", RadixHex.Format(255))
	assert.Equal(t, "0377", RadixOctal.Format(255))
	assert.Equal(t, "0b11111111", RadixBinary.Format(255))
	assert.Equal(t, "255", RadixDecimal.Format(255))
	assert.Equal(t, "00", RadixOctal.Format(0))
}

func TestConvertNumericLiteralRule(t *testing.T) {
	t.Parallel()

	m := matchAt(t, NewConvertNumericLiteralRule(), "test.cpp", "int x = @255;\n")
	require.Equal(t, []string{"Convert to Hexadecimal", "Convert to Octal", "Convert to Binary"}, m.descriptions())

	want := []string{"int x = 0xFF;\n", "int x = 0377;\n", "int x = 0b11111111;\n"}
	for i, op := range m.ops {
		assert.Equal(t, want[i], m.perform(t, op)["test.cpp"])
	}
}

func TestConvertNumericLiteralRule_KeepsSuffix(t *testing.T) {
	t.Parallel()

	m := matchAt(t, NewConvertNumericLiteralRule(), "test.cpp", "unsigned long x = @0x10ul;\n")
	require.Equal(t, []string{"Convert to Octal", "Convert to Decimal", "Convert to Binary"}, m.descriptions())
	assert.Equal(t, "unsigned long x = 16ul;\n", m.perform(t, m.ops[1])["test.cpp"])
}

func TestConvertNumericLiteralRule_RoundTrip(t *testing.T) {
	t.Parallel()

	const source = "int x = 1234;\n"
	byDesc := func(t *testing.T, m matched, desc string) quickfix.Operation {
		t.Helper()
		for _, op := range m.ops {
			if op.Description() == desc {
				return op
			}
		}
		require.Failf(t, "missing operation", "no %q among %v", desc, m.descriptions())
		return nil
	}

	for _, desc := range []string{"Convert to Hexadecimal", "Convert to Octal", "Convert to Binary"} {
		t.Run(desc, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewConvertNumericLiteralRule(), "test.cpp", withMarker(t, source, "1234"))
			converted := m.perform(t, byDesc(t, m, desc))["test.cpp"]
			assert.NotEqual(t, source, converted)

			back := matchAt(t, NewConvertNumericLiteralRule(), "test.cpp", withMarker(t, converted, "0"))
			assert.Equal(t, source, back.perform(t, byDesc(t, back, "Convert to Decimal"))["test.cpp"])
		})
	}
}

func TestConvertNumericLiteralRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"float", "double x = @2.5;\n"},
		{"string", "const char *s = @\"12\";\n"},
		{"identifier", "int y = 1;\nint x = @y;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewConvertNumericLiteralRule(), "test.cpp", tt.input)
			assert.Empty(t, m.ops)
		})
	}
}

func TestExtractLiteralRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "numeric literal replaced everywhere",
			input: "int scale(int x)\n{\n\treturn x * @10 + 10;\n}\n",
			want:  "int scale(int x, int newParameter = 10)\n{\n\treturn x * newParameter + newParameter;\n}\n",
		},
		{
			name:  "no parameters yet",
			input: "bool enabled()\n{\n\treturn @true;\n}\n",
			want:  "bool enabled(bool newParameter = true)\n{\n\treturn newParameter;\n}\n",
		},
		{
			name:  "string literal",
			input: "void greet()\n{\n\tputs(@\"hi\");\n}\n",
			want:  "void greet(const char *newParameter = \"hi\")\n{\n\tputs(newParameter);\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewExtractLiteralRule(), "test.cpp", tt.input)
			assert.Equal(t, tt.want, m.single(t))
		})
	}
}

func TestExtractLiteralRule_DefaultOnDeclaration(t *testing.T) {
	t.Parallel()

	header := testFile{path: "scale.h", content: "int scale(int x);\n"}
	m := matchAt(t, NewExtractLiteralRule(), "scale.cpp", "int scale(int x)\n{\n\treturn x * @10;\n}\n", header)
	require.Len(t, m.ops, 1)

	out := m.perform(t, m.ops[0])
	assert.Equal(t, "int scale(int x, int newParameter)\n{\n\treturn x * newParameter;\n}\n", out["scale.cpp"])
	assert.Equal(t, "int scale(int x, int newParameter = 10);\n", out["scale.h"])
}

func TestExtractLiteralRule_NoMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"outside a function", "int x = @10;\n"},
		{"nullptr", "void f()\n{\n\tg(@nullptr);\n}\n"},
		{"inside a lambda", "void f()\n{\n\tauto l = [] { return @1; };\n}\n"},
		{"variadic", "void f(int n, ...)\n{\n\tg(@1);\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := matchAt(t, NewExtractLiteralRule(), "test.cpp", tt.input)
			assert.Empty(t, m.ops)
		})
	}
}
