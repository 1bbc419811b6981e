package cppast

import "fmt"

// TokenKind classifies a lexical token.
type TokenKind uint8

// Token kinds.
const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenKeyword
	TokenNumber
	TokenString
	TokenChar
	TokenPunct
)

var tokenKindNames = [...]string{"EOF", "identifier", "keyword", "number", "string", "char", "punctuator"}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

// Token is a lexical token with its byte range in the buffer.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int

	// IsHex is set for numeric literals written with a 0x or 0X prefix.
	IsHex bool

	// IsFloat is set for floating point numeric literals.
	IsFloat bool
}

// Is reports whether the token is a punctuator or keyword spelled text.
func (t Token) Is(text string) bool {
	return (t.Kind == TokenPunct || t.Kind == TokenKeyword) && t.Text == text
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q @%d", t.Kind, t.Text, t.Start)
}

// Trivia is a comment or preprocessor directive. Trivia never appears in
// the token stream the parser sees.
type Trivia struct {
	Start int
	End   int

	// Directive is set for preprocessor lines; otherwise the trivia is a comment.
	Directive bool
}

var keywords = map[string]bool{
	"alignas": true, "alignof": true, "auto": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "char16_t": true, "char32_t": true,
	"char8_t": true, "class": true, "const": true, "const_cast": true, "constexpr": true,
	"continue": true, "decltype": true, "default": true, "delete": true, "do": true,
	"double": true, "dynamic_cast": true, "else": true, "enum": true, "explicit": true,
	"extern": true, "false": true, "final": true, "float": true, "for": true,
	"friend": true, "goto": true, "if": true, "inline": true, "int": true,
	"long": true, "mutable": true, "namespace": true, "new": true, "noexcept": true,
	"nullptr": true, "operator": true, "override": true, "private": true, "protected": true,
	"public": true, "register": true, "reinterpret_cast": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true, "static_cast": true,
	"struct": true, "switch": true, "template": true, "this": true, "thread_local": true,
	"throw": true, "true": true, "try": true, "typedef": true, "typename": true,
	"union": true, "unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "while": true,
}

// IsKeyword reports whether word is a reserved C++ keyword.
func IsKeyword(word string) bool {
	return keywords[word]
}

// punctuators ordered longest first so the lexer can match greedily.
var punctuators = []string{
	"<<=", ">>=", "...", "->*", "<=>",
	"::", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ".*", "##",
	"{", "}", "[", "]", "(", ")", ";", ":", ",", ".", "?", "+", "-", "*", "/",
	"%", "^", "&", "|", "~", "!", "=", "<", ">", "#",
}
