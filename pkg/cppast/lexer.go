package cppast

import (
	"fmt"
	"strings"
)

type lexer struct {
	src    []byte
	pos    int
	tokens []Token
	trivia []Trivia

	// lineStart is true while only whitespace has been seen on the line.
	lineStart bool
}

// Lex splits src into tokens and trivia. The token slice always ends with
// a TokenEOF token positioned at len(src).
func Lex(src []byte) ([]Token, []Trivia, error) {
	lx := &lexer{src: src, lineStart: true}
	if err := lx.run(); err != nil {
		return nil, nil, err
	}
	lx.tokens = append(lx.tokens, Token{Kind: TokenEOF, Start: len(src), End: len(src)})
	return lx.tokens, lx.trivia, nil
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) run() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\n':
			lx.pos++
			lx.lineStart = true
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
		case c == '\\' && (lx.peek(1) == '\n' || (lx.peek(1) == '\r' && lx.peek(2) == '\n')):
			lx.pos += 2
			if lx.src[lx.pos-1] == '\r' {
				lx.pos++
			}
		case c == '/' && lx.peek(1) == '/':
			lx.lineComment()
		case c == '/' && lx.peek(1) == '*':
			if err := lx.blockComment(); err != nil {
				return err
			}
		case c == '#' && lx.lineStart:
			lx.directive()
		case isIdentStart(c):
			if err := lx.identOrPrefixedLiteral(); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.number()
		case c == '"':
			if err := lx.quoted(lx.pos, TokenString, '"'); err != nil {
				return err
			}
		case c == '\'':
			if err := lx.quoted(lx.pos, TokenChar, '\''); err != nil {
				return err
			}
		default:
			if err := lx.punct(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (lx *lexer) emit(kind TokenKind, start int) *Token {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: string(lx.src[start:lx.pos]), Start: start, End: lx.pos})
	lx.lineStart = false
	return &lx.tokens[len(lx.tokens)-1]
}

func (lx *lexer) lineComment() {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
	lx.trivia = append(lx.trivia, Trivia{Start: start, End: lx.pos})
}

func (lx *lexer) blockComment() error {
	start := lx.pos
	lx.pos += 2
	for lx.pos+1 < len(lx.src) {
		if lx.src[lx.pos] == '*' && lx.src[lx.pos+1] == '/' {
			lx.pos += 2
			lx.trivia = append(lx.trivia, Trivia{Start: start, End: lx.pos})
			return nil
		}
		lx.pos++
	}
	return lx.errorf(start, "unterminated block comment")
}

// directive consumes a preprocessor line including backslash continuations.
func (lx *lexer) directive() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' && lx.peek(1) == '\n' {
			lx.pos += 2
			continue
		}
		if c == '\n' {
			break
		}
		lx.pos++
	}
	lx.trivia = append(lx.trivia, Trivia{Start: start, End: lx.pos, Directive: true})
}

func (lx *lexer) identOrPrefixedLiteral() error {
	start := lx.pos
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	word := string(lx.src[start:lx.pos])

	// Encoding prefixes: L"..", u8"..", R"(..)" and friends.
	if next := lx.peek(0); next == '"' || next == '\'' {
		switch word {
		case "L", "u", "U", "u8":
			kind := TokenString
			if next == '\'' {
				kind = TokenChar
			}
			return lx.quoted(start, kind, next)
		case "R", "LR", "uR", "UR", "u8R":
			if next == '"' {
				return lx.rawString(start)
			}
		}
	}

	kind := TokenIdent
	if keywords[word] {
		kind = TokenKeyword
	}
	lx.emit(kind, start)
	return nil
}

func (lx *lexer) quoted(start int, kind TokenKind, quote byte) error {
	lx.pos++ // opening quote
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\\':
			lx.pos += 2
			continue
		case '\n':
			return lx.errorf(start, "unterminated %s literal", kind)
		case quote:
			lx.pos++
			lx.literalSuffix()
			lx.emit(kind, start)
			return nil
		}
		lx.pos++
	}
	return lx.errorf(start, "unterminated %s literal", kind)
}

func (lx *lexer) rawString(start int) error {
	lx.pos++ // opening quote
	delimStart := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '(' {
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		return lx.errorf(start, "malformed raw string literal")
	}
	closing := ")" + string(lx.src[delimStart:lx.pos]) + `"`
	for lx.pos < len(lx.src) {
		if string(lx.src[lx.pos:min(len(lx.src), lx.pos+len(closing))]) == closing {
			lx.pos += len(closing)
			lx.literalSuffix()
			lx.emit(TokenString, start)
			return nil
		}
		lx.pos++
	}
	return lx.errorf(start, "unterminated raw string literal")
}

// literalSuffix consumes a user-defined literal suffix.
func (lx *lexer) literalSuffix() {
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
}

// number consumes a pp-number: digits, letters, digit separators, dots and
// signed exponents.
func (lx *lexer) number() {
	start := lx.pos
	isHex := lx.peek(0) == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'X')
	isFloat := false
scan:
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '.':
			isFloat = true
		case (c == '+' || c == '-') && lx.pos > start:
			prev := lx.src[lx.pos-1]
			if !(prev == 'e' || prev == 'E' || prev == 'p' || prev == 'P') || (isHex && (prev == 'e' || prev == 'E')) {
				break scan
			}
			isFloat = true
		case c == '\'' && lx.pos > start && isAlnum(lx.peek(1)):
		case isIdentPart(c):
			if !isHex && (c == 'e' || c == 'E') {
				isFloat = true
			}
			if isHex && (c == 'p' || c == 'P') {
				isFloat = true
			}
		default:
			break scan
		}
		lx.pos++
	}
	text := string(lx.src[start:lx.pos])
	if !isFloat && !isHex && (strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F")) {
		isFloat = true
	}
	tok := lx.emit(TokenNumber, start)
	tok.IsHex = isHex
	tok.IsFloat = isFloat
}

func (lx *lexer) punct() error {
	for _, p := range punctuators {
		if lx.pos+len(p) <= len(lx.src) && string(lx.src[lx.pos:lx.pos+len(p)]) == p {
			start := lx.pos
			lx.pos += len(p)
			lx.emit(TokenPunct, start)
			return nil
		}
	}
	return lx.errorf(lx.pos, "unexpected character %q", lx.src[lx.pos])
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
