package cppast

import "fmt"

// SyntaxError reports a lexical or grammatical error at a byte offset.
type SyntaxError struct {
	Path    string
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	default:
		return fmt.Sprintf("offset %d: %s", e.Offset, e.Message)
	}
}
