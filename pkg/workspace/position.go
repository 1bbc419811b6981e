package workspace

import (
	"errors"
	"fmt"

	"github.com/yaklabco/quickfix/pkg/cppast"
)

// ErrBadPosition is returned for a position outside the buffer.
var ErrBadPosition = errors.New("position out of range")

// Position addresses a byte in a buffer, either by offset or by 1-based
// line and column. A positive Line selects line and column.
type Position struct {
	Offset int
	Line   int
	Column int
}

// AtOffset returns a Position for a byte offset.
func AtOffset(offset int) Position {
	return Position{Offset: offset}
}

// AtLineColumn returns a Position for 1-based line and column numbers.
func AtLineColumn(line, column int) Position {
	return Position{Line: line, Column: column}
}

// Resolve converts p to a byte offset in doc. The offset may equal the
// buffer length.
func (p Position) Resolve(doc *cppast.Document) (int, error) {
	if p.Line > 0 {
		offset, ok := doc.Offset(p.Line, p.Column)
		if !ok {
			return 0, fmt.Errorf("%w: %s:%d:%d", ErrBadPosition, doc.Path, p.Line, p.Column)
		}
		return offset, nil
	}
	if p.Offset < 0 || p.Offset > len(doc.Content) {
		return 0, fmt.Errorf("%w: %s offset %d of %d", ErrBadPosition, doc.Path, p.Offset, len(doc.Content))
	}
	return p.Offset, nil
}

// String renders the position for messages.
func (p Position) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("@%d", p.Offset)
}

// Selection is a cursor (End nil) or a range in the main file.
type Selection struct {
	Start Position
	End   *Position
}

// Cursor returns a Selection without a range.
func Cursor(p Position) Selection {
	return Selection{Start: p}
}

// Range returns a Selection from start to end.
func Range(start, end Position) Selection {
	return Selection{Start: start, End: &end}
}

// Resolve converts s to start and end offsets in doc, start <= end.
func (s Selection) Resolve(doc *cppast.Document) (int, int, error) {
	start, err := s.Start.Resolve(doc)
	if err != nil {
		return 0, 0, err
	}
	if s.End == nil {
		return start, start, nil
	}
	end, err := s.End.Resolve(doc)
	if err != nil {
		return 0, 0, err
	}
	return min(start, end), max(start, end), nil
}
