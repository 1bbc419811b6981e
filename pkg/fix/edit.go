// Package fix provides change sets: ordered text edits recorded against one
// buffer snapshot and applied to it in a single pass.
package fix

import "fmt"

// Range is a half-open byte range [Start, End) in a buffer snapshot.
type Range struct {
	Start int
	End   int
}

// Len returns the length of the range in bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if both ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d]", r.Start, r.End)
}

// EditKind classifies a primitive edit recorded in a ChangeSet.
type EditKind uint8

// Primitive edit kinds.
const (
	EditInsert EditKind = iota
	EditRemove
	EditReplace
	EditMove
	EditCopy
	EditFlip
)

var editKindNames = [...]string{"insert", "remove", "replace", "move", "copy", "flip"}

func (k EditKind) String() string {
	if int(k) < len(editKindNames) {
		return editKindNames[k]
	}
	return fmt.Sprintf("EditKind(%d)", k)
}

// Edit is a single primitive edit. All positions refer to the snapshot the
// ChangeSet was built against.
type Edit struct {
	// Kind selects which of the remaining fields are meaningful.
	Kind EditKind

	// Range is the removed/replaced range, the move/copy source, or the
	// first flip range.
	Range Range

	// Other is the second flip range.
	Other Range

	// Pos is the insert, move or copy destination.
	Pos int

	// Text is the inserted or replacement text.
	Text string
}

// TextEdit is a single replacement of bytes [StartOffset, EndOffset) with
// NewText. Every primitive edit is lowered to one or more TextEdits.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string

	// seq orders insertions at the same offset by recording order.
	seq int
}

// IsInsertion returns true if the edit replaces an empty range.
func (e TextEdit) IsInsertion() bool {
	return e.StartOffset == e.EndOffset
}

// ChangeSet accumulates primitive edits against one buffer snapshot.
// Nothing is applied until Apply is called, and a ChangeSet applies once.
type ChangeSet struct {
	// Path identifies the buffer this change set targets.
	Path string

	edits   []Edit
	applied bool
}

// NewChangeSet creates an empty ChangeSet for the buffer at path.
func NewChangeSet(path string) *ChangeSet {
	return &ChangeSet{
		Path:  path,
		edits: make([]Edit, 0),
	}
}

// Insert records an insertion of text at pos.
func (cs *ChangeSet) Insert(pos int, text string) {
	cs.edits = append(cs.edits, Edit{Kind: EditInsert, Pos: pos, Text: text})
}

// Remove records the removal of bytes [start, end).
func (cs *ChangeSet) Remove(start, end int) {
	cs.edits = append(cs.edits, Edit{Kind: EditRemove, Range: Range{start, end}})
}

// Replace records the replacement of bytes [start, end) with text.
func (cs *ChangeSet) Replace(start, end int, text string) {
	cs.edits = append(cs.edits, Edit{Kind: EditReplace, Range: Range{start, end}, Text: text})
}

// Move records moving bytes [start, end) to dst. The source is cleared.
func (cs *ChangeSet) Move(start, end, dst int) {
	cs.edits = append(cs.edits, Edit{Kind: EditMove, Range: Range{start, end}, Pos: dst})
}

// Copy records copying bytes [start, end) to dst.
func (cs *ChangeSet) Copy(start, end, dst int) {
	cs.edits = append(cs.edits, Edit{Kind: EditCopy, Range: Range{start, end}, Pos: dst})
}

// Flip records swapping the contents of two ranges. Both texts are read
// from the same snapshot, so the order of the ranges does not matter.
func (cs *ChangeSet) Flip(first, second Range) {
	cs.edits = append(cs.edits, Edit{Kind: EditFlip, Range: first, Other: second})
}

// Edits returns a copy of the recorded primitives in recording order.
func (cs *ChangeSet) Edits() []Edit {
	out := make([]Edit, len(cs.edits))
	copy(out, cs.edits)
	return out
}

// Len returns the number of recorded primitives.
func (cs *ChangeSet) Len() int {
	return len(cs.edits)
}

// IsEmpty returns true if no primitives were recorded.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.edits) == 0
}

// Applied returns true once the change set has been applied successfully.
func (cs *ChangeSet) Applied() bool {
	return cs.applied
}

// Lower validates the recorded primitives against content and converts
// them to sorted, non-overlapping TextEdits.
func (cs *ChangeSet) Lower(content []byte) ([]TextEdit, error) {
	edits, err := cs.lower(content, 0)
	if err != nil {
		return nil, err
	}
	return PrepareEdits(edits, len(content))
}

// Apply lowers the change set and rewrites content in one pass. The input
// slice is never modified; on error it is returned unchanged together with
// the error.
func (cs *ChangeSet) Apply(content []byte) ([]byte, error) {
	if cs.applied {
		return content, fmt.Errorf("%w: %s", ErrAlreadyApplied, cs.Path)
	}

	edits, err := cs.Lower(content)
	if err != nil {
		return content, err
	}

	cs.applied = true
	return ApplyEdits(content, edits), nil
}

// lower converts primitives to TextEdits. seqBase offsets sequence numbers
// so edits of several change sets for one buffer can be merged.
func (cs *ChangeSet) lower(content []byte, seqBase int) ([]TextEdit, error) {
	out := make([]TextEdit, 0, len(cs.edits)+1)
	seq := seqBase

	next := func(start, end int, text string) {
		out = append(out, TextEdit{StartOffset: start, EndOffset: end, NewText: text, seq: seq})
		seq++
	}

	for _, e := range cs.edits {
		if err := validatePrimitive(e, len(content)); err != nil {
			return nil, err
		}

		switch e.Kind {
		case EditInsert:
			if e.Text != "" {
				next(e.Pos, e.Pos, e.Text)
			}
		case EditRemove:
			if !e.Range.IsEmpty() {
				next(e.Range.Start, e.Range.End, "")
			}
		case EditReplace:
			next(e.Range.Start, e.Range.End, e.Text)
		case EditMove:
			if e.Range.IsEmpty() {
				continue
			}
			next(e.Pos, e.Pos, string(content[e.Range.Start:e.Range.End]))
			next(e.Range.Start, e.Range.End, "")
		case EditCopy:
			if !e.Range.IsEmpty() {
				next(e.Pos, e.Pos, string(content[e.Range.Start:e.Range.End]))
			}
		case EditFlip:
			if e.Range.Overlaps(e.Other) {
				return nil, &OverlapError{
					First:  TextEdit{StartOffset: e.Range.Start, EndOffset: e.Range.End},
					Second: TextEdit{StartOffset: e.Other.Start, EndOffset: e.Other.End},
				}
			}
			firstText := string(content[e.Range.Start:e.Range.End])
			secondText := string(content[e.Other.Start:e.Other.End])
			next(e.Range.Start, e.Range.End, secondText)
			next(e.Other.Start, e.Other.End, firstText)
		default:
			return nil, &ValidationError{Message: fmt.Sprintf("unknown edit kind %d", e.Kind)}
		}
	}

	return out, nil
}

func validatePrimitive(e Edit, contentLen int) error {
	check := func(r Range, what string) error {
		switch {
		case r.Start < 0:
			return &ValidationError{Edit: e, Message: what + " start offset is negative"}
		case r.End < r.Start:
			return &ValidationError{Edit: e, Message: what + " end offset is before start offset"}
		case r.End > contentLen:
			return &ValidationError{
				Edit:    e,
				Message: fmt.Sprintf("%s end offset %d exceeds content length %d", what, r.End, contentLen),
			}
		}
		return nil
	}

	switch e.Kind {
	case EditInsert:
		return check(Range{e.Pos, e.Pos}, "insert")
	case EditRemove, EditReplace:
		return check(e.Range, e.Kind.String())
	case EditMove, EditCopy:
		if err := check(e.Range, e.Kind.String()+" source"); err != nil {
			return err
		}
		return check(Range{e.Pos, e.Pos}, e.Kind.String()+" destination")
	case EditFlip:
		if err := check(e.Range, "flip"); err != nil {
			return err
		}
		return check(e.Other, "flip")
	}
	return nil
}
