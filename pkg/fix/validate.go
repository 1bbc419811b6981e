package fix

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAlreadyApplied is returned when a ChangeSet is applied a second time.
var ErrAlreadyApplied = errors.New("change set already applied")

// ValidationError describes a primitive whose positions fall outside the
// buffer or are otherwise malformed.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s edit %s: %s", e.Edit.Kind, e.Edit.Range, e.Message)
}

// OverlapError describes two edits whose source ranges intersect.
type OverlapError struct {
	First  TextEdit
	Second TextEdit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.First.StartOffset, e.First.EndOffset,
		e.Second.StartOffset, e.Second.EndOffset)
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
// Returns nil if all edits are valid, or the first validation error encountered.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		prim := Edit{Kind: EditReplace, Range: Range{edit.StartOffset, edit.EndOffset}, Text: edit.NewText}
		if err := validatePrimitive(prim, contentLen); err != nil {
			return err
		}
	}
	return nil
}

// SortEdits sorts edits by start offset. At equal offsets insertions come
// first, in recording order, followed by the non-empty range.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		a, b := edits[i], edits[j]
		if a.StartOffset != b.StartOffset {
			return a.StartOffset < b.StartOffset
		}
		if a.IsInsertion() != b.IsInsertion() {
			return a.IsInsertion()
		}
		if a.EndOffset != b.EndOffset {
			return a.EndOffset < b.EndOffset
		}
		return a.seq < b.seq
	})
}

// DetectConflicts checks a sorted slice for edits that overlap. An
// insertion conflicts only when it lands strictly inside a replaced range.
// Edits must be sorted by SortEdits before calling.
func DetectConflicts(edits []TextEdit) error {
	lastEnd := -1
	var last TextEdit
	for _, curr := range edits {
		if lastEnd >= 0 && curr.StartOffset < lastEnd {
			return &OverlapError{First: last, Second: curr}
		}
		if !curr.IsInsertion() {
			lastEnd = curr.EndOffset
			last = curr
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and checks for conflicts.
// Returns the sorted edits and any error encountered.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := make([]TextEdit, len(edits))
	copy(result, edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}

	return result, nil
}
