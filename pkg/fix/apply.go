package fix

import (
	"bytes"
	"fmt"
)

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must be prepared with PrepareEdits before calling.
// Returns the modified content; the input slice is not modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return bytes.Clone(content)
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	cursor := 0
	for _, e := range edits {
		out.Write(content[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = max(cursor, e.EndOffset)
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// ApplyAll applies change sets to the buffers they target. Change sets
// sharing a path are merged against the same snapshot. Every set is lowered
// and conflict-checked before any result is produced, so either all
// buffers change or none do. The returned map holds only modified buffers.
func ApplyAll(buffers map[string][]byte, sets []*ChangeSet) (map[string][]byte, error) {
	byPath := make(map[string][]TextEdit)
	var order []string
	var lowered []*ChangeSet
	seqBase := 0

	for _, cs := range sets {
		if cs == nil || cs.IsEmpty() {
			continue
		}
		if cs.applied {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyApplied, cs.Path)
		}
		content, ok := buffers[cs.Path]
		if !ok {
			return nil, fmt.Errorf("no buffer for %q", cs.Path)
		}
		edits, err := cs.lower(content, seqBase)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cs.Path, err)
		}
		seqBase += len(edits)
		if _, seen := byPath[cs.Path]; !seen {
			order = append(order, cs.Path)
		}
		byPath[cs.Path] = append(byPath[cs.Path], edits...)
		lowered = append(lowered, cs)
	}

	prepared := make(map[string][]TextEdit, len(order))
	for _, path := range order {
		edits, err := PrepareEdits(byPath[path], len(buffers[path]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		prepared[path] = edits
	}

	result := make(map[string][]byte, len(order))
	for _, path := range order {
		result[path] = ApplyEdits(buffers[path], prepared[path])
	}
	for _, cs := range lowered {
		cs.applied = true
	}

	return result, nil
}
