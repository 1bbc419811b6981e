package cppast

import "sort"

// LineInfo holds the byte offsets of one line.
type LineInfo struct {
	// StartOffset is the offset of the first byte of the line.
	StartOffset int

	// NewlineStart is the offset of the line terminator, or the end of the
	// content for the last line.
	NewlineStart int

	// EndOffset is the offset just past the line terminator.
	EndOffset int
}

// BuildLines computes the line table of content. It handles LF and CRLF.
func BuildLines(content []byte) []LineInfo {
	lines := make([]LineInfo, 0, len(content)/32+1)
	lineStart := 0
	for idx, c := range content {
		if c != '\n' {
			continue
		}
		nl := idx
		if idx > 0 && content[idx-1] == '\r' {
			nl = idx - 1
		}
		lines = append(lines, LineInfo{StartOffset: lineStart, NewlineStart: nl, EndOffset: idx + 1})
		lineStart = idx + 1
	}
	return append(lines, LineInfo{StartOffset: lineStart, NewlineStart: len(content), EndOffset: len(content)})
}

// LineCol converts a byte offset to 1-based line and column numbers.
// Columns count bytes. Offsets past the end map to the last line.
func (d *Document) LineCol(offset int) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	offset = min(offset, len(d.Content))
	idx := sort.Search(len(d.Lines), func(i int) bool {
		return d.Lines[i].EndOffset > offset
	})
	if idx >= len(d.Lines) {
		idx = len(d.Lines) - 1
	}
	return idx + 1, offset - d.Lines[idx].StartOffset + 1
}

// Offset converts 1-based line and column numbers to a byte offset. The
// column may point just past the last character of the line.
func (d *Document) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(d.Lines) || col < 1 {
		return 0, false
	}
	info := d.Lines[line-1]
	offset := info.StartOffset + col - 1
	if offset > info.NewlineStart {
		return 0, false
	}
	return offset, true
}

// LineText returns a 1-based line without its terminator.
func (d *Document) LineText(line int) string {
	if line < 1 || line > len(d.Lines) {
		return ""
	}
	info := d.Lines[line-1]
	return string(d.Content[info.StartOffset:info.NewlineStart])
}
