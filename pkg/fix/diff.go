package fix

import (
	"fmt"
	"strings"
)

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line present only after the change.
	DiffLineAdd

	// DiffLineRemove is a line present only before the change.
	DiffLineRemove
)

var diffLinePrefix = [...]byte{' ', '+', '-'}

// DiffLine is a single line in a hunk, without its prefix or newline.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk is a run of changed lines with surrounding context.
// Start lines are 1-based.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a line-based unified diff of one buffer.
type Diff struct {
	Path      string
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// diffContext is the number of unchanged lines kept around a change.
const diffContext = 3

// GenerateDiff compares two versions of a buffer. It returns nil when the
// contents are identical.
func GenerateDiff(path string, before, after []byte) *Diff {
	if string(before) == string(after) {
		return nil
	}

	ops := diffLines(splitLines(before), splitLines(after))
	diff := &Diff{Path: path, Hunks: hunksFrom(ops)}
	for _, op := range ops {
		switch op.Kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		}
	}
	if len(diff.Hunks) == 0 {
		return nil
	}
	return diff
}

// PreviewDiff lowers cs against content without marking it applied and
// returns the diff of the would-be result.
func PreviewDiff(cs *ChangeSet, content []byte) (*Diff, error) {
	edits, err := cs.Lower(content)
	if err != nil {
		return nil, err
	}
	return GenerateDiff(cs.Path, content, ApplyEdits(content, edits)), nil
}

// HasChanges returns true if the diff contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String renders the diff in unified format with a/ and b/ file headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	name := strings.TrimPrefix(d.Path, "/")
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", name, name)
	for _, h := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", h.OriginalStart, h.OriginalCount, h.ModifiedStart, h.ModifiedCount)
		for _, l := range h.Lines {
			sb.WriteByte(diffLinePrefix[l.Kind])
			sb.WriteString(l.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// diffLines produces an edit script from a longest common subsequence of
// the two line slices. The shared prefix and suffix are trimmed first so
// the table only covers the changed middle.
func diffLines(a, b []string) []DiffLine {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]DiffLine, 0, len(a)+len(b))
	for _, line := range a[:prefix] {
		ops = append(ops, DiffLine{Kind: DiffLineContext, Content: line})
	}

	midA, midB := a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]
	rows, cols := len(midA), len(midB)

	// table[i][j] is the LCS length of midA[i:] and midB[j:].
	table := make([][]int, rows+1)
	for i := range table {
		table[i] = make([]int, cols+1)
	}
	for i := rows - 1; i >= 0; i-- {
		for j := cols - 1; j >= 0; j-- {
			if midA[i] == midB[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < rows || j < cols {
		switch {
		case i < rows && j < cols && midA[i] == midB[j]:
			ops = append(ops, DiffLine{Kind: DiffLineContext, Content: midA[i]})
			i++
			j++
		case j == cols || (i < rows && table[i+1][j] >= table[i][j+1]):
			ops = append(ops, DiffLine{Kind: DiffLineRemove, Content: midA[i]})
			i++
		default:
			ops = append(ops, DiffLine{Kind: DiffLineAdd, Content: midB[j]})
			j++
		}
	}

	for _, line := range a[len(a)-suffix:] {
		ops = append(ops, DiffLine{Kind: DiffLineContext, Content: line})
	}
	return ops
}

// hunksFrom groups an edit script into hunks. Changes separated by no more
// than twice the context size share a hunk.
func hunksFrom(ops []DiffLine) []DiffHunk {
	// oldAt[i] and newAt[i] are the 1-based line numbers before ops[i].
	oldAt := make([]int, len(ops)+1)
	newAt := make([]int, len(ops)+1)
	oldAt[0], newAt[0] = 1, 1
	for i, op := range ops {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if op.Kind != DiffLineAdd {
			oldAt[i+1]++
		}
		if op.Kind != DiffLineRemove {
			newAt[i+1]++
		}
	}

	var hunks []DiffHunk
	for i := 0; i < len(ops); {
		if ops[i].Kind == DiffLineContext {
			i++
			continue
		}

		end := i + 1
		for next := end; next < len(ops) && next-end <= 2*diffContext; next++ {
			if ops[next].Kind != DiffLineContext {
				end = next + 1
			}
		}

		from := max(0, i-diffContext)
		to := min(len(ops), end+diffContext)
		h := DiffHunk{
			OriginalStart: oldAt[from],
			OriginalCount: oldAt[to] - oldAt[from],
			ModifiedStart: newAt[from],
			ModifiedCount: newAt[to] - newAt[from],
			Lines:         append([]DiffLine(nil), ops[from:to]...),
		}
		hunks = append(hunks, h)
		i = end
	}
	return hunks
}
