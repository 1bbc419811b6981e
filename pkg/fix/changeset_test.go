package fix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/quickfix/pkg/fix"
)

func TestChangeSetPrimitives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		build   func(cs *fix.ChangeSet)
		want    string
	}{
		{
			name:    "insert",
			content: "int a;",
			build:   func(cs *fix.ChangeSet) { cs.Insert(4, "b, ") },
			want:    "int b, a;",
		},
		{
			name:    "remove",
			content: "int a, b;",
			build:   func(cs *fix.ChangeSet) { cs.Remove(5, 8) },
			want:    "int a;",
		},
		{
			name:    "replace",
			content: "x = 10;",
			build:   func(cs *fix.ChangeSet) { cs.Replace(4, 6, "0xA") },
			want:    "x = 0xA;",
		},
		{
			name:    "move clears the source",
			content: "abcdef",
			build:   func(cs *fix.ChangeSet) { cs.Move(0, 2, 6) },
			want:    "cdefab",
		},
		{
			name:    "copy keeps the source",
			content: "abc",
			build:   func(cs *fix.ChangeSet) { cs.Copy(0, 1, 3) },
			want:    "abca",
		},
		{
			name:    "flip",
			content: "f(a, b)",
			build:   func(cs *fix.ChangeSet) { cs.Flip(fix.Range{Start: 2, End: 3}, fix.Range{Start: 5, End: 6}) },
			want:    "f(b, a)",
		},
		{
			name:    "flip of unequal lengths",
			content: "f(int x, double y)",
			build: func(cs *fix.ChangeSet) {
				cs.Flip(fix.Range{Start: 9, End: 17}, fix.Range{Start: 2, End: 7})
			},
			want: "f(double y, int x)",
		},
		{
			name:    "insertions at one offset keep recording order",
			content: "ab",
			build: func(cs *fix.ChangeSet) {
				cs.Insert(1, "1")
				cs.Insert(1, "2")
				cs.Insert(1, "3")
			},
			want: "a123b",
		},
		{
			name:    "insertion before a removal at the same offset",
			content: "int a, b;",
			build: func(cs *fix.ChangeSet) {
				cs.Remove(5, 7)
				cs.Insert(5, ";\nint ")
			},
			want: "int a;\nint b;",
		},
		{
			name:    "positions refer to the original snapshot",
			content: "if (a && b) x;",
			build: func(cs *fix.ChangeSet) {
				cs.Insert(0, "if (")
				cs.Move(4, 5, 0)
				cs.Insert(0, ") {\n")
				cs.Remove(5, 9)
				cs.Insert(14, "\n}")
			},
			want: "if (a) {\nif (b) x;\n}",
		},
		{
			name:    "empty change set",
			content: "unchanged",
			build:   func(*fix.ChangeSet) {},
			want:    "unchanged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cs := fix.NewChangeSet("a.cpp")
			tt.build(cs)

			got, err := cs.Apply([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.True(t, cs.Applied())
		})
	}
}

func TestChangeSetApplyTwice(t *testing.T) {
	t.Parallel()

	cs := fix.NewChangeSet("a.cpp")
	cs.Insert(0, "x")

	_, err := cs.Apply([]byte("y"))
	require.NoError(t, err)

	_, err = cs.Apply([]byte("y"))
	require.ErrorIs(t, err, fix.ErrAlreadyApplied)
}

func TestChangeSetConflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(cs *fix.ChangeSet)
	}{
		{
			name: "overlapping removals",
			build: func(cs *fix.ChangeSet) {
				cs.Remove(0, 4)
				cs.Remove(2, 6)
			},
		},
		{
			name: "insertion inside a removed range",
			build: func(cs *fix.ChangeSet) {
				cs.Remove(0, 4)
				cs.Insert(2, "x")
			},
		},
		{
			name: "overlapping flip ranges",
			build: func(cs *fix.ChangeSet) {
				cs.Flip(fix.Range{Start: 0, End: 3}, fix.Range{Start: 2, End: 5})
			},
		},
		{
			name: "move into its own source",
			build: func(cs *fix.ChangeSet) {
				cs.Move(0, 4, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := []byte("abcdefgh")
			cs := fix.NewChangeSet("a.cpp")
			tt.build(cs)

			got, err := cs.Apply(content)
			var overlap *fix.OverlapError
			require.ErrorAs(t, err, &overlap)
			assert.Equal(t, "abcdefgh", string(got))
			assert.Equal(t, "abcdefgh", string(content))
			assert.False(t, cs.Applied())
		})
	}
}

func TestChangeSetValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(cs *fix.ChangeSet)
	}{
		{"negative start", func(cs *fix.ChangeSet) { cs.Remove(-1, 2) }},
		{"end before start", func(cs *fix.ChangeSet) { cs.Replace(3, 1, "x") }},
		{"past the end", func(cs *fix.ChangeSet) { cs.Insert(9, "x") }},
		{"copy destination past the end", func(cs *fix.ChangeSet) { cs.Copy(0, 1, 20) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cs := fix.NewChangeSet("a.cpp")
			tt.build(cs)

			_, err := cs.Apply([]byte("abc"))
			var verr *fix.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestApplyAll(t *testing.T) {
	t.Parallel()

	t.Run("merges sets for one buffer", func(t *testing.T) {
		t.Parallel()

		decl := fix.NewChangeSet("a.h")
		decl.Insert(8, "\nint g();")
		def := fix.NewChangeSet("a.cpp")
		def.Insert(0, "int g() { return 1; }\n")
		call := fix.NewChangeSet("a.cpp")
		call.Replace(10, 11, "g()")

		buffers := map[string][]byte{
			"a.h":   []byte("int f();"),
			"a.cpp": []byte("int x() { 1; }"),
		}
		got, err := fix.ApplyAll(buffers, []*fix.ChangeSet{decl, def, call})
		require.NoError(t, err)
		assert.Equal(t, "int f();\nint g();", string(got["a.h"]))
		assert.Equal(t, "int g() { return 1; }\nint x() { g(); }", string(got["a.cpp"]))
		assert.True(t, decl.Applied())
		assert.True(t, call.Applied())
	})

	t.Run("a conflict leaves every buffer untouched", func(t *testing.T) {
		t.Parallel()

		ok := fix.NewChangeSet("a.h")
		ok.Insert(0, "// header\n")
		bad := fix.NewChangeSet("a.cpp")
		bad.Remove(0, 3)
		bad.Remove(1, 2)

		buffers := map[string][]byte{
			"a.h":   []byte("int f();"),
			"a.cpp": []byte("abc"),
		}
		got, err := fix.ApplyAll(buffers, []*fix.ChangeSet{ok, bad})
		require.Error(t, err)
		assert.Nil(t, got)
		assert.Equal(t, "int f();", string(buffers["a.h"]))
		assert.False(t, ok.Applied())
	})

	t.Run("skipped empty sets stay unapplied", func(t *testing.T) {
		t.Parallel()

		edit := fix.NewChangeSet("a.cpp")
		edit.Insert(0, "// a\n")
		empty := fix.NewChangeSet("a.cpp")

		got, err := fix.ApplyAll(map[string][]byte{"a.cpp": []byte("int x;")}, []*fix.ChangeSet{edit, empty})
		require.NoError(t, err)
		assert.Equal(t, "// a\nint x;", string(got["a.cpp"]))
		assert.True(t, edit.Applied())
		assert.False(t, empty.Applied())
	})

	t.Run("missing buffer", func(t *testing.T) {
		t.Parallel()

		cs := fix.NewChangeSet("missing.cpp")
		cs.Insert(0, "x")
		_, err := fix.ApplyAll(map[string][]byte{}, []*fix.ChangeSet{cs})
		require.Error(t, err)
	})

	t.Run("already applied", func(t *testing.T) {
		t.Parallel()

		cs := fix.NewChangeSet("a.cpp")
		cs.Insert(0, "x")
		_, err := cs.Apply([]byte("y"))
		require.NoError(t, err)

		_, err = fix.ApplyAll(map[string][]byte{"a.cpp": []byte("y")}, []*fix.ChangeSet{cs})
		assert.True(t, errors.Is(err, fix.ErrAlreadyApplied))
	})
}

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	content := []byte("hello world")
	got := fix.ApplyEdits(content, []fix.TextEdit{
		{StartOffset: 0, EndOffset: 5, NewText: "hi"},
		{StartOffset: 6, EndOffset: 11, NewText: "there"},
	})
	assert.Equal(t, "hi there", string(got))
	assert.Equal(t, "hello world", string(content))
}
