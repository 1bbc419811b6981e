package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/fsutil"
	"github.com/yaklabco/quickfix/pkg/langdetect"
	"github.com/yaklabco/quickfix/pkg/quickfix"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// Workspace errors.
var (
	// ErrNoPath is returned when no main file is given.
	ErrNoPath = errors.New("workspace: no file given")

	// ErrNotCpp is returned for a file that is not C or C++ source.
	ErrNotCpp = errors.New("not a C or C++ source file")

	// ErrParse wraps a fatal lexical error in a buffer.
	ErrParse = errors.New("parse failure")

	// ErrNotOnDisk is returned when writing a buffer that was not read
	// from a file.
	ErrNotOnDisk = errors.New("buffer has no backing file")

	// ErrWrite wraps a failure to write results back to disk.
	ErrWrite = errors.New("write failure")
)

// Buffer is an in-memory source file.
type Buffer struct {
	Path    string
	Content []byte
}

// File is one loaded and parsed buffer of a workspace.
type File struct {
	// Path identifies the buffer; change sets target it by this path.
	Path string

	// Content is the snapshot the document was parsed from.
	Content []byte

	// Info is the on-disk state when the file was read, or nil for an
	// in-memory buffer.
	Info *fsutil.FileInfo

	// Language is LangC or LangCPP from langdetect.
	Language string

	// Doc is the parsed document.
	Doc *cppast.Document
}

// Workspace is a set of parsed buffers sharing one semantic index. The
// first file holds the cursor.
type Workspace struct {
	files  []*File
	byPath map[string]*File
	index  *semantic.Index
	logger *log.Logger
}

// Load reads, checks and parses the files named by opts.
func Load(ctx context.Context, opts Options) (*Workspace, error) {
	paths, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		content, info, err := fsutil.ReadFile(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
		files = append(files, &File{Path: p, Content: content, Info: info})
	}

	return build(ctx, files, opts.extensions(), opts.Logger)
}

// FromBuffers builds a workspace from in-memory buffers. The first
// buffer holds the cursor. extensions lists extra accepted source
// extensions.
func FromBuffers(ctx context.Context, buffers []Buffer, extensions []string) (*Workspace, error) {
	if len(buffers) == 0 {
		return nil, ErrNoPath
	}
	files := make([]*File, 0, len(buffers))
	for _, b := range buffers {
		files = append(files, &File{Path: b.Path, Content: b.Content})
	}
	return build(ctx, files, extensions, nil)
}

func build(ctx context.Context, files []*File, extensions []string, logger *log.Logger) (*Workspace, error) {
	if logger == nil {
		logger = log.Default()
	}
	ws := &Workspace{
		files:  files,
		byPath: make(map[string]*File, len(files)),
		logger: logger,
	}

	docs := make([]*cppast.Document, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled: %w", err)
		}
		if !langdetect.IsSource(f.Path, f.Content, extensions) {
			return nil, fmt.Errorf("%w: %s (detected %s)", ErrNotCpp, f.Path, langdetect.Detect(f.Path, f.Content))
		}
		f.Language = langdetect.Detect(f.Path, f.Content)

		doc, err := cppast.Parse(ctx, f.Path, f.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}
		for _, d := range doc.Diagnostics {
			logger.Debug("recovered syntax error", "path", f.Path, "line", d.Line, "column", d.Column, "message", d.Message)
		}
		f.Doc = doc
		ws.byPath[f.Path] = f
		docs = append(docs, doc)
	}

	ws.index = semantic.NewIndex(docs...)
	logger.Debug("workspace loaded", "files", len(files), "main", files[0].Path)
	return ws, nil
}

// Main returns the file holding the cursor.
func (w *Workspace) Main() *File {
	return w.files[0]
}

// Files returns every file, main first.
func (w *Workspace) Files() []*File {
	return w.files
}

// File returns the file loaded from path.
func (w *Workspace) File(path string) (*File, bool) {
	f, ok := w.byPath[path]
	return f, ok
}

// Index returns the semantic index over all files.
func (w *Workspace) Index() *semantic.Index {
	return w.index
}

// Documents returns the parsed documents, main first.
func (w *Workspace) Documents() []*cppast.Document {
	docs := make([]*cppast.Document, len(w.files))
	for i, f := range w.files {
		docs[i] = f.Doc
	}
	return docs
}

// MatchContext builds the context for a selection in the main file.
func (w *Workspace) MatchContext(ctx context.Context, sel Selection) (*quickfix.MatchContext, error) {
	doc := w.Main().Doc
	start, end, err := sel.Resolve(doc)
	if err != nil {
		return nil, err
	}

	mctx := quickfix.NewMatchContext(ctx, doc, start, end, w.index)
	mctx.Related = w.Documents()[1:]
	mctx.Logger = w.logger
	return mctx, nil
}

// Match runs the dispatcher at a selection in the main file.
func (w *Workspace) Match(ctx context.Context, d *quickfix.Dispatcher, sel Selection) (*quickfix.MatchResult, error) {
	mctx, err := w.MatchContext(ctx, sel)
	if err != nil {
		return nil, err
	}
	return d.Match(mctx)
}

// buffers returns the current content of every file keyed by path.
func (w *Workspace) buffers() map[string][]byte {
	out := make(map[string][]byte, len(w.files))
	for _, f := range w.files {
		out[f.Path] = f.Content
	}
	return out
}
