// Package langdetect decides whether a file is C or C++ source before
// quickfix parses it. It combines go-enry's extension, heuristic and
// classifier strategies with a few patterns that identify C++ reliably.
package langdetect

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Language identifiers returned by Detect.
const (
	LangC    = "c"
	LangCPP  = "cpp"
	LangText = "text"
)

// enry language names.
const (
	enryC   = "C"
	enryCPP = "C++"
)

// classifierCandidates bounds the classifier for files without an
// extension. Including common neighbours keeps it from labelling every
// brace language as C.
var classifierCandidates = []string{
	enryC, enryCPP, "Go", "Java", "Rust", "JavaScript", "Python", "Shell",
}

// Detect returns the language of a file from its path and content:
// LangC, LangCPP, the lower-cased go-enry name of another language, or
// LangText when detection is inconclusive.
func Detect(path string, content []byte) string {
	// Strategy 1: extension. Ambiguous extensions such as .h are settled
	// by content.
	if candidates := enry.GetLanguagesByExtension(filepath.Base(path), content, nil); len(candidates) > 0 {
		return pickCandidate(path, content, candidates)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return LangText
	}

	// Strategy 2: shebang.
	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	// Strategy 3: patterns.
	if looksLikeCPP(content) {
		return LangCPP
	}
	if looksLikeC(content) {
		return LangC
	}

	// Strategy 4: classifier.
	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return LangText
}

// IsSource reports whether a file is C or C++ source. Extensions in
// extra (with leading dot, any case) are accepted without detection.
func IsSource(path string, content []byte, extra []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && slices.ContainsFunc(extra, func(e string) bool {
		return strings.EqualFold(e, ext)
	}) {
		return true
	}
	lang := Detect(path, content)
	return lang == LangC || lang == LangCPP
}

// IsHeader reports whether path has a C or C++ header extension.
func IsHeader(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hh", ".hpp", ".hxx", ".h++", ".inl":
		return true
	default:
		return false
	}
}

func pickCandidate(path string, content []byte, candidates []string) string {
	if len(candidates) == 1 {
		return normalize(candidates[0])
	}

	hasC := slices.Contains(candidates, enryC)
	hasCPP := slices.Contains(candidates, enryCPP)
	if !hasC && !hasCPP {
		if lang, safe := enry.GetLanguageByContent(filepath.Base(path), content); safe {
			return normalize(lang)
		}
		return normalize(candidates[0])
	}

	if hasCPP && looksLikeCPP(content) {
		return LangCPP
	}
	if lang, safe := enry.GetLanguageByContent(filepath.Base(path), content); safe && slices.Contains(candidates, lang) {
		return normalize(lang)
	}
	if hasC {
		return LangC
	}
	return LangCPP
}

var cppMarkers = [][]byte{
	[]byte("std::"),
	[]byte("namespace "),
	[]byte("template <"),
	[]byte("template<"),
	[]byte("nullptr"),
	[]byte("public:"),
	[]byte("private:"),
	[]byte("protected:"),
	[]byte("enum class "),
	[]byte("#include <iostream>"),
	[]byte("#include <string>"),
	[]byte("#include <vector>"),
}

// looksLikeCPP checks for constructs that only C++ has.
func looksLikeCPP(content []byte) bool {
	for _, m := range cppMarkers {
		if bytes.Contains(content, m) {
			return true
		}
	}
	return false
}

// looksLikeC checks for preprocessor includes of C headers.
func looksLikeC(content []byte) bool {
	for line := range bytes.Lines(content) {
		line = bytes.TrimSpace(line)
		if bytes.HasPrefix(line, []byte("#include")) && bytes.Contains(line, []byte(".h")) {
			return true
		}
	}
	return false
}

// normalize converts go-enry language names to identifiers.
func normalize(lang string) string {
	switch lang {
	case enryCPP:
		return LangCPP
	case "":
		return LangText
	default:
		return strings.ToLower(lang)
	}
}
