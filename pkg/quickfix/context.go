package quickfix

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/quickfix/pkg/config"
	"github.com/yaklabco/quickfix/pkg/cppast"
	"github.com/yaklabco/quickfix/pkg/semantic"
)

// Semantics answers the symbol and type questions rules ask. It is
// implemented by *semantic.Index; hosts with their own code model can
// provide another implementation.
type Semantics interface {
	TypeOf(doc *cppast.Document, expr cppast.NodeID) (semantic.Type, bool)
	EnumOf(doc *cppast.Document, expr cppast.NodeID) (*semantic.Enum, bool)
	EnumeratorOf(doc *cppast.Document, expr cppast.NodeID) (*semantic.Enumerator, bool)
	LocalUses(doc *cppast.Document, fnDef cppast.NodeID) []*semantic.Local
	FunctionOf(doc *cppast.Document, node cppast.NodeID) *semantic.Function
	Declarations(def *semantic.Function) []*semantic.Function
	DefinitionOf(decl *semantic.Function) *semantic.Function
	Occurrences(doc *cppast.Document, tok int) []semantic.Occurrence
}

var _ Semantics = (*semantic.Index)(nil)

// MatchContext provides everything a rule needs to match at one cursor
// position. It is created per invocation and is read-only to rules.
//
// MatchContext stores context.Context as a field because it is a
// short-lived parameter object.
type MatchContext struct {
	// Ctx is the context for cancellation and logging.
	Ctx context.Context

	// Doc is the parsed buffer the cursor is in.
	Doc *cppast.Document

	// Path lists the nodes containing the selection start, from the
	// translation unit to the innermost node.
	Path []cppast.NodeID

	// SelectionStart and SelectionEnd are byte offsets into Doc. They are
	// equal for a plain cursor.
	SelectionStart int
	SelectionEnd   int

	// Semantics resolves symbols and types.
	Semantics Semantics

	// Related holds other parsed buffers of the workspace, such as the
	// header with the declarations of functions defined in Doc.
	Related []*cppast.Document

	// Config is the resolved configuration.
	Config *config.Config

	// RuleConfig is the rule-specific configuration (may be nil).
	RuleConfig *config.RuleConfig

	// Logger receives diagnostics about matching; never nil when built
	// by NewMatchContext.
	Logger *log.Logger

	// defaults are the option defaults of the rule being run.
	defaults map[string]any
}

// NewMatchContext creates a MatchContext for a selection in doc.
func NewMatchContext(ctx context.Context, doc *cppast.Document, selStart, selEnd int, sem Semantics) *MatchContext {
	if selEnd < selStart {
		selStart, selEnd = selEnd, selStart
	}
	mctx := &MatchContext{
		Ctx:            ctx,
		Doc:            doc,
		SelectionStart: selStart,
		SelectionEnd:   selEnd,
		Semantics:      sem,
		Logger:         log.Default(),
	}
	if doc != nil && doc.Tree != nil {
		mctx.Path = doc.PathAt(selStart)
	}
	return mctx
}

// forRule returns a copy of the context carrying a rule's configuration.
func (mc *MatchContext) forRule(rr ResolvedRule) *MatchContext {
	clone := *mc
	clone.RuleConfig = rr.Config
	clone.defaults = rr.Rule.DefaultOptions()
	return &clone
}

// Cancelled returns true if the context has been cancelled.
func (mc *MatchContext) Cancelled() bool {
	if mc.Ctx == nil {
		return false
	}
	select {
	case <-mc.Ctx.Done():
		return true
	default:
		return false
	}
}

// HasSelection reports whether the selection is non-empty.
func (mc *MatchContext) HasSelection() bool {
	return mc.SelectionEnd > mc.SelectionStart
}

// IsCursorOnToken reports whether the selection start is on token i.
func (mc *MatchContext) IsCursorOnToken(i int) bool {
	return mc.Doc.IsCursorOnToken(mc.SelectionStart, i)
}

// IsCursorOnNode reports whether the selection start is within node id.
func (mc *MatchContext) IsCursorOnNode(id cppast.NodeID) bool {
	return mc.Doc.IsCursorOnNode(mc.SelectionStart, id)
}

// Tree returns the syntax tree of Doc.
func (mc *MatchContext) Tree() *cppast.Tree {
	return mc.Doc.Tree
}

// Option returns a rule-specific option value: the configured value, the
// rule's declared default, or defaultValue.
func (mc *MatchContext) Option(key string, defaultValue any) any {
	if mc.RuleConfig != nil && mc.RuleConfig.Options != nil {
		if v, ok := mc.RuleConfig.Options[key]; ok {
			return v
		}
	}
	if v, ok := mc.defaults[key]; ok {
		return v
	}
	return defaultValue
}

// OptionInt returns a rule-specific integer option, or the default.
func (mc *MatchContext) OptionInt(key string, defaultValue int) int {
	v := mc.Option(key, defaultValue)
	switch val := v.(type) {
	case int:
		return val
	case float64:
		return int(val)
	default:
		return defaultValue
	}
}

// OptionString returns a rule-specific string option, or the default.
func (mc *MatchContext) OptionString(key string, defaultValue string) string {
	v := mc.Option(key, defaultValue)
	if s, ok := v.(string); ok {
		return s
	}
	return defaultValue
}

// OptionBool returns a rule-specific boolean option, or the default.
func (mc *MatchContext) OptionBool(key string, defaultValue bool) bool {
	v := mc.Option(key, defaultValue)
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultValue
}

// Documents returns Doc followed by the related documents.
func (mc *MatchContext) Documents() []*cppast.Document {
	docs := make([]*cppast.Document, 0, 1+len(mc.Related))
	docs = append(docs, mc.Doc)
	return append(docs, mc.Related...)
}
