package cppast

import "fmt"

// NodeID addresses a node in a Tree arena.
type NodeID int32

// NoNode marks an absent optional child.
const NoNode NodeID = -1

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool {
	return id >= 0
}

// NodeKind classifies a syntax node.
type NodeKind uint8

// Node kinds.
const (
	KindTranslationUnit NodeKind = iota

	// Declarations.
	KindNamespace
	KindTemplateDecl
	KindSimpleDecl
	KindFunctionDef
	KindDeclSpecifier
	KindClassSpecifier
	KindEnumSpecifier
	KindEnumerator
	KindDeclarator
	KindParamClause
	KindParamDecl
	KindCondition
	KindOpaqueDecl

	// Statements.
	KindCompoundStmt
	KindDeclStmt
	KindExprStmt
	KindIfStmt
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindRangeForStmt
	KindSwitchStmt
	KindCaseStmt
	KindDefaultStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt

	// Expressions.
	KindIdExpr
	KindLiteral
	KindBinaryExpr
	KindUnaryExpr
	KindPostfixExpr
	KindCallExpr
	KindMemberExpr
	KindSubscriptExpr
	KindParenExpr
	KindConditionalExpr
	KindCastExpr
	KindLambdaExpr
	KindBracedInit

	// KindUnknown covers tokens the parser skipped while recovering.
	KindUnknown
)

var nodeKindNames = [...]string{
	"TranslationUnit",
	"Namespace", "TemplateDecl", "SimpleDecl", "FunctionDef", "DeclSpecifier",
	"ClassSpecifier", "EnumSpecifier", "Enumerator", "Declarator", "ParamClause",
	"ParamDecl", "Condition", "OpaqueDecl",
	"CompoundStmt", "DeclStmt", "ExprStmt", "IfStmt", "WhileStmt", "DoStmt",
	"ForStmt", "RangeForStmt", "SwitchStmt", "CaseStmt", "DefaultStmt",
	"ReturnStmt", "BreakStmt", "ContinueStmt",
	"IdExpr", "Literal", "BinaryExpr", "UnaryExpr", "PostfixExpr", "CallExpr",
	"MemberExpr", "SubscriptExpr", "ParenExpr", "ConditionalExpr", "CastExpr",
	"LambdaExpr", "BracedInit",
	"Unknown",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

// IsStatement reports whether the kind is a statement.
func (k NodeKind) IsStatement() bool {
	return k >= KindCompoundStmt && k <= KindContinueStmt
}

// IsExpression reports whether the kind is an expression.
func (k NodeKind) IsExpression() bool {
	return k >= KindIdExpr && k <= KindBracedInit
}

// Node is one arena entry. Token fields are indices into the document's
// token slice; FirstToken <= LastToken for every node.
type Node struct {
	Kind       NodeKind
	Parent     NodeID
	FirstToken int
	LastToken  int
	Children   []NodeID
	Attrs      Attrs
}

// Attrs holds the kind-specific fields of a node. The set of
// implementations is closed; use a type switch or As to inspect them.
// Token fields hold -1 when the token is absent.
type Attrs interface {
	attrs()
}

// NamespaceAttrs describes `namespace N { ... }`.
type NamespaceAttrs struct {
	NameToken int
	LBrace    int
	RBrace    int
	Decls     []NodeID
}

// TemplateAttrs describes `template <...> decl`.
type TemplateAttrs struct {
	TemplateToken int
	Decl          NodeID
}

// SimpleDeclAttrs describes `specifiers declarator, declarator;`.
type SimpleDeclAttrs struct {
	Specifier   NodeID
	Declarators []NodeID
	Semicolon   int
}

// FunctionDefAttrs describes a function definition with a body.
type FunctionDefAttrs struct {
	Specifier  NodeID
	Declarator NodeID
	Body       NodeID
}

// DeclSpecifierAttrs describes a declaration's specifier list.
// Nested is a class or enum specifier defined inline, if any.
type DeclSpecifierAttrs struct {
	Nested NodeID
}

// ClassAttrs describes a class, struct or union specifier.
type ClassAttrs struct {
	KeyToken  int
	NameToken int
	LBrace    int
	RBrace    int
	Members   []NodeID
}

// EnumAttrs describes an enum specifier.
type EnumAttrs struct {
	EnumToken   int
	NameToken   int
	Scoped      bool
	LBrace      int
	RBrace      int
	Enumerators []NodeID
}

// EnumeratorAttrs describes one enumerator.
type EnumeratorAttrs struct {
	NameToken int
	Value     NodeID
}

// DeclaratorAttrs describes a declarator. NameFirst..NameLast span the
// possibly qualified core name; both are -1 for abstract declarators.
type DeclaratorAttrs struct {
	NameFirst   int
	NameLast    int
	Params      NodeID
	ConstToken  int
	EqualToken  int
	Initializer NodeID
}

// ParamClauseAttrs describes a parenthesised parameter list.
type ParamClauseAttrs struct {
	LParen   int
	RParen   int
	Params   []NodeID
	Ellipsis int
}

// ParamDeclAttrs describes one parameter. A default argument is the
// declarator's initializer.
type ParamDeclAttrs struct {
	Specifier  NodeID
	Declarator NodeID
}

// ConditionAttrs describes a declaration used as a condition, as in
// `if (T x = e)` or the range declaration of a range-based for.
type ConditionAttrs struct {
	Specifier  NodeID
	Declarator NodeID
}

// CompoundAttrs describes `{ statements }`.
type CompoundAttrs struct {
	LBrace int
	RBrace int
	Stmts  []NodeID
}

// DeclStmtAttrs wraps a declaration used as a statement.
type DeclStmtAttrs struct {
	Decl NodeID
}

// ExprStmtAttrs describes `expr;`. Expr is NoNode for the null statement.
type ExprStmtAttrs struct {
	Expr      NodeID
	Semicolon int
}

// IfAttrs describes an if statement.
type IfAttrs struct {
	IfToken   int
	LParen    int
	RParen    int
	ElseToken int
	Cond      NodeID
	Then      NodeID
	Else      NodeID
}

// WhileAttrs describes a while loop.
type WhileAttrs struct {
	WhileToken int
	LParen     int
	RParen     int
	Cond       NodeID
	Body       NodeID
}

// DoAttrs describes a do-while loop.
type DoAttrs struct {
	DoToken    int
	WhileToken int
	LParen     int
	RParen     int
	Semicolon  int
	Body       NodeID
	Cond       NodeID
}

// ForAttrs describes a classic for loop. Init is a declaration or
// expression statement and includes its semicolon.
type ForAttrs struct {
	ForToken int
	LParen   int
	RParen   int
	Init     NodeID
	Cond     NodeID
	Expr     NodeID
	Body     NodeID
}

// RangeForAttrs describes a range-based for loop.
type RangeForAttrs struct {
	ForToken int
	LParen   int
	Colon    int
	RParen   int
	Decl     NodeID
	Range    NodeID
	Body     NodeID
}

// SwitchAttrs describes a switch statement.
type SwitchAttrs struct {
	SwitchToken int
	LParen      int
	RParen      int
	Cond        NodeID
	Body        NodeID
}

// CaseAttrs describes `case expr: stmt`.
type CaseAttrs struct {
	CaseToken int
	Colon     int
	Expr      NodeID
	Stmt      NodeID
}

// DefaultAttrs describes `default: stmt`.
type DefaultAttrs struct {
	DefaultToken int
	Colon        int
	Stmt         NodeID
}

// ReturnAttrs describes a return statement.
type ReturnAttrs struct {
	ReturnToken int
	Expr        NodeID
}

// IdExprAttrs describes a possibly qualified name used as an expression.
// NameToken is the unqualified identifier, before any template arguments.
type IdExprAttrs struct {
	NameFirst int
	NameLast  int
	NameToken int
}

// LiteralKind classifies literals.
type LiteralKind uint8

// Literal kinds.
const (
	LiteralNumeric LiteralKind = iota
	LiteralString
	LiteralChar
	LiteralBool
	LiteralNullptr
)

// LiteralAttrs describes a literal. Adjacent string literals form one node.
type LiteralAttrs struct {
	Kind LiteralKind
}

// BinaryAttrs describes `left op right`, including assignments.
type BinaryAttrs struct {
	Left    NodeID
	OpToken int
	Right   NodeID
}

// UnaryAttrs describes a prefix operator.
type UnaryAttrs struct {
	OpToken int
	Operand NodeID
}

// PostfixAttrs describes `operand++` and `operand--`.
type PostfixAttrs struct {
	Operand NodeID
	OpToken int
}

// CallAttrs describes a call or functional cast.
type CallAttrs struct {
	Callee NodeID
	LParen int
	RParen int
	Args   []NodeID
}

// MemberAttrs describes `base.name` and `base->name`.
type MemberAttrs struct {
	Base      NodeID
	OpToken   int
	NameToken int
}

// SubscriptAttrs describes `base[index]`.
type SubscriptAttrs struct {
	Base     NodeID
	LBracket int
	Index    NodeID
	RBracket int
}

// ParenAttrs describes `(inner)`.
type ParenAttrs struct {
	LParen int
	Inner  NodeID
	RParen int
}

// ConditionalAttrs describes `cond ? then : else`.
type ConditionalAttrs struct {
	Cond     NodeID
	Question int
	Then     NodeID
	Colon    int
	Else     NodeID
}

// CastAttrs describes static_cast and its siblings. TypeFirst..TypeLast
// span the target type between the angle brackets.
type CastAttrs struct {
	KeywordToken int
	TypeFirst    int
	TypeLast     int
	Operand      NodeID
}

// LambdaAttrs describes a lambda expression.
type LambdaAttrs struct {
	LBracket int
	RBracket int
	Params   NodeID
	Body     NodeID
}

// BracedInitAttrs describes `{ elems }` used as an initializer.
type BracedInitAttrs struct {
	LBrace int
	RBrace int
	Elems  []NodeID
}

func (*NamespaceAttrs) attrs()     {}
func (*TemplateAttrs) attrs()      {}
func (*SimpleDeclAttrs) attrs()    {}
func (*FunctionDefAttrs) attrs()   {}
func (*DeclSpecifierAttrs) attrs() {}
func (*ClassAttrs) attrs()         {}
func (*EnumAttrs) attrs()          {}
func (*EnumeratorAttrs) attrs()    {}
func (*DeclaratorAttrs) attrs()    {}
func (*ParamClauseAttrs) attrs()   {}
func (*ParamDeclAttrs) attrs()     {}
func (*ConditionAttrs) attrs()     {}
func (*CompoundAttrs) attrs()      {}
func (*DeclStmtAttrs) attrs()      {}
func (*ExprStmtAttrs) attrs()      {}
func (*IfAttrs) attrs()            {}
func (*WhileAttrs) attrs()         {}
func (*DoAttrs) attrs()            {}
func (*ForAttrs) attrs()           {}
func (*RangeForAttrs) attrs()      {}
func (*SwitchAttrs) attrs()        {}
func (*CaseAttrs) attrs()          {}
func (*DefaultAttrs) attrs()       {}
func (*ReturnAttrs) attrs()        {}
func (*IdExprAttrs) attrs()        {}
func (*LiteralAttrs) attrs()       {}
func (*BinaryAttrs) attrs()        {}
func (*UnaryAttrs) attrs()         {}
func (*PostfixAttrs) attrs()       {}
func (*CallAttrs) attrs()          {}
func (*MemberAttrs) attrs()        {}
func (*SubscriptAttrs) attrs()     {}
func (*ParenAttrs) attrs()         {}
func (*ConditionalAttrs) attrs()   {}
func (*CastAttrs) attrs()          {}
func (*LambdaAttrs) attrs()        {}
func (*BracedInitAttrs) attrs()    {}
