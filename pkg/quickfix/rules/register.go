package rules

import "github.com/yaklabco/quickfix/pkg/quickfix"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *quickfix.Registry) {
	// Declaration rules
	registry.Register(NewSplitDeclarationRule())  // QF001
	registry.Register(NewInsertDeclarationRule()) // QF015

	// Statement rules
	registry.Register(NewAddBracesRule())      // QF002
	registry.Register(NewSplitIfRule())        // QF003
	registry.Register(NewCompleteSwitchRule()) // QF005

	// Literal rules
	registry.Register(NewConvertNumericLiteralRule()) // QF004

	// Function rules
	registry.Register(NewExtractFunctionRule()) // QF006
	registry.Register(NewExtractLiteralRule())  // QF007

	// Condition declaration rules
	registry.Register(NewMoveDeclarationOutOfIfRule())    // QF008
	registry.Register(NewMoveDeclarationOutOfWhileRule()) // QF009

	// Naming and signature rules
	registry.Register(NewConvertToCamelCaseRule())  // QF010
	registry.Register(NewRearrangeParametersRule()) // QF011

	// Loop rules
	registry.Register(NewOptimizeForLoopRule()) // QF012

	// Comment rules
	registry.Register(NewConvertCommentStyleRule())  // QF013
	registry.Register(NewMoveFunctionCommentsRule()) // QF014

	// Short forms used in editor keymaps
	registry.RegisterAlias("braces", "QF002")
	registry.RegisterAlias("camel-case", "QF010")
	registry.RegisterAlias("extract-constant", "QF007")
	registry.RegisterAlias("comment-style", "QF013")
}

// NewRegistry returns a registry holding every built-in rule.
func NewRegistry() *quickfix.Registry {
	registry := quickfix.NewRegistry()
	RegisterAll(registry)
	return registry
}
