package quickfix

// BaseRule provides a default implementation of the Rule interface.
// Embed this in rule implementations and override methods as needed.
//
// Fields are unexported to avoid stutter and name collisions with interface methods.
// Use NewBaseRule to construct one.
type BaseRule struct {
	id      string         // Unique identifier (e.g., "QF001")
	name    string         // Human-readable name
	desc    string         // Detailed description
	tags    []string       // Categorization tags
	options map[string]any // Option defaults
}

// NewBaseRule creates a BaseRule with the given properties.
func NewBaseRule(id, name, desc string, tags []string) BaseRule {
	return BaseRule{
		id:   id,
		name: name,
		desc: desc,
		tags: tags,
	}
}

// WithOptions returns a copy of the rule that declares the given option
// defaults.
func (r BaseRule) WithOptions(options map[string]any) BaseRule {
	r.options = options
	return r
}

// ID returns the unique identifier for this rule.
func (r *BaseRule) ID() string {
	return r.id
}

// Name returns the human-readable name of the rule.
func (r *BaseRule) Name() string {
	return r.name
}

// Description returns a detailed description of what the rule offers.
func (r *BaseRule) Description() string {
	return r.desc
}

// DefaultEnabled returns whether the rule is enabled by default.
// Override this method to change the default.
func (r *BaseRule) DefaultEnabled() bool {
	return true
}

// Tags returns categorization tags for this rule.
func (r *BaseRule) Tags() []string {
	return r.tags
}

// DefaultOptions returns the rule's option defaults.
func (r *BaseRule) DefaultOptions() map[string]any {
	return r.options
}

// Match must be overridden by concrete rule implementations.
// The default implementation offers nothing.
func (r *BaseRule) Match(_ *MatchContext) ([]Operation, error) {
	return nil, nil
}

// BaseOperation holds the fields every Operation reports. Embed it in
// concrete operations, which then only implement Perform.
type BaseOperation struct {
	priority    int
	description string
	ruleID      string
}

// NewBaseOperation creates the common part of an operation offered by rule.
func NewBaseOperation(rule Rule, priority int, description string) BaseOperation {
	return BaseOperation{
		priority:    priority,
		description: description,
		ruleID:      rule.ID(),
	}
}

// Priority orders operations; higher comes first.
func (o *BaseOperation) Priority() int {
	return o.priority
}

// Description is the user-visible label.
func (o *BaseOperation) Description() string {
	return o.description
}

// RuleID identifies the rule that produced the operation.
func (o *BaseOperation) RuleID() string {
	return o.ruleID
}
