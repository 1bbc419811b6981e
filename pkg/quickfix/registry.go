package quickfix

import (
	"maps"
	"slices"
	"sync"
)

// Registry is the set of rules available to a dispatcher. Rules keep the
// order they were first registered in; the dispatcher uses that order to
// break priority ties.
//
// A rule is found by its ID, its name or any alias registered for it.
type Registry struct {
	mu      sync.RWMutex
	rules   []Rule
	index   map[string]int    // ID or name -> position in rules
	aliases map[string]string // alias -> ID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index:   map[string]int{},
		aliases: map[string]string{},
	}
}

// Register adds rule. Registering an ID again swaps the rule in at the
// original position and drops the old rule's name.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pos, exists := r.index[rule.ID()]
	if exists {
		delete(r.index, r.rules[pos].Name())
		r.rules[pos] = rule
	} else {
		pos = len(r.rules)
		r.rules = append(r.rules, rule)
	}
	r.index[rule.ID()] = pos
	r.index[rule.Name()] = pos
}

// RegisterAlias makes alias select the rule with ruleID. The rule does not
// have to be registered yet.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ruleID
}

// Get looks a rule up by ID or name. Aliases are not consulted.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if pos, ok := r.index[key]; ok {
		return r.rules[pos], true
	}
	return nil, false
}

// Resolve looks a rule up by ID, name or alias and returns its ID.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[key]
	if !ok {
		if id, isAlias := r.aliases[key]; isAlias {
			pos, ok = r.index[id]
		}
	}
	if !ok {
		return "", nil, false
	}
	rule := r.rules[pos]
	return rule.ID(), rule, true
}

// Rules returns the rules in registration order.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.rules)
}

// IDs returns the rule IDs, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.rules))
	for i, rule := range r.rules {
		ids[i] = rule.ID()
	}
	slices.Sort(ids)
	return ids
}

// Aliases returns the aliases of ruleID, sorted.
func (r *Registry) Aliases(ruleID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for _, alias := range slices.Sorted(maps.Keys(r.aliases)) {
		if r.aliases[alias] == ruleID {
			out = append(out, alias)
		}
	}
	return out
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
