// Package ast is the in-memory grammar model produced by langdef and
// consumed by analyze and peval: rules, alternatives, and the closed set
// of item kinds a PEG expression can be built from.
package ast

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Grammar is a named set of rules plus free-form metadata directives.
type Grammar struct {
	Rules    *RuleSet
	Metadata map[string]string
}

// NewGrammar creates an empty grammar ready to have rules added to it.
func NewGrammar() *Grammar {
	return &Grammar{Rules: NewRuleSet(), Metadata: make(map[string]string)}
}

// StartRule resolves the entry rule: the "start" metadata value if
// present, else a rule literally named "start", else ok is false.
func (g *Grammar) StartRule() (*Rule, bool) {
	if name, has := g.Metadata["start"]; has {
		return g.Rules.Get(name)
	}
	return g.Rules.Get("start")
}

// Rule is one named production: Name = Rhs.
type Rule struct {
	Name       string
	ReturnType string
	Rhs        *Rhs

	// Leader, LeftRecursive, Nullable and Memoize are filled in by
	// analyze.Run; they are zero-valued right after parsing.
	Leader        bool
	LeftRecursive bool
	Nullable      bool
	Memoize       bool
}

// Rhs is the right-hand side of a rule: an ordered, non-empty list of
// alternatives tried first-to-last.
type Rhs struct {
	Alts []*Alt
}

// Alt is a single alternative: a sequence of named items plus an
// optional embedded action and at most one cut.
type Alt struct {
	Items    []*NamedItem
	Action   string // "" means no action was given
	HasCut   bool
	CutIndex int // valid iff HasCut; index into Items of the Cut item
}

// NamedItem is one element of an alternative, optionally bound to a name
// for use from the alternative's action.
type NamedItem struct {
	Bind string // "" if unbound
	Item Item
}

// RuleSet is a name-indexed collection of rules that preserves insertion
// order, so later phases (e.g. describe's table, or a future emitter)
// see rules in the order they were declared.
type RuleSet struct {
	index *linkedhashmap.Map
}

// NewRuleSet creates an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{index: linkedhashmap.New()}
}

// Add inserts a rule, returning false if a rule with the same name is
// already present.
func (rs *RuleSet) Add(r *Rule) bool {
	if _, has := rs.index.Get(r.Name); has {
		return false
	}
	rs.index.Put(r.Name, r)
	return true
}

// Get looks up a rule by name.
func (rs *RuleSet) Get(name string) (*Rule, bool) {
	v, has := rs.index.Get(name)
	if !has {
		return nil, false
	}
	return v.(*Rule), true
}

// Ordered returns every rule in insertion order.
func (rs *RuleSet) Ordered() []*Rule {
	values := rs.index.Values()
	rules := make([]*Rule, len(values))
	for i, v := range values {
		rules[i] = v.(*Rule)
	}
	return rules
}

// Len reports the number of rules in the set.
func (rs *RuleSet) Len() int {
	return rs.index.Size()
}
