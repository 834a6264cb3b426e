// Package peval is the PEG evaluator: a deterministic, position-indexed,
// memoizing recursive-descent machine that walks an analyzed ast.Grammar
// against a token.Stream. It is what a generated parser must behave
// like; this package is a reference implementation of that contract; it
// does not generate code.
package peval

import (
	"context"
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/peglang/pego/ast"
	"github.com/peglang/pego/internal/metrics"
	"github.com/peglang/pego/token"
)

// ActionEval evaluates an alternative's embedded action expression. It is
// called only when Alt.Action is non-empty; default-value synthesis for
// action-less alternatives happens inside peval (see synthesizeValue).
type ActionEval func(ruleName string, altIndex int, action string,
	bindings map[string]any, span token.Span) (any, error)

// matchResult is the Match(value, newPos)/Fail discipline of spec §4.3,
// folded into one struct: ok distinguishes a Fail (value/end undefined)
// from a Match.
type matchResult struct {
	value any
	end   int
	ok    bool
}

type frame struct {
	rule string
	pos  int
}

// Evaluator holds everything needed to run one or more parses against the
// same grammar: the analyzed Grammar, the token source, the action
// callback, and the memo table plus seed-growing bookkeeping that the
// evaluation algorithm mutates as it runs. It is not safe for concurrent
// use by multiple goroutines against the same memo table; Parse owns it
// single-threaded for the duration of one call, per §5's single-owner
// memo contract.
type Evaluator struct {
	g       *ast.Grammar
	tokens  token.Stream
	actions ActionEval

	memo map[memoKey]*memoEntry

	callStack *arraystack.Stack

	sccMembers map[string][]string
	ruleLeader map[string]string

	kindCache map[string]token.Kind

	furthestPos int
	expected    *arraylist.List

	metrics *metrics.Registry
}

// New builds an Evaluator for g, which must already have been run through
// analyze.Run (Leader/LeftRecursive/Nullable/Memoize flags set, every
// RuleRef resolved) — New does not re-validate the grammar.
func New(g *ast.Grammar, tokens token.Stream, actions ActionEval) (*Evaluator, error) {
	if _, has := g.StartRule(); !has {
		return nil, fmt.Errorf("peval: grammar has no start rule")
	}

	e := &Evaluator{
		g:         g,
		tokens:    tokens,
		actions:   actions,
		memo:      make(map[memoKey]*memoEntry),
		callStack: arraystack.New(),
		expected:  arraylist.New(),
	}
	e.sccMembers, e.ruleLeader = buildSCCGroups(g)
	return e, nil
}

// WithMetrics attaches a metrics registry that Parse and the seed-growing
// loop report counters to. A nil reg (the default) makes every counter
// increment a no-op.
func (e *Evaluator) WithMetrics(reg *metrics.Registry) *Evaluator {
	e.metrics = reg
	return e
}

// Parse runs the grammar's start rule against the whole token stream.
// Success requires the start rule to match and consume every token up to
// EOF (spec §6's exit condition); anything else is reported as a single
// SyntaxError carrying the furthest position reached and, best-effort,
// what was expected there.
func (e *Evaluator) Parse(ctx context.Context) (any, error) {
	e.metrics.IncParse()

	start, has := e.g.StartRule()
	if !has {
		return nil, fmt.Errorf("peval: grammar has no start rule")
	}

	res, err := e.invokeRule(ctx, start.Name, 0)
	if err != nil {
		return nil, err
	}

	if res.ok && e.tokens.TokenAt(res.end).Kind == e.tokens.EOF() {
		return res.value, nil
	}

	return nil, e.buildSyntaxError()
}
