package peval

import (
	"fmt"
	"strings"
)

// SyntaxError is the single outward-visible parse-time failure (spec §7):
// internal Fail is plain control flow and never escapes Parse as an
// error. Pos is the furthest token position reached by any successful
// item match; Expected is a best-effort, possibly-empty list of what
// would have matched there.
type SyntaxError struct {
	Pos      int
	Expected []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("syntax error at token %d", e.Pos)
	}
	return fmt.Sprintf("syntax error at token %d, expected one of: %s", e.Pos, strings.Join(e.Expected, ", "))
}

// UnexpectedLeftRecursionError signals a rule was re-entered at the same
// position while already in progress, but analyze never flagged it as a
// leader or a left-recursive SCC member — a sign the grammar reaching
// peval was never run through analyze.Run, or was mutated after.
type UnexpectedLeftRecursionError struct {
	Rule  string
	Chain []string
}

func (e *UnexpectedLeftRecursionError) Error() string {
	if len(e.Chain) == 0 {
		return fmt.Sprintf("unexpected left recursion in rule %q", e.Rule)
	}
	return fmt.Sprintf("unexpected left recursion in rule %q (call chain: %s)", e.Rule, strings.Join(e.Chain, " -> "))
}

func (e *Evaluator) buildSyntaxError() *SyntaxError {
	values := e.expected.Values()
	expected := make([]string, len(values))
	for i, v := range values {
		expected[i] = v.(string)
	}
	return &SyntaxError{Pos: e.furthestPos, Expected: expected}
}

func (e *Evaluator) callChain() []string {
	values := e.callStack.Values()
	chain := make([]string, len(values))
	for i, v := range values {
		chain[i] = v.(frame).rule
	}
	return chain
}
