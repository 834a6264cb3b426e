package peval

import (
	"context"
	"fmt"

	"github.com/peglang/pego/ast"
)

// invokeRule implements spec §4.3's rule-invocation algorithm. ctx is
// checked here, once per call, so Parse can be cancelled at any rule
// invocation, including the ones made while growSeed re-evaluates a
// leader's body; growSeed's own loop does not check ctx between
// iterations (it evaluates the body directly, not through invokeRule).
func (e *Evaluator) invokeRule(ctx context.Context, name string, pos int) (matchResult, error) {
	select {
	case <-ctx.Done():
		return matchResult{}, ctx.Err()
	default:
	}

	key := memoKey{name, pos}
	if entry, has := e.memo[key]; has {
		if entry.inProgress {
			rule, _ := e.g.Rules.Get(name)
			switch {
			case rule.Leader:
				return matchResult{value: entry.value, end: entry.end, ok: entry.ok}, nil
			case rule.LeftRecursive:
				return matchResult{ok: false, end: pos}, nil
			default:
				return matchResult{}, &UnexpectedLeftRecursionError{Rule: name, Chain: e.callChain()}
			}
		}
		if entry.ok {
			e.metrics.IncMemoHit()
		}
		return matchResult{value: entry.value, end: entry.end, ok: entry.ok}, nil
	}

	rule, has := e.g.Rules.Get(name)
	if !has {
		return matchResult{}, fmt.Errorf("peval: rule %q not found", name)
	}

	if rule.Leader {
		return e.growSeed(ctx, rule, pos)
	}

	e.memo[key] = &memoEntry{inProgress: true, end: pos}
	e.callStack.Push(frame{name, pos})
	res, err := e.evalRhs(ctx, rule, rule.Rhs, pos)
	e.callStack.Pop()
	if err != nil {
		delete(e.memo, key)
		return matchResult{}, err
	}

	if rule.Memoize {
		e.memo[key] = &memoEntry{value: res.value, end: res.end, ok: res.ok}
	} else {
		delete(e.memo, key)
	}
	return res, nil
}

// growSeed runs the seed-growing protocol for a leader rule (spec §4.3
// step 2 / §5): install a failing seed, repeatedly re-evaluate the body
// at p, and keep the result only while it strictly extends end_pos,
// invalidating the rest of the active SCC's memo entries beyond p after
// every improving iteration since they may have been computed against an
// obsolete seed.
func (e *Evaluator) growSeed(ctx context.Context, rule *ast.Rule, pos int) (matchResult, error) {
	key := memoKey{rule.Name, pos}
	e.memo[key] = &memoEntry{inProgress: true, ok: false, end: pos}

	e.callStack.Push(frame{rule.Name, pos})
	for {
		res, err := e.evalRhs(ctx, rule, rule.Rhs, pos)
		if err != nil {
			e.callStack.Pop()
			delete(e.memo, key)
			return matchResult{}, err
		}

		prev := e.memo[key]
		// A match no longer than the previous seed (including a match of
		// exactly p, the empty initial Fail seed) ends growth: the
		// previous seed is the final result, per spec §4.3 step 2.
		if !res.ok || res.end <= prev.end {
			break
		}

		e.memo[key] = &memoEntry{value: res.value, end: res.end, ok: true, inProgress: true}
		e.invalidateSCC(rule.Name, pos)
		e.metrics.IncSeedGrowIteration()
	}
	e.callStack.Pop()

	final := e.memo[key]
	final.inProgress = false
	return matchResult{value: final.value, end: final.end, ok: final.ok}, nil
}

// invalidateSCC clears every memo entry at a position strictly greater
// than pos for every rule in leaderName's SCC (itself included), since
// those entries may have been computed while evaluating against a seed
// that has since grown.
func (e *Evaluator) invalidateSCC(leaderName string, pos int) {
	members := e.sccMembers[leaderName]
	if len(members) == 0 {
		return
	}
	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	for k := range e.memo {
		if k.pos > pos && memberSet[k.rule] {
			delete(e.memo, k)
		}
	}
}
