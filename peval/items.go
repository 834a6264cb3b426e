package peval

import (
	"context"
	"fmt"

	"github.com/peglang/pego/ast"
	"github.com/peglang/pego/token"
)

// evalRhs tries rhs's alternatives left to right (spec §4.3
// "Alternation"). A cut crossed by a failing alternative aborts the
// remaining siblings instead of continuing to try them.
func (e *Evaluator) evalRhs(ctx context.Context, rule *ast.Rule, rhs *ast.Rhs, pos int) (matchResult, error) {
	for altIdx, alt := range rhs.Alts {
		res, crossedCut, err := e.evalAlt(ctx, rule, altIdx, alt, pos)
		if err != nil {
			return matchResult{}, err
		}
		if res.ok {
			return res, nil
		}
		if crossedCut {
			break
		}
	}
	return matchResult{ok: false, end: pos}, nil
}

// evalAlt evaluates one alternative's items in sequence (spec §4.3
// "Sequencing"), collecting bindings and the ordered, action-relevant
// value list, then synthesizes the alternative's value on success.
func (e *Evaluator) evalAlt(ctx context.Context, rule *ast.Rule, altIdx int, alt *ast.Alt, pos int) (matchResult, bool, error) {
	cur := pos
	crossedCut := false
	var bindings map[string]any
	var ordered []any

	for _, ni := range alt.Items {
		if _, isCut := ni.Item.(*ast.Cut); isCut {
			crossedCut = true
			continue
		}

		res, err := e.evalItem(ctx, rule, ni.Item, cur)
		if err != nil {
			return matchResult{}, crossedCut, err
		}
		if !res.ok {
			return matchResult{ok: false, end: pos}, crossedCut, nil
		}
		cur = res.end

		if !isLookahead(ni.Item) {
			ordered = append(ordered, res.value)
		}
		if ni.Bind != "" {
			if bindings == nil {
				bindings = make(map[string]any)
			}
			bindings[ni.Bind] = res.value
		}
	}

	value, err := e.synthesizeValue(rule.Name, altIdx, alt, bindings, ordered, pos, cur)
	if err != nil {
		return matchResult{}, crossedCut, err
	}
	return matchResult{value: value, end: cur, ok: true}, crossedCut, nil
}

// synthesizeValue implements spec §4.3 "Action evaluation": an action,
// if given, is always called (even with zero bindings); otherwise the
// default is the sole item's value, or an ordered slice of every
// non-Cut, non-lookahead item's value when there's more than one.
func (e *Evaluator) synthesizeValue(ruleName string, altIdx int, alt *ast.Alt, bindings map[string]any, ordered []any, start, end int) (any, error) {
	if alt.Action != "" {
		if bindings == nil {
			bindings = map[string]any{}
		}
		return e.actions(ruleName, altIdx, alt.Action, bindings, e.spanFor(start, end))
	}
	switch len(ordered) {
	case 0:
		return nil, nil
	case 1:
		return ordered[0], nil
	default:
		return ordered, nil
	}
}

func (e *Evaluator) spanFor(start, end int) token.Span {
	if end <= start {
		s := e.tokens.TokenAt(start).Span.Start
		return token.Span{Start: s, End: s}
	}
	return token.Span{
		Start: e.tokens.TokenAt(start).Span.Start,
		End:   e.tokens.TokenAt(end - 1).Span.End,
	}
}

func isLookahead(it ast.Item) bool {
	switch it.(type) {
	case *ast.PositiveLookahead, *ast.NegativeLookahead:
		return true
	default:
		return false
	}
}

// evalItem dispatches on ast.Item's closed set of concrete kinds.
func (e *Evaluator) evalItem(ctx context.Context, rule *ast.Rule, it ast.Item, pos int) (matchResult, error) {
	switch v := it.(type) {
	case *ast.RuleRef:
		return e.invokeRule(ctx, v.Name, pos)

	case *ast.TokenRef:
		return e.matchTokenKind(v.Name, pos), nil

	case *ast.StringLit:
		return e.matchLiteral(v.Value, pos), nil

	case *ast.Group:
		return e.evalRhs(ctx, rule, v.Rhs, pos)

	case *ast.Optional:
		res, err := e.evalItem(ctx, rule, v.Item, pos)
		if err != nil {
			return matchResult{}, err
		}
		if res.ok {
			return matchResult{value: res.value, end: res.end, ok: true}, nil
		}
		return matchResult{value: nil, end: pos, ok: true}, nil

	case *ast.ZeroOrMore:
		values, end, err := e.evalRepeat(ctx, rule, v.Item, pos)
		if err != nil {
			return matchResult{}, err
		}
		return matchResult{value: values, end: end, ok: true}, nil

	case *ast.OneOrMore:
		values, end, err := e.evalRepeat(ctx, rule, v.Item, pos)
		if err != nil {
			return matchResult{}, err
		}
		if len(values) == 0 {
			return matchResult{ok: false, end: pos}, nil
		}
		return matchResult{value: values, end: end, ok: true}, nil

	case *ast.Separated:
		return e.evalSeparated(ctx, rule, v, pos)

	case *ast.PositiveLookahead:
		res, err := e.evalItem(ctx, rule, v.Item, pos)
		if err != nil {
			return matchResult{}, err
		}
		if res.ok {
			return matchResult{value: nil, end: pos, ok: true}, nil
		}
		return matchResult{ok: false, end: pos}, nil

	case *ast.NegativeLookahead:
		res, err := e.evalItem(ctx, rule, v.Item, pos)
		if err != nil {
			return matchResult{}, err
		}
		if res.ok {
			return matchResult{ok: false, end: pos}, nil
		}
		return matchResult{value: nil, end: pos, ok: true}, nil

	case *ast.Cut:
		return matchResult{value: nil, end: pos, ok: true}, nil

	default:
		return matchResult{}, fmt.Errorf("peval: unhandled item type %T", it)
	}
}

// evalRepeat matches item greedily, never backtracking into a shorter
// match (spec §4.3 "Repetition"); a zero-width match stops the loop so a
// nullable item can't repeat forever.
func (e *Evaluator) evalRepeat(ctx context.Context, rule *ast.Rule, item ast.Item, pos int) ([]any, int, error) {
	var values []any
	cur := pos
	for {
		res, err := e.evalItem(ctx, rule, item, cur)
		if err != nil {
			return nil, cur, err
		}
		if !res.ok || res.end <= cur {
			break
		}
		values = append(values, res.value)
		cur = res.end
	}
	return values, cur, nil
}

// evalSeparated matches item, then greedily (sep item) pairs, discarding
// separator values from the result; a trailing separator with no item
// after it is not consumed (the attempt backtracks to before that sep).
func (e *Evaluator) evalSeparated(ctx context.Context, rule *ast.Rule, v *ast.Separated, pos int) (matchResult, error) {
	first, err := e.evalItem(ctx, rule, v.Item, pos)
	if err != nil {
		return matchResult{}, err
	}
	if !first.ok {
		return matchResult{ok: false, end: pos}, nil
	}

	values := []any{first.value}
	cur := first.end
	for {
		sepRes, err := e.evalItem(ctx, rule, v.Sep, cur)
		if err != nil {
			return matchResult{}, err
		}
		if !sepRes.ok {
			break
		}
		itemRes, err := e.evalItem(ctx, rule, v.Item, sepRes.end)
		if err != nil {
			return matchResult{}, err
		}
		if !itemRes.ok {
			break
		}
		values = append(values, itemRes.value)
		cur = itemRes.end
	}
	return matchResult{value: values, end: cur, ok: true}, nil
}

// matchTokenKind matches a TokenRef against the current token's kind,
// resolved from its grammar-level name once and cached thereafter.
func (e *Evaluator) matchTokenKind(name string, pos int) matchResult {
	kind, has := e.resolveKind(name)
	if !has {
		e.recordExpected(pos, name)
		return matchResult{ok: false, end: pos}
	}
	tok := e.tokens.TokenAt(pos)
	if tok.Kind != kind || tok.Kind == e.tokens.EOF() {
		e.recordExpected(pos, name)
		return matchResult{ok: false, end: pos}
	}
	e.trackFurthest(pos + 1)
	return matchResult{value: tok, end: pos + 1, ok: true}
}

// matchLiteral matches a StringLit against the current token's literal
// text, verbatim (spec §4.4: terminal text compared against token text).
func (e *Evaluator) matchLiteral(value string, pos int) matchResult {
	tok := e.tokens.TokenAt(pos)
	if tok.Kind == e.tokens.EOF() || tok.Text != value {
		e.recordExpected(pos, fmt.Sprintf("%q", value))
		return matchResult{ok: false, end: pos}
	}
	e.trackFurthest(pos + 1)
	return matchResult{value: tok, end: pos + 1, ok: true}
}

func (e *Evaluator) resolveKind(name string) (token.Kind, bool) {
	if k, ok := e.kindCache[name]; ok {
		return k, true
	}
	k, ok := e.tokens.KindByName(name)
	if ok {
		if e.kindCache == nil {
			e.kindCache = make(map[string]token.Kind)
		}
		e.kindCache[name] = k
	}
	return k, ok
}

// trackFurthest records the furthest position any item has successfully
// reached: open question (b)'s "maximum pos observed by any successful
// item" heuristic for SyntaxError reporting.
func (e *Evaluator) trackFurthest(pos int) {
	if pos > e.furthestPos {
		e.furthestPos = pos
		e.expected.Clear()
	}
}

// recordExpected notes what a failed token/literal match wanted, but
// only if it's at least as far as the current furthest position —
// failures short of that point are uninteresting noise from an
// alternative that was always going to lose to a longer one.
func (e *Evaluator) recordExpected(pos int, what string) {
	if pos < e.furthestPos {
		return
	}
	if pos > e.furthestPos {
		e.furthestPos = pos
		e.expected.Clear()
	}
	e.expected.Add(what)
}
