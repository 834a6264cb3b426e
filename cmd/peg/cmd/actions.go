package cmd

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/peglang/pego/peval"
	"github.com/peglang/pego/sxtree"
	"github.com/peglang/pego/token"
)

// bindRefPattern matches a bound-item reference inside an embedded
// action, e.g. "$n" for a binding named n.
var bindRefPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)

// demoAction is peg run/repl's demo peval.ActionEval. peval calls it
// only for alternatives that embed an action, so action-less
// alternatives keep peval's default value; an action whose text is only
// whitespace gets sxtree.Build's tree node, and any other action is
// evaluated as a tiny "$a + $b"-style expression language over its
// bindings, enough to run spec-shaped scenarios end to end without a
// real target-language code generator.
func demoAction(rule string, alt int, action string, bindings map[string]any, span token.Span) (any, error) {
	expr := strings.TrimSpace(action)
	if expr == "" {
		return sxtree.Build(rule, alt, action, bindings, span)
	}
	return evalExpr(expr, bindings)
}

var _ peval.ActionEval = demoAction

// evalExpr evaluates a "$a op $b" or bare "$a" expression, where op is
// one of + - * /, against numeric token text or nested action results.
// It's a minimal stand-in for a generated action, not a general
// expression evaluator.
func evalExpr(expr string, bindings map[string]any) (any, error) {
	fields := strings.Fields(expr)
	switch len(fields) {
	case 1:
		return resolveOperand(fields[0], bindings)
	case 3:
		left, err := numericOperand(fields[0], bindings)
		if err != nil {
			return nil, err
		}
		right, err := numericOperand(fields[2], bindings)
		if err != nil {
			return nil, err
		}
		switch fields[1] {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			if right == 0 {
				return nil, fmt.Errorf("peg: division by zero evaluating %q", expr)
			}
			return left / right, nil
		default:
			return nil, fmt.Errorf("peg: unsupported operator %q in action %q", fields[1], expr)
		}
	default:
		return nil, fmt.Errorf("peg: unsupported action expression %q", expr)
	}
}

func resolveOperand(field string, bindings map[string]any) (any, error) {
	m := bindRefPattern.FindStringSubmatch(field)
	if m == nil {
		return nil, fmt.Errorf("peg: unrecognized action operand %q", field)
	}
	v, has := bindings[m[1]]
	if !has {
		return nil, fmt.Errorf("peg: action references unbound name %q", m[1])
	}
	return v, nil
}

func numericOperand(field string, bindings map[string]any) (float64, error) {
	v, err := resolveOperand(field, bindings)
	if err != nil {
		return 0, err
	}
	tok, ok := v.(token.Token)
	if !ok {
		return 0, fmt.Errorf("peg: operand %q is not a token", field)
	}
	return strconv.ParseFloat(tok.Text, 64)
}
