// Package analyze computes the static properties peval needs from a
// parsed grammar: that every rule reference resolves, which rules can
// match without consuming a token, and which rules are left-recursive
// (and by which leader they're driven).
package analyze

import (
	"github.com/peglang/pego/ast"
)

// Run validates and annotates g in place, returning every grammar-time
// error found. Errors are aggregated rather than short-circuited: a
// grammar with three undefined rules reports all three in one call.
// Nullability and left-recursion analysis are skipped (not returned as
// a separate failure) if any reference fails to resolve, since both
// phases assume every RuleRef names a real rule.
func Run(g *ast.Grammar) []error {
	var errs []error

	rules := g.Rules.Ordered()
	nameIndex := make(map[string]int, len(rules))
	for i, r := range rules {
		nameIndex[r.Name] = i
	}

	undefined := findUndefinedRefs(rules, nameIndex)
	errs = append(errs, undefined...)

	if _, has := g.StartRule(); !has {
		errs = append(errs, noStartRuleError())
	}

	if len(undefined) > 0 {
		return errs
	}

	computeNullability(rules, nameIndex)
	computeLeftRecursion(rules, nameIndex)

	return errs
}

// findUndefinedRefs reports every distinct rule name referenced from
// somewhere in the grammar but never defined.
func findUndefinedRefs(rules []*ast.Rule, nameIndex map[string]int) []error {
	seen := map[string]bool{}
	var errs []error
	for _, r := range rules {
		walkRhs(r.Rhs, func(it ast.Item) {
			ref, ok := it.(*ast.RuleRef)
			if !ok {
				return
			}
			if _, has := nameIndex[ref.Name]; has || seen[ref.Name] {
				return
			}
			seen[ref.Name] = true
			errs = append(errs, undefinedRuleError(ref.Name))
		})
	}
	return errs
}
