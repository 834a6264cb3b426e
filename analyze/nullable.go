package analyze

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/peglang/pego/ast"
	"github.com/peglang/pego/internal/idset"
)

// computeNullability finds the least fixed point of "can this rule
// match without consuming any token" over the whole rule graph and
// sets Rule.Nullable accordingly. A gods/treeset records which rule
// indices are already queued for (re-)examination, so a dependency
// that fires twice before being processed doesn't queue twice; the
// actual worklist is an idset.Queue FIFO of rule indices.
func computeNullability(rules []*ast.Rule, nameIndex map[string]int) {
	n := len(rules)
	dependents := make([][]int, n)
	for i, r := range rules {
		for _, dep := range ruleDependencies(r, nameIndex) {
			dependents[dep] = append(dependents[dep], i)
		}
	}

	queued := treeset.NewWith(utils.IntComparator)
	work := idset.NewQueue()
	for i := 0; i < n; i++ {
		work.Push(i)
		queued.Add(i)
	}

	isNullable := func(idx int) bool {
		return rhsNullable(rules[idx].Rhs, func(name string) bool {
			return rules[nameIndex[name]].Nullable
		})
	}

	for {
		idx, ok := work.Pop()
		if !ok {
			break
		}
		queued.Remove(idx)

		newVal := isNullable(idx)
		if newVal == rules[idx].Nullable {
			continue
		}
		rules[idx].Nullable = newVal

		for _, dep := range dependents[idx] {
			if !queued.Contains(dep) {
				work.Push(dep)
				queued.Add(dep)
			}
		}
	}
}

// ruleDependencies returns the (deduplicated) set of rule indices r's
// body refers to, directly or through nested groups/repetitions.
func ruleDependencies(r *ast.Rule, nameIndex map[string]int) []int {
	seen := map[int]bool{}
	var deps []int
	walkRhs(r.Rhs, func(it ast.Item) {
		ref, ok := it.(*ast.RuleRef)
		if !ok {
			return
		}
		idx, has := nameIndex[ref.Name]
		if !has || seen[idx] {
			return
		}
		seen[idx] = true
		deps = append(deps, idx)
	})
	return deps
}

// rhsNullable reports whether rhs can match zero tokens, given the
// current nullability of referenced rules.
func rhsNullable(rhs *ast.Rhs, ruleNullable func(name string) bool) bool {
	for _, alt := range rhs.Alts {
		if altNullable(alt, ruleNullable) {
			return true
		}
	}
	return false
}

func altNullable(alt *ast.Alt, ruleNullable func(name string) bool) bool {
	for _, ni := range alt.Items {
		if !itemNullable(ni.Item, ruleNullable) {
			return false
		}
	}
	return true
}

func itemNullable(it ast.Item, ruleNullable func(name string) bool) bool {
	switch v := it.(type) {
	case *ast.RuleRef:
		return ruleNullable(v.Name)
	case *ast.TokenRef, *ast.StringLit:
		return false
	case *ast.Group:
		return rhsNullable(v.Rhs, ruleNullable)
	case *ast.Optional:
		return true
	case *ast.ZeroOrMore:
		return true
	case *ast.OneOrMore:
		return itemNullable(v.Item, ruleNullable)
	case *ast.Separated:
		return itemNullable(v.Item, ruleNullable)
	case *ast.PositiveLookahead:
		return true
	case *ast.NegativeLookahead:
		return true
	case *ast.Cut:
		return true
	default:
		return false
	}
}
