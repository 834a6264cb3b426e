package peval

import (
	"sort"

	"github.com/peglang/pego/ast"
)

// buildSCCGroups recovers, for every leader rule analyze.Run elected,
// the full set of rule names sharing its left-recursive SCC. ast.Rule
// only carries the Leader/LeftRecursive booleans (component A is
// otherwise a verbatim model of spec §3), not membership, so peval
// rebuilds the left-call graph itself and walks it from each leader.
//
// This walk only ever follows edges between rules already flagged
// LeftRecursive, so it can occasionally pull in a second, downstream
// left-recursive SCC that the leader's SCC calls into but isn't mutually
// reachable with; invalidating that SCC's memo entries too is wasted
// work, never wrong, so the over-approximation is left as is.
func buildSCCGroups(g *ast.Grammar) (sccMembers map[string][]string, ruleLeader map[string]string) {
	rules := g.Rules.Ordered()
	edges := make(map[string][]string, len(rules))
	for _, r := range rules {
		edges[r.Name] = leftCallNames(g, r)
	}

	sccMembers = make(map[string][]string)
	ruleLeader = make(map[string]string)

	for _, r := range rules {
		if !r.Leader {
			continue
		}

		visited := map[string]bool{r.Name: true}
		queue := []string{r.Name}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, next := range edges[cur] {
				nr, has := g.Rules.Get(next)
				if !has || !nr.LeftRecursive || visited[next] {
					continue
				}
				visited[next] = true
				queue = append(queue, next)
			}
		}

		members := make([]string, 0, len(visited))
		for name := range visited {
			members = append(members, name)
			ruleLeader[name] = r.Name
		}
		sort.Strings(members)
		sccMembers[r.Name] = members
	}

	return sccMembers, ruleLeader
}

// leftCallNames returns the rule names directly left-reachable from r's
// body: the same "without consuming" reachability analyze's left-call
// graph uses, recomputed here in name-keyed form rather than analyze's
// index-keyed one since the two packages need different shapes of the
// same fact and analyze's version is unexported.
func leftCallNames(g *ast.Grammar, r *ast.Rule) []string {
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if seen[n] {
			return
		}
		seen[n] = true
		names = append(names, n)
	}

	ruleNullable := func(name string) bool {
		rr, has := g.Rules.Get(name)
		return has && rr.Nullable
	}

	for _, alt := range r.Rhs.Alts {
		for _, ni := range alt.Items {
			n, nullable := leftCallsOne(ni.Item, ruleNullable)
			for _, x := range n {
				add(x)
			}
			if !nullable {
				break
			}
		}
	}
	return names
}

func leftCallsOne(it ast.Item, ruleNullable func(string) bool) ([]string, bool) {
	switch v := it.(type) {
	case *ast.RuleRef:
		return []string{v.Name}, ruleNullable(v.Name)
	case *ast.TokenRef, *ast.StringLit:
		return nil, false
	case *ast.Group:
		var names []string
		nullable := false
		for _, alt := range v.Rhs.Alts {
			var altNullable bool
			var altNames []string
			for _, ni := range alt.Items {
				n, nl := leftCallsOne(ni.Item, ruleNullable)
				altNames = append(altNames, n...)
				altNullable = nl
				if !nl {
					break
				}
			}
			names = append(names, altNames...)
			if altNullable {
				nullable = true
			}
		}
		return names, nullable
	case *ast.Optional:
		names, _ := leftCallsOne(v.Item, ruleNullable)
		return names, true
	case *ast.ZeroOrMore:
		names, _ := leftCallsOne(v.Item, ruleNullable)
		return names, true
	case *ast.OneOrMore:
		return leftCallsOne(v.Item, ruleNullable)
	case *ast.Separated:
		return leftCallsOne(v.Item, ruleNullable)
	case *ast.PositiveLookahead:
		names, _ := leftCallsOne(v.Item, ruleNullable)
		return names, true
	case *ast.NegativeLookahead:
		names, _ := leftCallsOne(v.Item, ruleNullable)
		return names, true
	case *ast.Cut:
		return nil, true
	default:
		return nil, true
	}
}
