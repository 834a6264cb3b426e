package analyze

import (
	"sort"

	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/peglang/pego/ast"
)

// computeLeftRecursion builds the left-call graph (rule A has an edge
// to rule B iff B can be entered without A having consumed a token
// first) and marks LeftRecursive/Leader on every rule in a non-trivial
// strongly connected component of that graph, or with a self-loop.
// Every leader, and every rule referenced from more than one static
// call site anywhere in the grammar, is marked Memoize.
func computeLeftRecursion(rules []*ast.Rule, nameIndex map[string]int) {
	n := len(rules)
	edges := make([][]int, n)
	for i, r := range rules {
		edges[i] = leftCallEdges(r, rules, nameIndex)
	}

	for _, scc := range tarjanSCC(edges) {
		leftRecursive := len(scc) > 1
		if !leftRecursive && len(scc) == 1 {
			self := scc[0]
			for _, e := range edges[self] {
				if e == self {
					leftRecursive = true
					break
				}
			}
		}
		if !leftRecursive {
			continue
		}

		for _, idx := range scc {
			rules[idx].LeftRecursive = true
		}

		leader := scc[0]
		for _, idx := range scc[1:] {
			if rules[idx].Name < rules[leader].Name {
				leader = idx
			}
		}
		rules[leader].Leader = true
		rules[leader].Memoize = true
	}

	counts := make(map[string]int, n)
	for _, r := range rules {
		walkRhs(r.Rhs, func(it ast.Item) {
			if ref, ok := it.(*ast.RuleRef); ok {
				counts[ref.Name]++
			}
		})
	}
	for _, r := range rules {
		if counts[r.Name] > 1 {
			r.Memoize = true
		}
	}
}

// leftCallEdges returns the rule indices directly left-reachable from
// r's body: the targets of every RuleRef that can be the very first
// thing r's evaluation tries, possibly after skipping a run of
// nullable items earlier in the same sequence.
func leftCallEdges(r *ast.Rule, rules []*ast.Rule, nameIndex map[string]int) []int {
	seen := map[int]bool{}
	var edges []int
	add := func(name string) {
		idx, has := nameIndex[name]
		if !has || seen[idx] {
			return
		}
		seen[idx] = true
		edges = append(edges, idx)
	}

	ruleNullable := func(name string) bool {
		idx, has := nameIndex[name]
		return has && rules[idx].Nullable
	}

	var names []string
	for _, alt := range r.Rhs.Alts {
		altNames, _ := leftCallsSeq(alt.Items, ruleNullable)
		names = append(names, altNames...)
	}
	for _, name := range names {
		add(name)
	}
	return edges
}

func leftCallsSeq(items []*ast.NamedItem, ruleNullable func(string) bool) ([]string, bool) {
	var names []string
	for _, ni := range items {
		n, nullable := leftCalls(ni.Item, ruleNullable)
		names = append(names, n...)
		if !nullable {
			return names, false
		}
	}
	return names, true
}

func leftCalls(it ast.Item, ruleNullable func(string) bool) ([]string, bool) {
	switch v := it.(type) {
	case *ast.RuleRef:
		return []string{v.Name}, ruleNullable(v.Name)
	case *ast.TokenRef, *ast.StringLit:
		return nil, false
	case *ast.Group:
		var names []string
		nullable := false
		for _, alt := range v.Rhs.Alts {
			altNames, altNullable := leftCallsSeq(alt.Items, ruleNullable)
			names = append(names, altNames...)
			if altNullable {
				nullable = true
			}
		}
		return names, nullable
	case *ast.Optional:
		names, _ := leftCalls(v.Item, ruleNullable)
		return names, true
	case *ast.ZeroOrMore:
		names, _ := leftCalls(v.Item, ruleNullable)
		return names, true
	case *ast.OneOrMore:
		return leftCalls(v.Item, ruleNullable)
	case *ast.Separated:
		return leftCalls(v.Item, ruleNullable)
	case *ast.PositiveLookahead:
		names, _ := leftCalls(v.Item, ruleNullable)
		return names, true
	case *ast.NegativeLookahead:
		names, _ := leftCalls(v.Item, ruleNullable)
		return names, true
	case *ast.Cut:
		return nil, true
	default:
		return nil, true
	}
}

type tarjanFrame struct {
	node     int
	edgeIdx  int
}

// tarjanSCC computes the strongly connected components of the graph
// described by edges (edges[i] lists i's successors), using an explicit
// stack rather than recursion so it isn't bounded by goroutine stack
// depth on large rule graphs.
func tarjanSCC(edges [][]int) [][]int {
	n := len(edges)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	counter := 0
	var sccs [][]int
	nodeStack := arraystack.New()

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		callStack := arraystack.New()
		index[start] = counter
		lowlink[start] = counter
		counter++
		nodeStack.Push(start)
		onStack[start] = true
		callStack.Push(&tarjanFrame{node: start})

		for !callStack.Empty() {
			top, _ := callStack.Peek()
			fr := top.(*tarjanFrame)
			v := fr.node

			if fr.edgeIdx < len(edges[v]) {
				w := edges[v][fr.edgeIdx]
				fr.edgeIdx++

				if index[w] == -1 {
					index[w] = counter
					lowlink[w] = counter
					counter++
					nodeStack.Push(w)
					onStack[w] = true
					callStack.Push(&tarjanFrame{node: w})
				} else if onStack[w] && index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
				continue
			}

			callStack.Pop()
			if top, ok := callStack.Peek(); ok {
				parent := top.(*tarjanFrame)
				if lowlink[v] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var scc []int
				for {
					wv, _ := nodeStack.Pop()
					w := wv.(int)
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sort.Ints(scc)
				sccs = append(sccs, scc)
			}
		}
	}

	return sccs
}
