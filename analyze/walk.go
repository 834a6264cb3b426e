package analyze

import (
	"github.com/peglang/pego/ast"
)

// walkRhs visits every item in every alternative of rhs, recursing into
// groups and wrapped items. visit is called for the item itself before
// any recursion into its children.
func walkRhs(rhs *ast.Rhs, visit func(ast.Item)) {
	for _, alt := range rhs.Alts {
		for _, ni := range alt.Items {
			walkItem(ni.Item, visit)
		}
	}
}

func walkItem(it ast.Item, visit func(ast.Item)) {
	visit(it)
	switch v := it.(type) {
	case *ast.Group:
		walkRhs(v.Rhs, visit)
	case *ast.Optional:
		walkItem(v.Item, visit)
	case *ast.ZeroOrMore:
		walkItem(v.Item, visit)
	case *ast.OneOrMore:
		walkItem(v.Item, visit)
	case *ast.Separated:
		walkItem(v.Item, visit)
		walkItem(v.Sep, visit)
	case *ast.PositiveLookahead:
		walkItem(v.Item, visit)
	case *ast.NegativeLookahead:
		walkItem(v.Item, visit)
	}
}
