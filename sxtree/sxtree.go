// Package sxtree builds and navigates concrete syntax trees out of
// peval parse results: RuleNode non-terminals and TokenNode terminals,
// linked into a doubly-linked sibling list under their parent so callers
// can walk the tree without caring how deeply an alternative nested its
// items. FromValue turns peval's plain nested []any/token.Token values
// into such a tree, wrapping each []any in an anonymous non-terminal;
// Build is an ActionEval that returns a RuleNode named after the rule.
package sxtree

import (
	"github.com/peglang/pego/peval"
	"github.com/peglang/pego/token"
)

// Node is one tree element, terminal or not.
type Node interface {
	IsNonTerm() bool
	TypeName() string
	Token() token.Token
	Parent() NonTermNode
	Prev() Node
	Next() Node
	SetParent(NonTermNode)
	SetPrev(Node)
	SetNext(Node)
	Span() token.Span
}

// NonTermNode is a Node with children: the tree built for one rule's
// matched alternative.
type NonTermNode interface {
	Node
	FirstChild() Node
	LastChild() Node
	SetFirstChild(Node)
	AppendChild(Node)
}

// Ancestor walks level steps up from n (0 returns n's parent, 1 its
// grandparent, and so on).
func Ancestor(n Node, level int) Node {
	for n != nil && level >= 0 {
		n = n.Parent()
		level--
	}
	return n
}

// Children returns n's direct children left to right, or nil if n is a
// terminal.
func Children(n Node) []Node {
	if n == nil || !n.IsNonTerm() {
		return nil
	}
	var res []Node
	c := n.(NonTermNode).FirstChild()
	for c != nil {
		res = append(res, c)
		c = c.Next()
	}
	return res
}

// NthChild returns n's i-th child (0-based), or, for negative i, the
// i-th child counting back from the last (-1 is the last child).
func NthChild(n Node, i int) Node {
	if n == nil || !n.IsNonTerm() {
		return nil
	}
	nn := n.(NonTermNode)
	var c Node
	if i >= 0 {
		c = nn.FirstChild()
		for c != nil && i > 0 {
			c = c.Next()
			i--
		}
	} else {
		i++
		c = nn.LastChild()
		for c != nil && i < 0 {
			c = c.Prev()
			i++
		}
	}
	return c
}

// FirstTokenNode returns the leftmost terminal under n, or n itself if
// n is already a terminal.
func FirstTokenNode(n Node) Node {
	if n == nil || !n.IsNonTerm() {
		return n
	}
	c := n.(NonTermNode).FirstChild()
	for c != nil {
		if t := FirstTokenNode(c); t != nil {
			return t
		}
		c = c.Next()
	}
	return nil
}

// LastTokenNode returns the rightmost terminal under n, or n itself if
// n is already a terminal.
func LastTokenNode(n Node) Node {
	if n == nil || !n.IsNonTerm() {
		return n
	}
	c := n.(NonTermNode).LastChild()
	for c != nil {
		if t := LastTokenNode(c); t != nil {
			return t
		}
		c = c.Prev()
	}
	return nil
}

// NodeVisitor decides, for the node it's handed, whether Walk should
// descend into its children and whether it should continue to its
// next sibling afterward.
type NodeVisitor func(n Node) (walkChildren, walkSiblings bool)

// Walk performs a pre-order traversal of n and, when allowed by the
// visitor, its descendants.
func Walk(n Node, visitor NodeVisitor) {
	if n != nil {
		visitNode(n, visitor)
	}
}

func visitNode(n Node, v NodeVisitor) (keepGoing bool) {
	walkChildren, walkSiblings := v(n)
	if walkChildren && n.IsNonTerm() {
		c := n.(NonTermNode).FirstChild()
		for c != nil && walkChildren {
			walkChildren = visitNode(c, v)
			c = c.Next()
		}
	}
	return walkSiblings
}

// Detach unlinks n from its parent and siblings, leaving it as a
// standalone (sub)tree.
func Detach(n Node) {
	if n == nil || n.Parent() == nil {
		return
	}
	p, np, nn := n.Parent(), n.Prev(), n.Next()
	if np == nil {
		p.SetFirstChild(nn)
	} else {
		np.SetNext(nn)
		n.SetPrev(nil)
	}
	if nn != nil {
		nn.SetPrev(np)
		n.SetNext(nil)
	}
	n.SetParent(nil)
}

func appendSibling(prev, node Node) {
	Detach(node)
	next := prev.Next()
	node.SetParent(prev.Parent())
	node.SetPrev(prev)
	node.SetNext(next)
	prev.SetNext(node)
	if next != nil {
		next.SetPrev(node)
	}
}

type tokenNode struct {
	parent     NonTermNode
	prev, next Node
	tok        token.Token
}

// NewTokenNode wraps a matched token as a terminal tree node.
func NewTokenNode(tok token.Token) Node { return &tokenNode{tok: tok} }

func (n *tokenNode) IsNonTerm() bool        { return false }
func (n *tokenNode) TypeName() string       { return "" }
func (n *tokenNode) Token() token.Token     { return n.tok }
func (n *tokenNode) Parent() NonTermNode    { return n.parent }
func (n *tokenNode) Prev() Node             { return n.prev }
func (n *tokenNode) Next() Node             { return n.next }
func (n *tokenNode) Span() token.Span       { return n.tok.Span }
func (n *tokenNode) SetParent(p NonTermNode) { n.parent = p }
func (n *tokenNode) SetPrev(p Node)          { n.prev = p }
func (n *tokenNode) SetNext(nx Node)         { n.next = nx }

// ruleNode is a non-terminal: the subtree built for one matched
// alternative of a named rule.
type ruleNode struct {
	ruleName              string
	parent                NonTermNode
	prev, next             Node
	firstChild, lastChild  Node
}

// NewRuleNode creates an empty non-terminal node for ruleName; children
// are attached with AppendChild.
func NewRuleNode(ruleName string) NonTermNode {
	return &ruleNode{ruleName: ruleName}
}

func (n *ruleNode) IsNonTerm() bool     { return true }
func (n *ruleNode) TypeName() string    { return n.ruleName }
func (n *ruleNode) Token() token.Token  { return token.Token{} }
func (n *ruleNode) Parent() NonTermNode { return n.parent }
func (n *ruleNode) Prev() Node          { return n.prev }
func (n *ruleNode) Next() Node          { return n.next }
func (n *ruleNode) FirstChild() Node    { return n.firstChild }
func (n *ruleNode) LastChild() Node     { return n.lastChild }

func (n *ruleNode) SetParent(p NonTermNode) { n.parent = p }
func (n *ruleNode) SetPrev(p Node)          { n.prev = p }
func (n *ruleNode) SetNext(nx Node)         { n.next = nx }

func (n *ruleNode) SetFirstChild(c Node) {
	n.firstChild = c
	if n.lastChild == nil {
		n.lastChild = c
	}
	if c != nil {
		c.SetParent(n)
	}
}

func (n *ruleNode) AppendChild(c Node) {
	Detach(c)
	if n.firstChild == nil {
		n.SetFirstChild(c)
		return
	}
	appendSibling(n.lastChild, c)
	n.lastChild = c
}

// Span is the span of a rule node's first through last child, or a
// zero Span for an empty node.
func (n *ruleNode) Span() token.Span {
	if n.firstChild == nil {
		return token.Span{}
	}
	return token.Span{Start: FirstTokenNode(n).Span().Start, End: LastTokenNode(n).Span().End}
}

// Build is a peval.ActionEval that ignores any embedded action text and
// always produces a tree node: a RuleNode named after the rule, with
// children taken from the binding values only. Unbound items add no
// child, and since bindings is a map, the order of the children is not
// defined. peval calls an ActionEval only for alternatives that embed an
// action; cmd/peg's demo action hands whitespace-only actions to Build.
func Build(ruleName string, _ int, _ string, bindings map[string]any, _ token.Span) (any, error) {
	n := NewRuleNode(ruleName)
	for _, v := range bindings {
		appendValue(n, v)
	}
	return n, nil
}

func appendValue(n NonTermNode, v any) {
	switch x := v.(type) {
	case nil:
		return
	case token.Token:
		n.AppendChild(NewTokenNode(x))
	case Node:
		n.AppendChild(x)
	case []any:
		for _, e := range x {
			appendValue(n, e)
		}
	}
}

var _ peval.ActionEval = Build

// FromValue normalizes a peval result into a displayable Node tree.
// A Node (such as one Build produced) is returned as is, a token.Token
// becomes a TokenNode, and a []any, the value peval's default
// (no-action) synthesis produces, becomes an anonymous non-terminal of
// its converted elements. Any other value, such as a number computed by
// an embedded action, yields nil.
func FromValue(v any) Node {
	switch x := v.(type) {
	case nil:
		return nil
	case Node:
		return x
	case token.Token:
		return NewTokenNode(x)
	case []any:
		n := NewRuleNode("")
		for _, e := range x {
			if c := FromValue(e); c != nil {
				n.AppendChild(c)
			}
		}
		return n
	default:
		return nil
	}
}
