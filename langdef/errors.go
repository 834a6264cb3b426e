package langdef

import (
	err "github.com/peglang/pego/errors"
	"github.com/peglang/pego/lexer"
)

// Error codes returned while parsing a grammar description file. These
// are grammar-time errors: the caller gets back *err.Error values, never
// a *ast.Grammar with holes in it.
const (
	LexError = err.ParseErrors + iota
	UnexpectedEofError
	UnexpectedTokenError
	DuplicateRuleNameError
	CutAtAlternativeStartError
	DuplicateBindingInAltError
	UnterminatedActionError
	MalformedDirectiveError
)

func lexError(e error) *err.Error {
	if ee, ok := e.(*err.Error); ok {
		return ee
	}
	return err.Format(LexError, "%s", e.Error())
}

func eofError(t *lexer.Token) *err.Error {
	return err.FormatPos(t, UnexpectedEofError, "unexpected end of grammar")
}

func unexpectedTokenError(t *lexer.Token, expected string) *err.Error {
	if expected == "" {
		return err.FormatPos(t, UnexpectedTokenError, "unexpected %q", t.Text())
	}
	return err.FormatPos(t, UnexpectedTokenError, "unexpected %q, expected %s", t.Text(), expected)
}

func duplicateRuleNameError(t *lexer.Token) *err.Error {
	return err.FormatPos(t, DuplicateRuleNameError, "rule %q already defined", t.Text())
}

func cutAtAlternativeStartError(t *lexer.Token) *err.Error {
	return err.FormatPos(t, CutAtAlternativeStartError, "cut (~) cannot be the first item of an alternative")
}

func duplicateBindingInAltError(t *lexer.Token) *err.Error {
	return err.FormatPos(t, DuplicateBindingInAltError, "binding %q already used in this alternative", t.Text())
}

func unterminatedActionError(t *lexer.Token) *err.Error {
	return err.FormatPos(t, UnterminatedActionError, "unterminated action block")
}

func malformedDirectiveError(t *lexer.Token) *err.Error {
	return err.FormatPos(t, MalformedDirectiveError, "malformed directive %q", t.Text())
}
