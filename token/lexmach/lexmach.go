// Package lexmach adapts github.com/timtadh/lexmachine's DFA-backed
// scanner to a token.Stream, for grammars whose token vocabulary needs
// real regular-expression classes (keywords, escapes) rather than the
// single combined pattern token/simple builds its lexer.Lexer from.
package lexmach

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/peglang/pego/token"
)

// Rule describes one lexmachine pattern: Name is the grammar-facing
// token kind name (what a TokenRef in a .peg file spells), Pattern is
// a lexmachine/RE2-flavored regexp, and Skip marks patterns (whitespace,
// comments) that are matched and discarded rather than turned into a
// token in the materialized stream.
type Rule struct {
	Name    string
	Pattern string
	Skip    bool
}

// Stream is a materialized token.Stream produced by running a
// lexmachine scanner over content to completion up front, exactly as
// token/simple does, so TokenAt is O(1) random access.
type Stream struct {
	tokens []token.Token
	end    token.Token
	names  map[string]token.Kind
}

// New compiles rules into a lexmachine DFA and scans content with it,
// in order: rules earlier in the slice win ties the same way
// lexmachine itself breaks them (longest match, then earliest rule).
func New(name string, content []byte, rules []Rule) (*Stream, error) {
	lex := lexmachine.NewLexer()
	names := make(map[string]token.Kind, len(rules))

	for i, r := range rules {
		kind := token.Kind(i + 1)
		names[r.Name] = kind
		if r.Skip {
			lex.Add([]byte(r.Pattern), skipAction)
			continue
		}
		lex.Add([]byte(r.Pattern), makeAction(kind))
	}

	if e := lex.Compile(); e != nil {
		return nil, fmt.Errorf("%s: compiling lexmachine scanner: %w", name, e)
	}

	scanner, e := lex.Scanner(content)
	if e != nil {
		return nil, fmt.Errorf("%s: starting lexmachine scanner: %w", name, e)
	}

	var tokens []token.Token
	for {
		tok, err, eof := scanner.Next()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err.(error))
		}
		if eof {
			break
		}
		if tok == nil {
			continue
		}
		lt := tok.(*lexmachine.Token)
		tokens = append(tokens, token.Token{
			Kind: token.Kind(lt.Type),
			Text: string(lt.Lexeme),
			Span: token.Span{Start: lt.StartColumn, End: lt.EndColumn},
		})
	}

	end := token.Span{Start: len(content), End: len(content)}
	return &Stream{
		tokens: tokens,
		end:    token.Token{Kind: eofKind, Span: end},
		names:  names,
	}, nil
}

// eofKind is reserved (kind 0, which no Rule above ever assigns since
// rule indices start at 1) so EOF never collides with a real kind.
const eofKind = token.Kind(0)

func makeAction(kind token.Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(kind), string(m.Bytes), m), nil
	}
}

func skipAction(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return nil, nil
}

// TokenAt implements token.Stream.
func (s *Stream) TokenAt(pos int) token.Token {
	if pos < 0 || pos >= len(s.tokens) {
		return s.end
	}
	return s.tokens[pos]
}

// EOF implements token.Stream.
func (s *Stream) EOF() token.Kind {
	return eofKind
}

// KindByName implements token.Stream.
func (s *Stream) KindByName(name string) (token.Kind, bool) {
	k, has := s.names[name]
	return k, has
}
