package peval

import (
	"github.com/peglang/pego/token"
)

const (
	kindNumber token.Kind = iota + 1
	kindName
	kindOp
	kindEndmarker
	kindEOF
)

var testKindNames = map[string]token.Kind{
	"NUMBER":    kindNumber,
	"NAME":      kindName,
	"OP":        kindOp,
	"ENDMARKER": kindEndmarker,
}

// testStream is a hand-built token.Stream for exercising peval against
// the exact NUMBER/NAME/ENDMARKER vocabulary spec.md's concrete
// scenarios use, without needing a real lexer for a handful of tokens.
type testStream struct {
	tokens []token.Token
}

func newTestStream(toks ...token.Token) *testStream {
	return &testStream{tokens: toks}
}

func num(text string) token.Token  { return token.Token{Kind: kindNumber, Text: text} }
func name(text string) token.Token { return token.Token{Kind: kindName, Text: text} }
func op(text string) token.Token   { return token.Token{Kind: kindOp, Text: text} }
func end() token.Token             { return token.Token{Kind: kindEndmarker} }

func (s *testStream) TokenAt(pos int) token.Token {
	if pos < 0 || pos >= len(s.tokens) {
		return token.Token{Kind: kindEOF}
	}
	return s.tokens[pos]
}

func (s *testStream) EOF() token.Kind { return kindEOF }

func (s *testStream) KindByName(n string) (token.Kind, bool) {
	k, has := testKindNames[n]
	return k, has
}

// leaves flattens a peval result tree down to its leaf tokens' text,
// in left-to-right order, skipping placeholder tokens (blank text, used
// for ENDMARKER and unmatched Optionals) so assertions can focus on the
// meaningful token sequence regardless of how default-action synthesis
// nested the surrounding sentinel items.
func leaves(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case token.Token:
		if x.Text == "" {
			return nil
		}
		return []string{x.Text}
	case []any:
		var out []string
		for _, e := range x {
			out = append(out, leaves(e)...)
		}
		return out
	default:
		return nil
	}
}
