// Package simple is a small regexp-based token.Stream, reusing
// pego/lexer to materialize an entire input into a slice up front so
// TokenAt is O(1) random access, exactly what peval's memoization
// needs. It exists to exercise peval in tests and the peg CLI demo, not
// as a production tokenizer (the real one is out of scope).
package simple

import (
	"regexp"

	"github.com/peglang/pego/lexer"
	"github.com/peglang/pego/source"
	"github.com/peglang/pego/token"
)

// Kind values produced by the default expression-language Stream.
const (
	Number token.Kind = iota + 1
	Name
	String
	Op
	Endmarker
	eof
)

var kindNames = map[string]token.Kind{
	"NUMBER":    Number,
	"NAME":      Name,
	"STRING":    String,
	"OP":        Op,
	"ENDMARKER": Endmarker,
}

var defaultRe = regexp.MustCompile(
	`(?s:[ \t\r\n\f]+|#[^\n]*|(\d+(?:\.\d+)?)|([A-Za-z_][A-Za-z0-9_]*)|('[^']*'|"[^"]*")|([-+*/%(),.:;=<>!&|^~\[\]{}]))`,
)

var defaultTypes = []lexer.TokenType{
	{Type: 0, TypeName: "NUMBER"},
	{Type: 1, TypeName: "NAME"},
	{Type: 2, TypeName: "STRING"},
	{Type: 3, TypeName: "OP"},
}

// Stream is a materialized token.Stream produced by scanning an entire
// source with a fixed regexp-based lexer.
type Stream struct {
	tokens []token.Token
	end    token.Token
}

// New scans src's content with pego/lexer's default expression tokens
// (NUMBER, NAME, STRING, OP) and returns a ready-to-use Stream.
func New(name string, content []byte) (*Stream, error) {
	return NewWith(name, content, defaultRe, defaultTypes)
}

// NewWith scans src's content with a caller-supplied regexp/type table,
// letting callers of the demo CLI point peval at a different concrete
// token vocabulary without leaving the package.
func NewWith(name string, content []byte, re *regexp.Regexp, types []lexer.TokenType) (*Stream, error) {
	l := lexer.New(re, types)
	q := source.NewQueue()
	q.Append(source.New(name, content))

	var tokens []token.Token
	pos := 0
	for {
		t, e := l.Next(q)
		if e != nil {
			return nil, e
		}
		if t.Type() == lexer.EoiTokenType {
			break
		}
		if t.Type() == lexer.EofTokenType {
			continue
		}

		kind, has := kindNames[t.TypeName()]
		if !has {
			kind = eof
		}
		tokens = append(tokens, token.Token{
			Kind: kind,
			Text: t.Text(),
			Span: token.Span{Start: pos, End: pos + len(t.Text())},
		})
		pos += len(t.Text())
	}

	// Every grammar in spec.md's concrete scenarios ends its start rule
	// with a literal ENDMARKER token reference, matching pegen's own
	// tokenizer; append a synthetic zero-width ENDMARKER so those
	// grammars can be driven end to end through this demo stream. It is
	// a genuine token at the final position, distinct from eof, the
	// sentinel Kind TokenAt returns once past it.
	tokens = append(tokens, token.Token{
		Kind: Endmarker,
		Span: token.Span{Start: pos, End: pos},
	})

	return &Stream{
		tokens: tokens,
		end:    token.Token{Kind: eof, Span: token.Span{Start: pos, End: pos}},
	}, nil
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
	return eof
}

// KindByName implements token.Stream.
func (s *Stream) KindByName(name string) (token.Kind, bool) {
	k, has := kindNames[name]
	return k, has
}
