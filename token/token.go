// Package token defines the narrow, random-access token contract peval
// needs from whatever tokenizer feeds it: component E of the PEG core,
// deliberately opaque about how tokens are produced.
package token

// Kind identifies a token's lexical category. The zero value has no
// reserved meaning; each Stream implementation defines its own kinds
// and exposes the one it uses for end-of-input via EOF().
type Kind int

// Span marks a token's extent in whatever coordinate space the
// producing Stream uses (byte offsets, rune offsets, ...). It is opaque
// to the core beyond being copied into parse results.
type Span struct {
	Start, End int
}

// Token is one lexeme: its kind, literal text, and source span.
type Token struct {
	Kind Kind
	Text string
	Span Span
}

// Stream provides random access to a token sequence. Memoization in
// peval depends on being able to revisit any position more than once,
// so Stream is not an iterator: TokenAt must be a pure function of pos.
type Stream interface {
	// TokenAt returns the token starting at pos, or the stream's EOF
	// token if pos is at or past the end of input.
	TokenAt(pos int) Token

	// EOF returns the Kind used to mark end of input.
	EOF() Kind

	// KindByName resolves a grammar's TokenRef name (e.g. "NUMBER") to
	// the Kind this stream tags matching tokens with. peval calls this
	// once per distinct TokenRef name and caches the result.
	KindByName(name string) (Kind, bool)
}
