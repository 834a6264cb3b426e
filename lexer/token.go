package lexer

import (
	"github.com/peglang/pego/source"
)

// Token is a lexeme together with its type and source position.
type Token struct {
	tokenType int
	typeName  string
	text      string
	source    *source.Source
	line, col int
}

func (t *Token) Type() int {
	return t.tokenType
}

func (t *Token) TypeName() string {
	return t.typeName
}

func (t *Token) Text() string {
	return t.text
}

func (t *Token) Source() *source.Source {
	return t.source
}

// SourceName implements errors.SourcePos.
func (t *Token) SourceName() string {
	if t.source == nil {
		return ""
	}
	return t.source.Name()
}

func (t *Token) Line() int {
	return t.line
}

func (t *Token) Col() int {
	return t.col
}

// SourcePos is satisfied by anything a token's position can be copied from.
type SourcePos interface {
	Source() *source.Source
	Line() int
	Col() int
}

// NewToken builds a Token carrying sp's position, or no position at all
// if sp is nil.
func NewToken(tokenType int, typeName, text string, sp SourcePos) *Token {
	if sp == nil {
		return &Token{tokenType, typeName, text, nil, 0, 0}
	}
	return &Token{tokenType, typeName, text, sp.Source(), sp.Line(), sp.Col()}
}

const (
	EofTokenType    = -2
	EoiTokenType    = -3
	LowestTokenType = -3
	EofTokenName    = "-end-of-file-"
	EoiTokenName    = "-end-of-input-"
)

// EofToken marks the end of one source in a queue; lexing continues with
// whatever source (if any) was queued after it.
func EofToken(s *source.Source) *Token {
	line := 0
	col := 0
	if s != nil {
		line, col = s.LineCol(s.Len())
	}
	return &Token{tokenType: EofTokenType, typeName: EofTokenName, source: s, line: line, col: col}
}

// EoiToken marks the end of the whole input queue.
func EoiToken() *Token {
	return &Token{tokenType: EoiTokenType, typeName: EoiTokenName}
}
