package lexmach

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var exprRules = []Rule{
	{Name: "WS", Pattern: `( |\t|\n)+`, Skip: true},
	{Name: "NUMBER", Pattern: `[0-9]+`},
	{Name: "NAME", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "PLUS", Pattern: `\+`},
	{Name: "STAR", Pattern: `\*`},
}

func TestStreamMaterializesTokens(t *testing.T) {
	a := assert.New(t)
	s, e := New("test", []byte("12 + foo"), exprRules)
	a.NoError(e)
	if e != nil {
		return
	}

	num, has := s.KindByName("NUMBER")
	a.True(has)
	plus, _ := s.KindByName("PLUS")
	name, _ := s.KindByName("NAME")

	tok0 := s.TokenAt(0)
	a.Equal(num, tok0.Kind)
	a.Equal("12", tok0.Text)

	tok1 := s.TokenAt(1)
	a.Equal(plus, tok1.Kind)

	tok2 := s.TokenAt(2)
	a.Equal(name, tok2.Kind)
	a.Equal("foo", tok2.Text)
}

func TestStreamSkipsWhitespace(t *testing.T) {
	a := assert.New(t)
	s, e := New("test", []byte("1   2"), exprRules)
	a.NoError(e)
	if e != nil {
		return
	}
	a.Equal("1", s.TokenAt(0).Text)
	a.Equal("2", s.TokenAt(1).Text)
}

func TestStreamEOF(t *testing.T) {
	a := assert.New(t)
	s, e := New("test", []byte("7"), exprRules)
	a.NoError(e)
	if e != nil {
		return
	}
	eofTok := s.TokenAt(5)
	a.Equal(s.EOF(), eofTok.Kind)
}

func TestKindByNameUnknown(t *testing.T) {
	a := assert.New(t)
	s, e := New("test", []byte(""), exprRules)
	a.NoError(e)
	if e != nil {
		return
	}
	_, has := s.KindByName("NOPE")
	a.False(has)
}
