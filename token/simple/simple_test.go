package simple

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamMaterializesExpressionTokens(t *testing.T) {
	s, err := New("test", []byte("1 + foo"))
	require.NoError(t, err)

	assert.Equal(t, "1", s.TokenAt(0).Text)
	assert.Equal(t, Number, s.TokenAt(0).Kind)
	assert.Equal(t, "+", s.TokenAt(1).Text)
	assert.Equal(t, Op, s.TokenAt(1).Kind)
	assert.Equal(t, "foo", s.TokenAt(2).Text)
	assert.Equal(t, Name, s.TokenAt(2).Kind)
	assert.Equal(t, Endmarker, s.TokenAt(3).Kind)
	assert.Equal(t, s.EOF(), s.TokenAt(4).Kind)
}

func TestStreamSkipsWhitespaceAndComments(t *testing.T) {
	s, err := New("test", []byte("  1  # a comment\n  2"))
	require.NoError(t, err)

	assert.Equal(t, "1", s.TokenAt(0).Text)
	assert.Equal(t, "2", s.TokenAt(1).Text)
}

func TestStreamPastEndReturnsEOF(t *testing.T) {
	s, err := New("test", []byte("1"))
	require.NoError(t, err)

	assert.Equal(t, Number, s.TokenAt(0).Kind)
	assert.Equal(t, Endmarker, s.TokenAt(1).Kind)
	assert.Equal(t, s.EOF(), s.TokenAt(2).Kind)
	assert.Equal(t, s.EOF(), s.TokenAt(100).Kind)
}

func TestStreamAppendsSyntheticEndmarkerEvenForEmptyInput(t *testing.T) {
	s, err := New("test", []byte(""))
	require.NoError(t, err)

	assert.Equal(t, Endmarker, s.TokenAt(0).Kind)
	assert.Equal(t, s.EOF(), s.TokenAt(1).Kind)
}

func TestKindByName(t *testing.T) {
	s, err := New("test", []byte(""))
	require.NoError(t, err)

	k, ok := s.KindByName("NUMBER")
	assert.True(t, ok)
	assert.Equal(t, Number, k)

	k, ok = s.KindByName("ENDMARKER")
	assert.True(t, ok)
	assert.Equal(t, Endmarker, k)

	_, ok = s.KindByName("NOPE")
	assert.False(t, ok)
}
