package alphabet_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitflap/alphabet"
)

func TestNew_Default(t *testing.T) {
	a, err := alphabet.New(alphabet.Default)
	require.NoError(t, err)
	require.Equal(t, 42, a.Len())
	assert.Equal(t, 'A', a.First())
	assert.True(t, a.HasSpace())

	i, ok := a.Index('0')
	require.True(t, ok)
	assert.Equal(t, 26, i)
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		chars string
	}{
		{"empty", ""},
		{"duplicate", "ABCA"},
		{"newline", "AB\n"},
		{"bad utf8", "A\xffB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alphabet.New(tt.chars)
			require.Error(t, err)
			assert.True(t, errors.Is(err, alphabet.ErrInvalidAlphabet))
		})
	}
}

func TestAt_Wraps(t *testing.T) {
	a := alphabet.MustNew("AB ")
	assert.Equal(t, 'A', a.At(3))
	assert.Equal(t, ' ', a.At(-1))
	assert.Equal(t, 'B', a.At(7))
}

func TestSubstitute(t *testing.T) {
	a := alphabet.MustNew("ABCÄ")
	r, ok := a.Substitute('b')
	require.True(t, ok)
	assert.Equal(t, 'B', r)

	r, ok = a.Substitute('ä')
	require.True(t, ok)
	assert.Equal(t, 'Ä', r)

	_, ok = a.Substitute('x')
	assert.False(t, ok)
	_, ok = a.Substitute('1')
	assert.False(t, ok)

	lowerOnly := alphabet.MustNew("abc")
	r, ok = lowerOnly.Substitute('C')
	require.True(t, ok)
	assert.Equal(t, 'c', r)
}

func TestRepeatAndRunes(t *testing.T) {
	a := alphabet.MustNew("XY")
	assert.Equal(t, "XXX", a.Repeat(3))
	rs := a.Runes()
	rs[0] = 'Z'
	assert.Equal(t, "XY", a.String(), "Runes must return a copy")
}
