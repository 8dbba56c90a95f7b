package alphabet_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitflap/alphabet"
)

func TestDistance_Range(t *testing.T) {
	a := alphabet.MustNew(alphabet.Default)
	for _, from := range a.Runes() {
		for _, to := range a.Runes() {
			d, err := a.Distance(from, to)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, d, 0)
			assert.Less(t, d, a.Len())
			if from == to {
				assert.Zero(t, d)
			}
		}
	}
}

func TestDistance_Wraps(t *testing.T) {
	a := alphabet.MustNew("AB ")
	d, err := a.Distance(' ', 'B')
	require.NoError(t, err)
	assert.Equal(t, 2, d)

	d, err = a.Distance('A', ' ')
	require.NoError(t, err)
	assert.Equal(t, 2, d)
}

func TestDistance_LookupFailure(t *testing.T) {
	a := alphabet.MustNew("AB ")
	_, err := a.Distance('A', 'Z')
	require.Error(t, err)
	assert.True(t, errors.Is(err, alphabet.ErrLookupFailure))
}

func TestMaxDistance(t *testing.T) {
	a := alphabet.MustNew("AB ")
	steps, err := a.MaxDistance("A  ", "AB ")
	require.NoError(t, err)
	assert.Equal(t, 2, steps)

	_, err = a.MaxDistance("AB", "ABA")
	assert.Error(t, err)

	_, err = a.MaxDistance("AXA", "AAA")
	var le *alphabet.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Flap)
	assert.Equal(t, 'X', le.Char)
}
