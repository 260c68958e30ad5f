package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kobzarvs/funcsep/internal/document"
)

func sel(l1, c1, l2, c2 int) Selection {
	return Selection{
		Start: document.Position{Line: l1, Character: c1},
		End:   document.Position{Line: l2, Character: c2},
	}
}

func TestEmptyScopeIsUnrestricted(t *testing.T) {
	s := Compute(nil)
	assert.Empty(t, s)
	assert.True(t, s.Contains(0))
	assert.True(t, s.Contains(1 << 20))

	s = Compute([]Selection{sel(4, 2, 4, 2)})
	assert.Empty(t, s)
}

func TestEndColumnZeroIsClamped(t *testing.T) {
	s := Compute([]Selection{sel(10, 0, 20, 0)})
	require.Equal(t, Scope{{Start: 10, End: 19}}, s)
	assert.True(t, s.Contains(15))
	assert.True(t, s.Contains(19))
	assert.False(t, s.Contains(20))
	assert.False(t, s.Contains(25))
	assert.False(t, s.Contains(9))
}

func TestSingleLineSelectionAtColumnZero(t *testing.T) {
	s := Compute([]Selection{sel(7, 0, 7, 3)})
	assert.Equal(t, Scope{{Start: 7, End: 7}}, s)
}

func TestReversedAndMergedSelections(t *testing.T) {
	s := Compute([]Selection{
		sel(30, 4, 25, 1),
		sel(2, 1, 5, 3),
		sel(4, 0, 8, 1),
		sel(40, 0, 41, 0),
	})
	assert.Equal(t, Scope{{2, 8}, {25, 30}, {40, 40}}, s)
	assert.True(t, s.ContainsAny(1, 27))
	assert.False(t, s.ContainsAny(9, 31, 41))
}

func TestParse(t *testing.T) {
	got, err := Parse("10-20")
	require.NoError(t, err)
	assert.Equal(t, Scope{{9, 19}}, Compute([]Selection{got}))

	got, err = Parse("11:0-21:0")
	require.NoError(t, err)
	assert.Equal(t, Scope{{10, 19}}, Compute([]Selection{got}))

	got, err = Parse("5")
	require.NoError(t, err)
	assert.Equal(t, Scope{{4, 4}}, Compute([]Selection{got}))

	for _, bad := range []string{"", "x", "0-3", "3-y", "3:-1-4"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}
