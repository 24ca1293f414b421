// internal/deck/deck_test.go
package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("AS")
	require.NoError(t, err)
	assert.Equal(t, "A", c.Rank)
	assert.Equal(t, "S", c.Suit)
	assert.Equal(t, "AS", c.Code())

	c, err = Parse("10H")
	require.NoError(t, err)
	assert.Equal(t, "10", c.Rank)
	assert.Equal(t, "H", c.Suit)

	for _, bad := range []string{"", "A", "1S", "AX", "ZZH", "10"} {
		_, err := Parse(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("5H", "5C"), "same rank")
	assert.True(t, Matches("5H", "KH"), "same suit")
	assert.False(t, Matches("5H", "KC"))
	assert.False(t, Matches("??", "KC"), "unparseable never matches")
}

func TestBuildDrawPile(t *testing.T) {
	pile, err := BuildDrawPile(1)
	require.NoError(t, err)
	assert.Len(t, pile, 52)

	seen := map[string]int{}
	for _, code := range pile {
		_, err := Parse(code)
		require.NoError(t, err)
		seen[code]++
	}
	assert.Len(t, seen, 52, "single deck has no duplicates")

	pile, err = BuildDrawPile(3)
	require.NoError(t, err)
	assert.Len(t, pile, 156)
	seen = map[string]int{}
	for _, code := range pile {
		seen[code]++
	}
	for code, n := range seen {
		assert.Equal(t, 3, n, "card %s should appear once per deck", code)
	}
}

func TestBuildDrawPileBounds(t *testing.T) {
	_, err := BuildDrawPile(0)
	assert.Error(t, err)
	_, err = BuildDrawPile(MaxDecks + 1)
	assert.Error(t, err)
	_, err = BuildDrawPile(MaxDecks)
	assert.NoError(t, err)
}
