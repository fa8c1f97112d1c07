package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMatchesEvaluate(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(8)
	require.NoError(t, err)

	cards := MustParseCards("As Ks Qs Js Ts 2c 3d")
	first := cache.Evaluate(cards)
	assert.Equal(t, Evaluate(cards), first)
	assert.Equal(t, 1, cache.Len())

	// Same set in another order hits the same entry.
	reordered := MustParseCards("3d 2c Ts Js Qs Ks As")
	second := cache.Evaluate(reordered)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	// Callers get their own copy.
	second.Best[0] = NewCard(Two, Hearts)
	assert.Equal(t, RoyalFlush, cache.Evaluate(cards).Category)
	assert.Equal(t, NewCard(Ace, Spades), cache.Evaluate(cards).Best[0])
}

func TestCacheBypassesDuplicates(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(8)
	require.NoError(t, err)

	cache.Evaluate(MustParseCards("As As Kd Qh Jc"))
	assert.Equal(t, 0, cache.Len())
}

func TestCacheEvicts(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(2)
	require.NoError(t, err)

	cache.Evaluate(MustParseCards("As Ks Qs Js Ts"))
	cache.Evaluate(MustParseCards("2c 3d 4h 5s 7c"))
	cache.Evaluate(MustParseCards("9c 9d 4h 5s 7c"))
	assert.Equal(t, 2, cache.Len())
}

func TestNewCacheRejectsZeroSize(t *testing.T) {
	t.Parallel()

	_, err := NewCache(0)
	assert.Error(t, err)
}
