package poker

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of memoized evaluations.
const DefaultCacheSize = 16384

// Cache memoizes Evaluate keyed by the set of cards, so the same
// hole and board combination is scored once per session.
type Cache struct {
	entries *lru.Cache[uint64, HandResult]
}

// NewCache creates a cache holding at most size evaluations.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[uint64, HandResult](size)
	if err != nil {
		return nil, fmt.Errorf("create evaluation cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Evaluate returns the cached result for the card set, computing it on a miss.
// Sets with duplicate or invalid cards bypass the cache.
func (c *Cache) Evaluate(cards []Card) HandResult {
	key, ok := setKey(cards)
	if !ok {
		return Evaluate(cards)
	}
	if r, hit := c.entries.Get(key); hit {
		return r.clone()
	}
	r := Evaluate(cards)
	c.entries.Add(key, r)
	return r.clone()
}

// Len returns the number of cached evaluations
func (c *Cache) Len() int {
	return c.entries.Len()
}

func setKey(cards []Card) (uint64, bool) {
	var key uint64
	for _, card := range cards {
		if !card.IsValid() {
			return 0, false
		}
		bit := uint64(1) << card.Index()
		if key&bit != 0 {
			return 0, false
		}
		key |= bit
	}
	return key, true
}
