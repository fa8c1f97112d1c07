package poker

import (
	"cmp"
	"slices"
)

// Category is the hand category, ordered from weakest to strongest.
// Incomplete is the sentinel for fewer than five cards.
type Category uint8

const (
	Incomplete Category = iota
	HighCard
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = [...]string{
	Incomplete:    "Incomplete",
	HighCard:      "High Card",
	OnePair:       "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// categoryWeight dominates the largest possible kicker sum (14.14141414e8).
const categoryWeight int64 = 10_000_000_000

// HandResult is the evaluation of the best five-card hand.
//
// Score orders hands totally: Category*1e10 plus each kicker value
// weighted by 100^(4-i). Kickers holds the tie-break values by
// significance and Best the five cards in the same order.
type HandResult struct {
	Category Category `json:"category"`
	Score    int64    `json:"score"`
	Kickers  []int    `json:"kickers"`
	Best     []Card   `json:"best"`
}

// EvaluateFunc evaluates a set of cards.
type EvaluateFunc func(cards []Card) HandResult

// Name returns the category name
func (h HandResult) Name() string {
	return h.Category.String()
}

// IsComplete reports whether at least five cards were evaluated
func (h HandResult) IsComplete() bool {
	return h.Category != Incomplete
}

// Compare returns -1, 0 or 1 as h is weaker, equal to or stronger than o.
func (h HandResult) Compare(o HandResult) int {
	return cmp.Compare(h.Score, o.Score)
}

func (h HandResult) clone() HandResult {
	h.Kickers = slices.Clone(h.Kickers)
	h.Best = slices.Clone(h.Best)
	return h
}

// Evaluate returns the best five-card hand among all five-card subsets
// of cards. The result does not depend on input order. With fewer than
// five cards it returns the Incomplete sentinel with a zero score.
func Evaluate(cards []Card) HandResult {
	if len(cards) < 5 {
		return HandResult{}
	}

	sorted := slices.Clone(cards)
	slices.SortFunc(sorted, func(a, b Card) int {
		if a.Rank != b.Rank {
			return cmp.Compare(b.Rank, a.Rank)
		}
		return cmp.Compare(a.Suit, b.Suit)
	})

	var best HandResult
	n := len(sorted)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five := [5]Card{sorted[a], sorted[b], sorted[c], sorted[d], sorted[e]}
						if r := evaluateFive(five); r.Score > best.Score {
							best = r
						}
					}
				}
			}
		}
	}
	return best
}

type rankGroup struct {
	rank  Rank
	count int
}

// evaluateFive scores five cards sorted by rank descending.
func evaluateFive(cards [5]Card) HandResult {
	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	groups := make([]rankGroup, 0, 5)
	for _, c := range cards {
		if len(groups) > 0 && groups[len(groups)-1].rank == c.Rank {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, count: 1})
	}
	slices.SortStableFunc(groups, func(a, b rankGroup) int {
		if a.count != b.count {
			return cmp.Compare(b.count, a.count)
		}
		return cmp.Compare(b.rank, a.rank)
	})

	straightHigh := 0
	if len(groups) == 5 {
		switch {
		case cards[0].Rank-cards[4].Rank == 4:
			straightHigh = int(cards[0].Rank)
		case cards[0].Rank == Ace && cards[1].Rank == Five:
			straightHigh = 5
		}
	}

	var category Category
	var kickers []int
	switch {
	case straightHigh > 0 && flush:
		category = StraightFlush
		if straightHigh == int(Ace) {
			category = RoyalFlush
		}
		kickers = straightKickers(straightHigh)
	case groups[0].count == 4:
		category = FourOfAKind
		kickers = []int{int(groups[0].rank), int(groups[1].rank)}
	case groups[0].count == 3 && groups[1].count == 2:
		category = FullHouse
		kickers = []int{int(groups[0].rank), int(groups[1].rank)}
	case flush:
		category = Flush
		kickers = groupValues(groups)
	case straightHigh > 0:
		category = Straight
		kickers = straightKickers(straightHigh)
	case groups[0].count == 3:
		category = ThreeOfAKind
		kickers = groupValues(groups)
	case groups[0].count == 2 && groups[1].count == 2:
		category = TwoPair
		kickers = groupValues(groups)
	case groups[0].count == 2:
		category = OnePair
		kickers = groupValues(groups)
	default:
		category = HighCard
		kickers = groupValues(groups)
	}

	return HandResult{
		Category: category,
		Score:    score(category, kickers),
		Kickers:  kickers,
		Best:     orderBest(cards, groups, straightHigh == 5),
	}
}

func score(category Category, kickers []int) int64 {
	s := int64(category) * categoryWeight
	weight := int64(100_000_000)
	for _, k := range kickers {
		s += int64(k) * weight
		weight /= 100
	}
	return s
}

func straightKickers(high int) []int {
	if high == 5 {
		return []int{5, 4, 3, 2, 1}
	}
	return []int{high, high - 1, high - 2, high - 3, high - 4}
}

func groupValues(groups []rankGroup) []int {
	values := make([]int, len(groups))
	for i, g := range groups {
		values[i] = int(g.rank)
	}
	return values
}

// orderBest lists the cards by group significance. A wheel puts the ace last.
func orderBest(cards [5]Card, groups []rankGroup, wheel bool) []Card {
	best := make([]Card, 0, 5)
	if wheel {
		best = append(best, cards[1:]...)
		return append(best, cards[0])
	}
	for _, g := range groups {
		for _, c := range cards {
			if c.Rank == g.rank {
				best = append(best, c)
			}
		}
	}
	return best
}
