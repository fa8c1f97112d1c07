package poker

import (
	"errors"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of cards consumed from the top.
type Deck struct {
	cards []Card
	next  int
}

// NewDeck returns the 52 distinct cards in generation order: suits
// hearts, diamonds, clubs, spades, each from Two to Ace.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return &Deck{cards: cards}
}

// NewDeckFrom builds a deck that deals the given cards in order.
func NewDeckFrom(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// NewShuffledDeck returns a full deck shuffled with rng.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	d := NewDeck()
	d.Shuffle(rng)
	return d
}

// Shuffle applies a Fisher-Yates shuffle to the undealt cards and
// restarts dealing from the top. The rng is required.
func (d *Deck) Shuffle(rng *rand.Rand) {
	if rng == nil {
		panic("poker: rng is required")
	}
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// DrawN removes n cards. Nothing is consumed when fewer than n remain.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n < 0 || d.next+n > len(d.cards) {
		return nil, ErrDeckExhausted
	}
	out := make([]Card, n)
	copy(out, d.cards[d.next:d.next+n])
	d.next += n
	return out, nil
}

// Burn discards the top card.
func (d *Deck) Burn() error {
	_, err := d.Draw()
	return err
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Cards returns a copy of the undealt cards in dealing order.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards[d.next:]...)
}
