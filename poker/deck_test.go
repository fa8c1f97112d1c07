package poker

import (
	"errors"
	rand "math/rand/v2"
	"testing"
)

func TestNewDeckOrdered(t *testing.T) {
	t.Parallel()

	d := NewDeck()
	if d.Remaining() != 52 {
		t.Fatalf("Expected 52 cards, got %d", d.Remaining())
	}

	cards := d.Cards()
	if cards[0] != NewCard(Two, Hearts) {
		t.Errorf("Expected first card 2♥, got %v", cards[0])
	}
	if cards[12] != NewCard(Ace, Hearts) {
		t.Errorf("Expected 13th card A♥, got %v", cards[12])
	}
	if cards[51] != NewCard(Ace, Spades) {
		t.Errorf("Expected last card A♠, got %v", cards[51])
	}

	seen := make(map[Card]bool)
	for _, c := range cards {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	for seed := uint64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed*7))
		d := NewShuffledDeck(rng)

		cards := d.Cards()
		if len(cards) != 52 {
			t.Fatalf("seed %d: expected 52 cards, got %d", seed, len(cards))
		}
		seen := make(map[Card]bool)
		for _, c := range cards {
			if !c.IsValid() {
				t.Fatalf("seed %d: invalid card %v", seed, c)
			}
			if seen[c] {
				t.Fatalf("seed %d: duplicate card %v", seed, c)
			}
			seen[c] = true
		}
	}
}

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()

	a := NewShuffledDeck(rand.New(rand.NewPCG(42, 1)))
	b := NewShuffledDeck(rand.New(rand.NewPCG(42, 1)))
	ca, cb := a.Cards(), b.Cards()
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("position %d differs: %v vs %v", i, ca[i], cb[i])
		}
	}
}

func TestShuffleRequiresRNG(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("expected panic without rng")
		}
	}()
	NewDeck().Shuffle(nil)
}

func TestDrawExhaustion(t *testing.T) {
	t.Parallel()

	d := NewDeckFrom(MustParseCards("As Kd Qh"))

	c, err := d.Draw()
	if err != nil || c != NewCard(Ace, Spades) {
		t.Fatalf("Draw = %v, %v", c, err)
	}

	if _, err := d.DrawN(3); !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("expected ErrDeckExhausted, got %v", err)
	}
	if d.Remaining() != 2 {
		t.Fatalf("failed DrawN consumed cards: %d remaining", d.Remaining())
	}

	if err := d.Burn(); err != nil {
		t.Fatalf("Burn: %v", err)
	}
	if _, err := d.Draw(); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if _, err := d.Draw(); !errors.Is(err, ErrDeckExhausted) {
		t.Fatalf("expected ErrDeckExhausted, got %v", err)
	}
}
