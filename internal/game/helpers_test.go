package game

import (
	"testing"

	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/poker"
)

func newPlayers(chips ...int) []*Player {
	players := make([]*Player, len(chips))
	for i, c := range chips {
		players[i] = NewPlayer(i, playerName(i), c)
	}
	return players
}

func playerName(i int) string {
	return []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank", "Grace", "Heidi", "Ivan", "Judy"}[i]
}

// stackDeck builds a deck that deals holes[seat] to each seat and then the
// given board, with filler cards for burns. dealer is the dealer of the hand.
func stackDeck(t *testing.T, dealer int, holes []string, board string) *poker.Deck {
	t.Helper()

	used := map[poker.Card]bool{}
	mark := func(cards []poker.Card) {
		for _, c := range cards {
			if used[c] {
				t.Fatalf("card %v used twice", c)
			}
			used[c] = true
		}
	}

	n := len(holes)
	hole := make([][]poker.Card, n)
	for i, h := range holes {
		hole[i] = poker.MustParseCards(h)
		mark(hole[i])
	}
	boardCards := poker.MustParseCards(board)
	mark(boardCards)

	var filler []poker.Card
	for _, c := range poker.NewDeck().Cards() {
		if !used[c] {
			filler = append(filler, c)
		}
	}
	take := func() poker.Card {
		c := filler[0]
		filler = filler[1:]
		return c
	}

	var order []poker.Card
	for r := 0; r < 2; r++ {
		for i := 1; i <= n; i++ {
			seat := (dealer + i) % n
			if len(hole[seat]) > r {
				order = append(order, hole[seat][r])
			}
		}
	}

	streets := []int{3, 1, 1}
	for _, count := range streets {
		order = append(order, take())
		for range count {
			if len(boardCards) > 0 {
				order = append(order, boardCards[0])
				boardCards = boardCards[1:]
			} else {
				order = append(order, take())
			}
		}
	}
	order = append(order, filler...)
	return poker.NewDeckFrom(order)
}

// startHand starts a hand with the button on dealer, which must hold chips.
func startHand(t *testing.T, players []*Player, dealer int, blinds Blinds, opts ...HandOption) *Hand {
	t.Helper()

	prev := (dealer - 1 + len(players)) % len(players)
	h := NewHand(randutil.New(1), players, prev, blinds, opts...)
	if err := h.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h.Dealer != dealer {
		t.Fatalf("expected dealer %d, got %d", dealer, h.Dealer)
	}
	return h
}

func mustApply(t *testing.T, h *Hand, seat int, a Action) {
	t.Helper()
	if err := h.Apply(seat, a); err != nil {
		t.Fatalf("Apply(%d, %v): %v", seat, a, err)
	}
}

// checkDown calls or checks for whoever is active until the hand ends.
func checkDown(t *testing.T, h *Hand) {
	t.Helper()
	for steps := 0; !h.IsComplete(); steps++ {
		if steps > 100 {
			t.Fatal("hand did not finish")
		}
		mustApply(t, h, h.ActiveSeat, Action{Kind: Call})
	}
}
