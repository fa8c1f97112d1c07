package game

import (
	"slices"

	"github.com/lox/holdem-table/poker"
)

// Award is a share of the pot paid to a winner. Hand is zero when the pot
// was won without a showdown.
type Award struct {
	Seat   int
	Name   string
	Amount int
	Hand   poker.HandResult
}

// ShownHand is a hand revealed at showdown
type ShownHand struct {
	Seat int              `json:"seat"`
	Name string           `json:"name"`
	Hole []poker.Card     `json:"hole"`
	Hand poker.HandResult `json:"hand"`
}

// Result is the outcome of a finished hand
type Result struct {
	HandID   string
	Pot      int
	Board    []poker.Card
	Showdown bool
	Winners  []Award
	Shown    []ShownHand
	// NetChange is each seat's chips at the end minus at the start.
	NetChange     []int
	DeckExhausted bool
}

// IsWinner reports whether seat received a share of the pot
func (r *Result) IsWinner(seat int) bool {
	return slices.ContainsFunc(r.Winners, func(a Award) bool { return a.Seat == seat })
}

// resolve awards the pot and finishes the hand. A lone survivor wins
// without revealing; otherwise every live player's cards are evaluated and
// the best score takes the pot.
func (h *Hand) resolve() {
	var live []*Player
	for _, p := range h.Players {
		if p.IsLive() {
			live = append(live, p)
		}
	}

	result := Result{
		HandID:        h.ID,
		Pot:           h.Pot,
		Board:         append([]poker.Card(nil), h.Board...),
		Showdown:      len(live) > 1,
		DeckExhausted: h.deckExhausted,
	}

	switch {
	case len(live) == 1:
		result.Winners = []Award{{Seat: live[0].Seat, Name: live[0].Name, Amount: h.Pot}}

	case len(live) > 1:
		var winners []ShownHand
		for _, p := range live {
			cards := append(append([]poker.Card(nil), p.Hole...), h.Board...)
			shown := ShownHand{
				Seat: p.Seat,
				Name: p.Name,
				Hole: append([]poker.Card(nil), p.Hole...),
				Hand: h.evaluate(cards),
			}
			result.Shown = append(result.Shown, shown)

			switch {
			case len(winners) == 0 || shown.Hand.Score > winners[0].Hand.Score:
				winners = []ShownHand{shown}
			case shown.Hand.Score == winners[0].Hand.Score:
				winners = append(winners, shown)
			}
		}

		h.orderFromDealer(winners)
		shares := splitPot(h.Pot, len(winners))
		for i, w := range winners {
			result.Winners = append(result.Winners, Award{
				Seat:   w.Seat,
				Name:   w.Name,
				Amount: shares[i],
				Hand:   w.Hand,
			})
		}
	}

	for _, award := range result.Winners {
		h.Players[award.Seat].Chips += award.Amount
	}
	h.Pot = 0

	result.NetChange = make([]int, len(h.Players))
	for i, p := range h.Players {
		p.Bet = 0
		if i < len(h.startStacks) {
			result.NetChange[i] = p.Chips - h.startStacks[i]
		}
	}

	h.Stage = Showdown
	h.ActiveSeat = -1
	h.Result = &result

	h.publish(HandEndEvent{HandID: h.ID, Result: result, timestamp: h.clock.Now()})
}

// orderFromDealer sorts hands by seat, starting with the first seat left of
// the dealer.
func (h *Hand) orderFromDealer(hands []ShownHand) {
	n := len(h.Players)
	distance := func(seat int) int {
		return (seat - h.Dealer - 1 + n) % n
	}
	slices.SortFunc(hands, func(a, b ShownHand) int {
		return distance(a.Seat) - distance(b.Seat)
	})
}

// splitPot divides pot into n shares. The first pot%n shares get one extra
// chip so nothing is lost.
func splitPot(pot, n int) []int {
	shares := make([]int, n)
	if n == 0 {
		return shares
	}
	for i := range shares {
		shares[i] = pot / n
		if i < pot%n {
			shares[i]++
		}
	}
	return shares
}
