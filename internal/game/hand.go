package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/coder/quartz"
	"github.com/lox/holdem-table/poker"
)

// Hand is the state of a single hand. It is created Idle, entered into
// PreFlop by Start and finishes at Showdown with Result set.
type Hand struct {
	ID       string
	Players  []*Player
	Blinds   Blinds
	Stage    Stage
	Board    []poker.Card
	Deck     *poker.Deck
	Pot      int
	TableBet int
	// MinRaise is the suggested minimum raise increment. It is not enforced.
	MinRaise       int
	Dealer         int
	SmallBlindSeat int
	BigBlindSeat   int
	// ActiveSeat is -1 when nobody is to act.
	ActiveSeat int
	Result     *Result

	prevDealer    int
	rng           *rand.Rand
	clock         quartz.Clock
	evaluate      poker.EvaluateFunc
	publisher     Publisher
	startStacks   []int
	stackedDeck   bool
	deckExhausted bool
}

// NewHand creates an Idle hand. dealer is the previous dealer position; Start
// moves the button to the next seat holding chips. The RNG is required to
// make shuffling explicit and testing deterministic.
//
// Example usage:
//
//	h := NewHand(randutil.New(42), players, 0, Blinds{Small: 10, Big: 20})
//	err := h.Start()
//
//	// With options
//	h := NewHand(rng, players, 0, blinds,
//	    WithDeck(poker.NewDeckFrom(cards)),
//	    WithEvaluator(cache.Evaluate))
func NewHand(rng *rand.Rand, players []*Player, dealer int, blinds Blinds, opts ...HandOption) *Hand {
	if rng == nil {
		panic("rng is required for hand creation")
	}
	if len(players) > 0 && (dealer < 0 || dealer >= len(players)) {
		panic("dealer position out of range")
	}

	h := &Hand{
		Players:    players,
		Blinds:     blinds,
		Stage:      Idle,
		Dealer:     dealer,
		ActiveSeat: -1,
		prevDealer: dealer,
		rng:        rng,
		clock:      quartz.NewReal(),
		evaluate:   poker.Evaluate,
		publisher:  discardPublisher{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start posts the blinds, deals hole cards and opens pre-flop betting.
// Nothing is changed when it returns an error.
func (h *Hand) Start() error {
	if h.Stage != Idle {
		return errors.New("hand already started")
	}

	funded := 0
	for _, p := range h.Players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return fmt.Errorf("start hand: %d players with chips: %w", funded, ErrInsufficientPlayers)
	}

	deck := h.Deck
	if !h.stackedDeck {
		deck = poker.NewShuffledDeck(h.rng)
	}
	if deck.Remaining() < 2*funded {
		return fmt.Errorf("deal hole cards: %w", ErrDeckExhausted)
	}

	h.startStacks = make([]int, len(h.Players))
	seats := make([]SeatInfo, len(h.Players))
	for i, p := range h.Players {
		h.startStacks[i] = p.Chips
		p.Seat = i
		p.reset()
	}

	h.Deck = deck
	h.Board = nil
	h.Pot = 0
	h.Result = nil
	h.MinRaise = h.Blinds.Big

	h.Dealer = h.nextSeat(h.prevDealer, inHand)
	h.SmallBlindSeat = h.nextSeat(h.Dealer, inHand)
	h.BigBlindSeat = h.nextSeat(h.SmallBlindSeat, inHand)

	var blindEvents []GameEvent
	for _, blind := range []struct {
		seat   int
		amount int
		big    bool
	}{
		{h.SmallBlindSeat, h.Blinds.Small, false},
		{h.BigBlindSeat, h.Blinds.Big, true},
	} {
		p := h.Players[blind.seat]
		paid := p.commit(blind.amount)
		h.Pot += paid
		h.TableBet = max(h.TableBet, p.Bet)
		blindEvents = append(blindEvents, BlindPostedEvent{
			HandID:    h.ID,
			Seat:      p.Seat,
			Name:      p.Name,
			Amount:    paid,
			Big:       blind.big,
			AllIn:     p.Status == StatusAllIn,
			timestamp: h.clock.Now(),
		})
	}

	// One card at a time, starting left of the dealer.
	n := len(h.Players)
	for range 2 {
		for i := 1; i <= n; i++ {
			p := h.Players[(h.Dealer+i)%n]
			if p.Status == StatusOut {
				continue
			}
			card, _ := h.Deck.Draw() // capacity checked above
			p.Hole = append(p.Hole, card)
		}
	}

	for i, p := range h.Players {
		seats[i] = SeatInfo{
			Seat:   i,
			Name:   p.Name,
			Chips:  h.startStacks[i],
			Human:  p.Human,
			Status: p.Status,
			Hole:   append([]poker.Card(nil), p.Hole...),
		}
	}

	h.Stage = PreFlop
	h.publish(HandStartEvent{
		HandID:         h.ID,
		Dealer:         h.Dealer,
		SmallBlindSeat: h.SmallBlindSeat,
		BigBlindSeat:   h.BigBlindSeat,
		Blinds:         h.Blinds,
		Seats:          seats,
		timestamp:      h.clock.Now(),
	})
	for _, e := range blindEvents {
		h.publish(e)
	}

	h.ActiveSeat = h.nextActive(h.BigBlindSeat)
	h.settle()
	return nil
}

// IsComplete reports whether the pot has been awarded
func (h *Hand) IsComplete() bool {
	return h.Stage == Showdown
}

// ActivePlayer returns the player to act, or nil
func (h *Hand) ActivePlayer() *Player {
	if h.ActiveSeat < 0 || h.ActiveSeat >= len(h.Players) {
		return nil
	}
	return h.Players[h.ActiveSeat]
}

// ChipTotal returns the chips on the table including the pot
func (h *Hand) ChipTotal() int {
	total := h.Pot
	for _, p := range h.Players {
		total += p.Chips
	}
	return total
}

// LiveCount returns the number of players who can still win the pot
func (h *Hand) LiveCount() int {
	n := 0
	for _, p := range h.Players {
		if p.IsLive() {
			n++
		}
	}
	return n
}

func (h *Hand) activeCount() int {
	n := 0
	for _, p := range h.Players {
		if p.Status == StatusActive {
			n++
		}
	}
	return n
}

func inHand(p *Player) bool {
	return p.Status != StatusOut && p.Status != StatusFolded
}

func isActive(p *Player) bool {
	return p.Status == StatusActive
}

// nextSeat returns the first seat after from, wrapping around and ending
// at from itself, that satisfies ok. It returns -1 if none does.
func (h *Hand) nextSeat(from int, ok func(*Player) bool) int {
	n := len(h.Players)
	for i := 1; i <= n; i++ {
		seat := (from + i) % n
		if ok(h.Players[seat]) {
			return seat
		}
	}
	return -1
}

func (h *Hand) nextActive(from int) int {
	return h.nextSeat(from, isActive)
}

func (h *Hand) publish(e GameEvent) {
	h.publisher.Publish(e)
}
