package game

import "github.com/lox/holdem-table/poker"

// Apply validates and applies an action for seat. A rejected action returns
// an *ActionError and leaves the hand untouched.
func (h *Hand) Apply(seat int, a Action) error {
	if !h.Stage.IsBetting() || h.ActiveSeat < 0 {
		return reject(seat, a, ErrHandOver, "stage is %s", h.Stage)
	}
	if seat != h.ActiveSeat {
		return reject(seat, a, ErrOutOfTurn, "seat %d is to act", h.ActiveSeat)
	}

	p := h.Players[seat]
	applied, err := h.normalize(p, a)
	if err != nil {
		return err
	}

	paid := 0
	switch applied.Kind {
	case Fold:
		p.Status = StatusFolded
	case Check:
	case Call:
		paid = p.commit(h.TableBet - p.Bet)
	case Raise:
		paid = p.commit(applied.Amount - p.Bet)
	case AllIn:
		paid = p.commit(p.Chips)
		applied.Amount = p.Bet
	}
	h.Pot += paid
	p.Acted = true

	if p.Bet > h.TableBet {
		h.MinRaise = max(h.MinRaise, p.Bet-h.TableBet)
		h.TableBet = p.Bet
		h.reopen(seat)
	}

	h.publish(PlayerActionEvent{
		HandID:    h.ID,
		Seat:      seat,
		Name:      p.Name,
		Stage:     h.Stage,
		Action:    applied,
		Paid:      paid,
		BetTo:     p.Bet,
		PotAfter:  h.Pot,
		AllIn:     p.Status == StatusAllIn,
		timestamp: h.clock.Now(),
	})

	h.ActiveSeat = h.nextActive(seat)
	h.settle()
	return nil
}

// normalize checks a against the current state and returns the action that
// will actually be applied.
func (h *Hand) normalize(p *Player, a Action) (Action, error) {
	toCall := h.TableBet - p.Bet

	switch a.Kind {
	case Fold:
		return Action{Kind: Fold}, nil

	case Check:
		if toCall > 0 {
			return Action{}, reject(p.Seat, a, ErrIllegalAction, "cannot check, must call %d", toCall)
		}
		return Action{Kind: Check}, nil

	case Call:
		if toCall <= 0 {
			return Action{Kind: Check}, nil
		}
		return Action{Kind: Call}, nil

	case Raise:
		if a.Amount <= h.TableBet {
			return Action{}, reject(p.Seat, a, ErrIllegalAction, "raise to %d does not exceed the bet of %d", a.Amount, h.TableBet)
		}
		increment := a.Amount - p.Bet
		if increment > p.Chips {
			return Action{}, reject(p.Seat, a, ErrIllegalAction, "raise to %d exceeds stack, maximum is %d", a.Amount, p.Bet+p.Chips)
		}
		if increment == p.Chips {
			return Action{Kind: AllIn, Amount: a.Amount}, nil
		}
		return Action{Kind: Raise, Amount: a.Amount}, nil

	case AllIn:
		return Action{Kind: AllIn}, nil
	}

	return Action{}, reject(p.Seat, a, ErrIllegalAction, "unknown action")
}

// reopen requires every other active player to act again after a raise.
func (h *Hand) reopen(raiser int) {
	for i, p := range h.Players {
		if i != raiser && p.Status == StatusActive {
			p.Acted = false
		}
	}
}

// streetComplete reports whether betting on the current street is over.
// Callers ensure at least two players are live.
func (h *Hand) streetComplete() bool {
	var active []*Player
	for _, p := range h.Players {
		if p.Status == StatusActive {
			active = append(active, p)
		}
	}

	switch len(active) {
	case 0:
		return true
	case 1:
		// Everyone else live is all-in; nobody is left to respond to a bet.
		return active[0].Bet >= h.TableBet
	}

	for _, p := range active {
		if !p.Acted || p.Bet != h.TableBet {
			return false
		}
	}
	return true
}

// settle advances streets for as long as betting is finished, dealing the
// remaining board when nobody is left to act, and resolves the hand once a
// single player remains or the river closes.
func (h *Hand) settle() {
	for h.Stage.IsBetting() {
		if h.LiveCount() <= 1 {
			h.resolve()
			return
		}
		if !h.streetComplete() {
			return
		}
		h.advanceStreet()
	}
}

func (h *Hand) advanceStreet() {
	for _, p := range h.Players {
		p.Bet = 0
		p.Acted = false
	}
	h.TableBet = 0
	h.MinRaise = h.Blinds.Big

	if h.Stage == River {
		h.resolve()
		return
	}

	next := h.Stage + 1
	if err := h.Deck.Burn(); err != nil {
		h.deckExhausted = true
		h.resolve()
		return
	}
	cards, err := h.Deck.DrawN(next.boardSize() - len(h.Board))
	if err != nil {
		h.deckExhausted = true
		h.resolve()
		return
	}

	h.Board = append(h.Board, cards...)
	h.Stage = next
	h.ActiveSeat = h.nextActive(h.Dealer)

	h.publish(StreetChangeEvent{
		HandID:    h.ID,
		Stage:     next,
		Board:     append([]poker.Card(nil), h.Board...),
		Runout:    h.activeCount() <= 1,
		timestamp: h.clock.Now(),
	})
}

// ValidActions lists the legal choices for the active seat.
func (h *Hand) ValidActions() []ValidAction {
	p := h.ActivePlayer()
	if p == nil || !h.Stage.IsBetting() {
		return nil
	}

	toCall := h.TableBet - p.Bet
	allIn := p.Bet + p.Chips

	actions := []ValidAction{{Kind: Fold}}
	if toCall <= 0 {
		actions = append(actions, ValidAction{Kind: Check})
	} else {
		owed := min(toCall, p.Chips)
		actions = append(actions, ValidAction{Kind: Call, Min: owed, Max: owed})
	}
	if p.Chips > toCall {
		actions = append(actions, ValidAction{
			Kind: Raise,
			Min:  min(h.TableBet+h.MinRaise, allIn),
			Max:  allIn,
		})
	}
	return append(actions, ValidAction{Kind: AllIn, Min: allIn, Max: allIn})
}
