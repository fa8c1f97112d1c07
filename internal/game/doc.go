// Package game implements the betting state machine for a single hand of
// no-limit Texas Hold'em.
//
// The main type is Hand, which owns all per-hand mutable state: stage,
// community cards, deck, pot, table bet and turn pointer. Players are
// passed in by the caller and persist across hands; only their chips carry
// over.
//
// # Basic Usage
//
//	rng := randutil.New(42)
//	h := game.NewHand(rng, players, dealer, game.Blinds{Small: 10, Big: 20})
//	if err := h.Start(); err != nil {
//	    // game.ErrInsufficientPlayers
//	}
//	err := h.Apply(h.ActiveSeat, game.Action{Kind: game.Call})
//	if h.IsComplete() {
//	    result := h.Result
//	}
//
// # Deterministic Testing
//
// The RNG is required and is only used to shuffle a fresh deck. Tests that
// need exact cards pass a stacked deck:
//
//	h := game.NewHand(rng, players, dealer, blinds, game.WithDeck(poker.NewDeckFrom(cards)))
//
// Hole cards are dealt one at a time starting left of the dealer, then each
// street burns one card before dealing.
//
// # Rules
//
// A rejected action returns an *ActionError wrapping ErrOutOfTurn,
// ErrIllegalAction or ErrHandOver and leaves the hand untouched. A raise
// or all-in that lifts the table bet re-opens the action for every other
// active player. When nobody is left to bet the remaining streets are dealt
// out without further action. Side pots are not modelled: the whole pot goes
// to the best hand among the players who did not fold.
package game
