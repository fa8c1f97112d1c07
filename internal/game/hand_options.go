package game

import (
	"github.com/coder/quartz"
	"github.com/lox/holdem-table/poker"
)

// HandOption configures a Hand during creation.
type HandOption func(*Hand)

// WithDeck deals from the given deck instead of shuffling a fresh one.
// Useful for deterministic tests.
func WithDeck(deck *poker.Deck) HandOption {
	return func(h *Hand) {
		h.Deck = deck
		h.stackedDeck = deck != nil
	}
}

// WithHandID sets the identifier reported in events and results.
func WithHandID(id string) HandOption {
	return func(h *Hand) {
		h.ID = id
	}
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) HandOption {
	return func(h *Hand) {
		h.clock = clock
	}
}

// WithEvaluator replaces poker.Evaluate, typically with a poker.Cache.
func WithEvaluator(evaluate poker.EvaluateFunc) HandOption {
	return func(h *Hand) {
		h.evaluate = evaluate
	}
}

// WithPublisher receives every event the hand produces.
func WithPublisher(p Publisher) HandOption {
	return func(h *Hand) {
		h.publisher = p
	}
}
