// Package policy decides actions for seats that are not controlled by a
// person. Policies see only a game.View and draw randomness from the
// table's shared source, so a seeded table replays identically.
package policy

import (
	"fmt"
	rand "math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/poker"
)

// Policy chooses an action for the viewer of a view. The view's seat is
// the active seat.
type Policy interface {
	Decide(view game.View, rng *rand.Rand) game.Action
}

// Func adapts a function to Policy
type Func func(view game.View, rng *rand.Rand) game.Action

func (f Func) Decide(view game.View, rng *rand.Rand) game.Action {
	return f(view, rng)
}

const (
	NameHeuristic      = "heuristic"
	NameCallingStation = "calling-station"
)

// Names lists the registered policy names
func Names() []string {
	return []string{NameHeuristic, NameCallingStation}
}

// IsKnown reports whether name is a registered policy
func IsKnown(name string) bool {
	return slices.Contains(Names(), name)
}

// New builds the named policy. A nil evaluate uses poker.Evaluate.
func New(name string, evaluate poker.EvaluateFunc, logger *log.Logger) (Policy, error) {
	switch name {
	case NameHeuristic:
		return NewHeuristic(evaluate, logger), nil
	case NameCallingStation:
		return CallingStation{}, nil
	default:
		return nil, fmt.Errorf("unknown opponent strategy %q (want one of %v)", name, Names())
	}
}

// CallingStation never folds and never raises.
type CallingStation struct{}

func (CallingStation) Decide(view game.View, _ *rand.Rand) game.Action {
	me := view.Me()
	if me == nil {
		return game.Action{Kind: game.Fold}
	}
	return passive(view.ToCall(), me.Chips)
}

// passive checks when free and otherwise calls, shoving when the call
// would take the whole stack.
func passive(toCall, chips int) game.Action {
	switch {
	case toCall <= 0:
		return game.Action{Kind: game.Check}
	case toCall >= chips:
		return game.Action{Kind: game.AllIn}
	default:
		return game.Action{Kind: game.Call}
	}
}
