package policy

import (
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/poker"
)

// Thresholds for the scripted opponent. Each random roll is uniform in [0,1).
const (
	premiumHigh     = poker.Queen
	speculativeHigh = poker.Ten
	raisePairRank   = poker.Ten

	speculativeRoll = 0.5
	pairRaiseRoll   = 0.7
	cheapCallRoll   = 0.8
	cheapCallBlinds = 2
	valueBetRoll    = 0.6
	tripsRaiseRoll  = 0.5
	bluffCallRoll   = 0.9
)

// Heuristic is a loose scripted opponent. Pre-flop it plays pairs and high
// cards, post-flop it bets made hands of a pair or better and mostly gives
// up otherwise. It takes exactly one random roll per decision.
type Heuristic struct {
	evaluate poker.EvaluateFunc
	logger   *log.Logger
}

// NewHeuristic creates the scripted opponent. A nil evaluate uses
// poker.Evaluate; a nil logger discards output.
func NewHeuristic(evaluate poker.EvaluateFunc, logger *log.Logger) *Heuristic {
	if evaluate == nil {
		evaluate = poker.Evaluate
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Heuristic{evaluate: evaluate, logger: logger.WithPrefix("policy")}
}

func (h *Heuristic) Decide(view game.View, rng *rand.Rand) game.Action {
	me := view.Me()
	if me == nil || len(me.Hole) < 2 {
		return game.Action{Kind: game.Fold}
	}

	toCall := view.ToCall()
	roll := rng.Float64()

	var a game.Action
	var category poker.Category
	if view.Stage == game.PreFlop {
		a = h.preflop(view, me, toCall, roll)
	} else {
		cards := append(append([]poker.Card(nil), me.Hole...), view.Board...)
		category = h.evaluate(cards).Category
		a = h.postflop(view, category, toCall, roll)
	}
	a = fitStack(a, me, toCall)

	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(view.Pot+toCall)
	}
	h.logger.Debug("Decided action",
		"seat", me.Seat,
		"stage", view.Stage,
		"category", category,
		"to_call", toCall,
		"pot_odds", potOdds,
		"roll", roll,
		"action", a)
	return a
}

func (h *Heuristic) preflop(view game.View, me *game.PlayerView, toCall int, roll float64) game.Action {
	a, b := me.Hole[0].Rank, me.Hole[1].Rank
	high := max(a, b)
	pair := a == b

	if pair || high >= premiumHigh || (high >= speculativeHigh && roll > speculativeRoll) {
		if pair && a >= raisePairRank && roll > pairRaiseRoll {
			return game.Action{Kind: game.Raise, Amount: view.TableBet + view.MinRaise}
		}
		return checkOrCall(toCall)
	}

	switch {
	case toCall == 0:
		return game.Action{Kind: game.Check}
	case toCall < view.Blinds.Big*cheapCallBlinds && roll > cheapCallRoll:
		return game.Action{Kind: game.Call}
	default:
		return game.Action{Kind: game.Fold}
	}
}

func (h *Heuristic) postflop(view game.View, category poker.Category, toCall int, roll float64) game.Action {
	if category >= poker.OnePair {
		if toCall == 0 {
			if roll > valueBetRoll {
				return game.Action{Kind: game.Raise, Amount: view.TableBet + view.MinRaise}
			}
			return game.Action{Kind: game.Check}
		}
		if category >= poker.ThreeOfAKind && roll > tripsRaiseRoll {
			return game.Action{Kind: game.Raise, Amount: view.TableBet + 2*view.MinRaise}
		}
		return game.Action{Kind: game.Call}
	}

	switch {
	case toCall == 0:
		return game.Action{Kind: game.Check}
	case roll > bluffCallRoll:
		return game.Action{Kind: game.Call}
	default:
		return game.Action{Kind: game.Fold}
	}
}

func checkOrCall(toCall int) game.Action {
	if toCall == 0 {
		return game.Action{Kind: game.Check}
	}
	return game.Action{Kind: game.Call}
}

// fitStack turns a raise or call the stack cannot cover into an all-in.
func fitStack(a game.Action, me *game.PlayerView, toCall int) game.Action {
	switch a.Kind {
	case game.Raise:
		if a.Amount-me.Bet >= me.Chips {
			return game.Action{Kind: game.AllIn}
		}
	case game.Call:
		if toCall >= me.Chips {
			return game.Action{Kind: game.AllIn}
		}
	}
	return a
}
