package table

import (
	"fmt"
	"time"

	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/poker"
)

// MaxLogEntries is the number of history lines a session keeps.
const MaxLogEntries = 50

// LogEntry is one line of human-readable table history
type LogEntry struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Outcome is how a game ended
type Outcome int

const (
	// OutcomeWon means the human seat took every chip.
	OutcomeWon Outcome = iota + 1
	// OutcomeLost means the human seat went broke.
	OutcomeLost
	// OutcomeFinished means a table without a human is down to one stack.
	OutcomeFinished
)

var outcomeNames = map[Outcome]string{
	OutcomeWon:      "won",
	OutcomeLost:     "lost",
	OutcomeFinished: "finished",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for outcome, name := range outcomeNames {
		if name == string(text) {
			*o = outcome
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// GameOver describes a finished game. Winner is the seat left holding
// chips, or -1 when more than one seat still has chips.
type GameOver struct {
	Outcome Outcome `json:"outcome"`
	Winner  int     `json:"winner"`
	Hands   int     `json:"hands"`
}

// Winner is a seat paid from the pot
type Winner struct {
	Seat     int          `json:"seat"`
	Name     string       `json:"name"`
	Amount   int          `json:"amount"`
	HandName string       `json:"hand,omitempty"`
	Hole     []poker.Card `json:"hole,omitempty"`
}

// RoundSummary is the outcome of the last finished hand. It is kept until
// the next hand starts.
type RoundSummary struct {
	HandNumber    int              `json:"hand_number"`
	HandID        string           `json:"hand_id"`
	Pot           int              `json:"pot"`
	Board         []poker.Card     `json:"board"`
	Showdown      bool             `json:"showdown"`
	Winners       []Winner         `json:"winners"`
	Revealed      []game.ShownHand `json:"revealed"`
	NetChange     []int            `json:"net_change"`
	DeckExhausted bool             `json:"deck_exhausted,omitempty"`
}

func newRoundSummary(number int, r *game.Result) *RoundSummary {
	s := &RoundSummary{
		HandNumber:    number,
		HandID:        r.HandID,
		Pot:           r.Pot,
		Board:         r.Board,
		Showdown:      r.Showdown,
		Revealed:      r.Shown,
		NetChange:     append([]int(nil), r.NetChange...),
		DeckExhausted: r.DeckExhausted,
	}

	hole := map[int][]poker.Card{}
	for _, sh := range r.Shown {
		hole[sh.Seat] = sh.Hole
	}
	for _, a := range r.Winners {
		w := Winner{Seat: a.Seat, Name: a.Name, Amount: a.Amount, Hole: hole[a.Seat]}
		if r.Showdown {
			w.HandName = a.Hand.Name()
		}
		s.Winners = append(s.Winners, w)
	}
	return s
}

// ChipPoint is every seat's stack after a hand. Hand 0 is the starting
// stacks.
type ChipPoint struct {
	Hand  int   `json:"hand"`
	Chips []int `json:"chips"`
}

// TableView is the read-only snapshot handed to hosts
type TableView struct {
	game.View
	HandNumber int           `json:"hand_number"`
	HumanSeat  int           `json:"human_seat"`
	Logs       []LogEntry    `json:"logs"`
	Summary    *RoundSummary `json:"summary,omitempty"`
	GameOver   *GameOver     `json:"game_over,omitempty"`
}
