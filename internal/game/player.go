package game

import (
	"fmt"

	"github.com/lox/holdem-table/poker"
)

// Status is a player's state within the current hand
type Status int

const (
	StatusActive Status = iota
	StatusFolded
	StatusAllIn
	StatusOut
)

var statusNames = [...]string{"active", "folded", "allin", "out"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Player is a seat at the table. Chips persist across hands; everything
// else is reset when a hand starts.
type Player struct {
	Seat   int
	Name   string
	Chips  int
	Human  bool
	Hole   []poker.Card
	Status Status
	// Bet is the amount contributed on the current street.
	Bet int
	// TotalBet is the amount contributed over the whole hand.
	TotalBet int
	Acted    bool
}

// NewPlayer creates a seated player
func NewPlayer(seat int, name string, chips int) *Player {
	return &Player{Seat: seat, Name: name, Chips: chips}
}

// IsLive reports whether the player can still win the pot
func (p *Player) IsLive() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (seat %d, %d chips, %s)", p.Name, p.Seat, p.Chips, p.Status)
}

// reset clears per-hand state before a new deal.
func (p *Player) reset() {
	p.Hole = nil
	p.Bet = 0
	p.TotalBet = 0
	p.Acted = false
	if p.Chips > 0 {
		p.Status = StatusActive
	} else {
		p.Status = StatusOut
	}
}

// commit moves up to amount chips from the stack into the current bet and
// returns what was actually paid.
func (p *Player) commit(amount int) int {
	paid := min(amount, p.Chips)
	p.Chips -= paid
	p.Bet += paid
	p.TotalBet += paid
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	return paid
}
