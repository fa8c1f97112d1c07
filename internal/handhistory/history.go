// Package handhistory writes finished hands in the Poker Hand History (PHH)
// TOML format.
package handhistory

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/poker"
)

const defaultVariant = "NT"

// History is a single hand in PHH form. Players are listed in position
// order starting with the small blind, and actions name them p1, p2...
type History struct {
	Variant           string   `toml:"variant"`
	Table             string   `toml:"table,omitempty"`
	SeatCount         int      `toml:"seat_count,omitempty"`
	Seats             []int    `toml:"seats,omitempty"`
	Antes             []int    `toml:"antes"`
	BlindsOrStraddles []int    `toml:"blinds_or_straddles"`
	MinBet            int      `toml:"min_bet"`
	StartingStacks    []int    `toml:"starting_stacks"`
	FinishingStacks   []int    `toml:"finishing_stacks,omitempty"`
	Winnings          []int    `toml:"winnings,omitempty"`
	Actions           []string `toml:"actions"`
	Players           []string `toml:"players,omitempty"`
	HandID            string   `toml:"hand"`
	Time              string   `toml:"time,omitempty"`
	TimeZone          string   `toml:"time_zone,omitempty"`
	Day               int      `toml:"day,omitempty"`
	Month             int      `toml:"month,omitempty"`
	Year              int      `toml:"year,omitempty"`

	Timestamp time.Time `toml:"-"`
}

// Encode writes hand to w as PHH TOML
func Encode(w io.Writer, hand *History) error {
	if hand == nil {
		return fmt.Errorf("handhistory: hand is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes hand and returns the result
func EncodeToBytes(hand *History) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a single PHH hand
func Decode(data []byte) (*History, error) {
	var h History
	if _, err := toml.Decode(string(data), &h); err != nil {
		return nil, fmt.Errorf("handhistory: decode: %w", err)
	}
	return &h, nil
}

// FormatAction renders an applied action for player index idx. streetBet is
// the largest bet on the street before the action; an all-in that does not
// exceed it is a call in PHH terms.
func FormatAction(idx int, a game.Action, betTo, streetBet int) string {
	player := fmt.Sprintf("p%d", idx+1)
	switch a.Kind {
	case game.Fold:
		return player + " f"
	case game.Check, game.Call:
		return player + " cc"
	case game.Raise, game.AllIn:
		if betTo <= streetBet {
			return player + " cc"
		}
		return fmt.Sprintf("%s cbr %d", player, betTo)
	default:
		return fmt.Sprintf("# %s %s", player, a)
	}
}

// FormatCards joins card codes without separators, as PHH expects
func FormatCards(cards []poker.Card) string {
	var buf bytes.Buffer
	for _, c := range cards {
		buf.WriteString(c.Code())
	}
	return buf.String()
}

func (h *History) stampTime() {
	if h.Timestamp.IsZero() {
		return
	}
	utc := h.Timestamp.UTC()
	h.Time = utc.Format("15:04:05")
	h.TimeZone = "UTC"
	h.Day = utc.Day()
	h.Month = int(utc.Month())
	h.Year = utc.Year()
}
