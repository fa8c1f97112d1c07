package server

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-table/internal/game"
)

// Request is a client message. Action is a betting action for the seat,
// or one of the table commands "deal" and "reset".
type Request struct {
	Seat   int    `json:"seat"`
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Reply answers a single request
type Reply struct {
	OK    bool   `json:"ok,omitempty"`
	Error string `json:"error,omitempty"`
}

type command int

const (
	commandAction command = iota
	commandDeal
	commandReset
)

// parse resolves the request into a table command or a betting action.
func (r Request) parse() (command, game.Action, error) {
	switch strings.ToLower(strings.TrimSpace(r.Action)) {
	case "deal", "start":
		return commandDeal, game.Action{}, nil
	case "reset", "new":
		return commandReset, game.Action{}, nil
	}

	kind, err := game.ParseActionKind(r.Action)
	if err != nil {
		return 0, game.Action{}, err
	}
	action := game.Action{Kind: kind}
	if kind == game.Raise {
		if r.Amount <= 0 {
			return 0, game.Action{}, fmt.Errorf("raise requires a positive amount")
		}
		action.Amount = r.Amount
	}
	return commandAction, action, nil
}
