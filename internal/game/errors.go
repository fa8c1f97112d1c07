package game

import (
	"errors"
	"fmt"

	"github.com/lox/holdem-table/poker"
)

var (
	ErrOutOfTurn           = errors.New("out of turn")
	ErrIllegalAction       = errors.New("illegal action")
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrHandOver            = errors.New("hand is not in progress")
	ErrDeckExhausted       = poker.ErrDeckExhausted
)

// ActionError is returned for a rejected action. The hand is unchanged.
type ActionError struct {
	Seat   int
	Action Action
	Err    error
	Reason string
}

func (e *ActionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("seat %d %s: %v", e.Seat, e.Action, e.Err)
	}
	return fmt.Sprintf("seat %d %s: %v: %s", e.Seat, e.Action, e.Err, e.Reason)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewActionError reports a rejection of a by seat for the given reason.
func NewActionError(seat int, a Action, err error, reason string) *ActionError {
	return &ActionError{Seat: seat, Action: a, Err: err, Reason: reason}
}

func reject(seat int, a Action, err error, format string, args ...any) *ActionError {
	return NewActionError(seat, a, err, fmt.Sprintf(format, args...))
}
