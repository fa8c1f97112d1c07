package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind is what a player chooses to do on their turn
type ActionKind int

const (
	Fold ActionKind = iota
	Check
	Call
	Raise
	AllIn
)

var actionNames = [...]string{"fold", "check", "call", "raise", "allin"}

func (k ActionKind) String() string {
	if k >= 0 && int(k) < len(actionNames) {
		return actionNames[k]
	}
	return fmt.Sprintf("ActionKind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *ActionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseActionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseActionKind accepts the canonical names plus a few common aliases.
func ParseActionKind(s string) (ActionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fold", "f":
		return Fold, nil
	case "check", "k", "x":
		return Check, nil
	case "call", "c":
		return Call, nil
	case "raise", "r", "bet", "b":
		return Raise, nil
	case "allin", "all-in", "all", "a":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Action is a player's decision. Amount is only used by Raise and is the
// new total bet for the street, not the increment.
type Action struct {
	Kind   ActionKind
	Amount int
}

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("raise %d", a.Amount)
	}
	return a.Kind.String()
}

// ParseAction parses input such as "call", "raise 80" or "r 80".
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}

	kind, err := ParseActionKind(fields[0])
	if err != nil {
		return Action{}, err
	}

	a := Action{Kind: kind}
	switch {
	case kind == Raise && len(fields) == 2:
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			return Action{}, fmt.Errorf("invalid raise amount %q", fields[1])
		}
		a.Amount = amount
	case kind == Raise:
		return Action{}, fmt.Errorf("raise requires a total amount, e.g. \"raise 80\"")
	case len(fields) > 1:
		return Action{}, fmt.Errorf("%s takes no amount", kind)
	}
	return a, nil
}

// ValidAction describes a legal choice for the active seat. For Call, Min
// is the amount owed. For Raise, Min is the suggested minimum total and Max
// the all-in total. The minimum is a hint and is not enforced.
type ValidAction struct {
	Kind ActionKind `json:"kind"`
	Min  int        `json:"min"`
	Max  int        `json:"max"`
}
