package game

import (
	"fmt"
	"strings"

	"github.com/lox/holdem-table/poker"
)

// FormattingOptions controls how events are formatted for different contexts
type FormattingOptions struct {
	// Perspective is the seat whose hole cards may be shown, or -1.
	Perspective int
	// ShowHoleCards prints every player's hole cards at the start of a hand.
	ShowHoleCards bool
}

// EventFormatter turns game events into human-readable log lines
type EventFormatter struct {
	opts FormattingOptions
}

// NewEventFormatter creates a new event formatter with the given options
func NewEventFormatter(opts FormattingOptions) *EventFormatter {
	return &EventFormatter{opts: opts}
}

// Format returns zero or more lines describing event
func (ef *EventFormatter) Format(event GameEvent) []string {
	switch e := event.(type) {
	case HandStartEvent:
		return ef.FormatHandStart(e)
	case BlindPostedEvent:
		return []string{ef.FormatBlind(e)}
	case PlayerActionEvent:
		return []string{ef.FormatPlayerAction(e)}
	case StreetChangeEvent:
		return []string{ef.FormatStreetChange(e)}
	case HandEndEvent:
		return ef.FormatHandEnd(e)
	default:
		return nil
	}
}

// FormatHandStart announces the button and any visible hole cards
func (ef *EventFormatter) FormatHandStart(e HandStartEvent) []string {
	dealer := ""
	if e.Dealer >= 0 && e.Dealer < len(e.Seats) {
		dealer = e.Seats[e.Dealer].Name
	}
	lines := []string{fmt.Sprintf("New hand %s: %s has the button, blinds %s", shortID(e.HandID), dealer, e.Blinds)}

	for _, s := range e.Seats {
		if len(s.Hole) == 0 {
			continue
		}
		if ef.opts.ShowHoleCards || s.Seat == ef.opts.Perspective {
			lines = append(lines, fmt.Sprintf("%s: dealt %s", s.Name, poker.FormatCards(s.Hole)))
		}
	}
	return lines
}

// FormatBlind formats a posted blind
func (ef *EventFormatter) FormatBlind(e BlindPostedEvent) string {
	kind := "small"
	if e.Big {
		kind = "big"
	}
	text := fmt.Sprintf("%s: posts %s blind %d", e.Name, kind, e.Amount)
	if e.AllIn {
		text += " and is all-in"
	}
	return text
}

// FormatPlayerAction formats a player action
func (ef *EventFormatter) FormatPlayerAction(e PlayerActionEvent) string {
	switch e.Action.Kind {
	case Fold:
		return fmt.Sprintf("%s: folds", e.Name)
	case Check:
		return fmt.Sprintf("%s: checks", e.Name)
	case Call:
		if e.AllIn {
			return fmt.Sprintf("%s: calls %d and is all-in (pot %d)", e.Name, e.Paid, e.PotAfter)
		}
		return fmt.Sprintf("%s: calls %d (pot %d)", e.Name, e.Paid, e.PotAfter)
	case Raise:
		return fmt.Sprintf("%s: raises to %d (pot %d)", e.Name, e.BetTo, e.PotAfter)
	case AllIn:
		return fmt.Sprintf("%s: goes all-in for %d (pot %d)", e.Name, e.BetTo, e.PotAfter)
	default:
		return fmt.Sprintf("%s: %s", e.Name, e.Action)
	}
}

// FormatStreetChange formats newly dealt community cards
func (ef *EventFormatter) FormatStreetChange(e StreetChangeEvent) string {
	return fmt.Sprintf("*** %s *** [%s]", strings.ToUpper(e.Stage.String()), poker.FormatCards(e.Board))
}

// FormatHandEnd lists shown hands and pot awards
func (ef *EventFormatter) FormatHandEnd(e HandEndEvent) []string {
	var lines []string
	if e.Result.DeckExhausted {
		lines = append(lines, "Deck exhausted, hand resolved with the cards dealt")
	}
	for _, s := range e.Result.Shown {
		lines = append(lines, fmt.Sprintf("%s: shows %s (%s)", s.Name, poker.FormatCards(s.Hole), s.Hand.Name()))
	}
	for _, w := range e.Result.Winners {
		if e.Result.Showdown {
			lines = append(lines, fmt.Sprintf("%s wins %d with %s", w.Name, w.Amount, w.Hand.Name()))
		} else {
			lines = append(lines, fmt.Sprintf("%s wins %d", w.Name, w.Amount))
		}
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
