package poker

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit uint8

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// Suits lists every suit in deck generation order.
var Suits = [...]Suit{Hearts, Diamonds, Clubs, Spades}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Letter returns the single-letter ASCII suit code used on the wire
func (s Suit) Letter() byte {
	switch s {
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	case Clubs:
		return 'c'
	case Spades:
		return 's'
	default:
		return '?'
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card rank with its numeric value: Two=2 through Ace=14.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the rank symbol. Ten is rendered as "10".
func (r Rank) String() string {
	if r == Ten {
		return "10"
	}
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-Two])
}

// Card is an immutable playing card. Two cards are equal when rank and suit match.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Value returns the numeric rank value (2..14)
func (c Card) Value() int {
	return int(c.Rank)
}

// IsValid reports whether the card has a real rank and suit
func (c Card) IsValid() bool {
	return c.Rank >= Two && c.Rank <= Ace && c.Suit <= Spades
}

// Index maps the card to 0..51
func (c Card) Index() int {
	return int(c.Suit)*13 + int(c.Rank-Two)
}

// String returns the display form, e.g. "A♠" or "10♥"
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Code returns the two-character ASCII form, e.g. "As" or "Th"
func (c Card) Code() string {
	if !c.IsValid() {
		return "??"
	}
	return string([]byte{rankChars[c.Rank-Two], c.Suit.Letter()})
}

// MarshalText encodes the card as its ASCII code
func (c Card) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("invalid card: rank %d suit %d", c.Rank, c.Suit)
	}
	return []byte(c.Code()), nil
}

// UnmarshalText parses the ASCII or symbol form
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses "As", "Th", "10h" or the symbol forms "A♠" and "10♥".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Card{}, fmt.Errorf("invalid card: empty string")
	}

	var rankPart, suitPart string
	switch {
	case strings.HasPrefix(s, "10"):
		rankPart, suitPart = "T", s[2:]
	default:
		rankPart, suitPart = strings.ToUpper(s[:1]), s[1:]
	}

	idx := strings.Index(rankChars, rankPart)
	if idx < 0 {
		return Card{}, fmt.Errorf("invalid rank in card %q", s)
	}
	rank := Two + Rank(idx)

	var suit Suit
	switch strings.ToLower(suitPart) {
	case "h", "♥":
		suit = Hearts
	case "d", "♦":
		suit = Diamonds
	case "c", "♣":
		suit = Clubs
	case "s", "♠":
		suit = Spades
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	return NewCard(rank, suit), nil
}

// ParseCards parses a whitespace separated list of cards
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals; it panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// FormatCards joins the display form of each card with spaces
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
