// Package deck defines the card encoding shared with the cribbage
// server: a rank character followed by a lowercase suit character,
// e.g. "5h", "Th", "As". Cards travel over the wire in this form, so
// Card is a string type rather than a struct.
package deck

import (
	"fmt"
	"strings"
)

// Card is a single playing card in its wire encoding.
type Card string

const (
	ranks = "A23456789TJQK"
	suits = "hdcs"
)

// ParseCard normalizes and validates a card string ("5h", "th", "AS").
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return "", fmt.Errorf("invalid card %q: want rank+suit", s)
	}
	r := strings.ToUpper(s[:1])
	u := strings.ToLower(s[1:])
	if !strings.Contains(ranks, r) {
		return "", fmt.Errorf("invalid card %q: unknown rank %q", s, s[:1])
	}
	if !strings.Contains(suits, u) {
		return "", fmt.Errorf("invalid card %q: unknown suit %q", s, s[1:])
	}
	return Card(r + u), nil
}

// ParseCards parses a whitespace or comma separated list of cards.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
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

// Valid reports whether the card is a well-formed wire encoding.
func (c Card) Valid() bool {
	if len(c) != 2 {
		return false
	}
	return strings.IndexByte(ranks, c[0]) >= 0 && strings.IndexByte(suits, c[1]) >= 0
}

// Rank returns the rank character ('A', '2'..'9', 'T', 'J', 'Q', 'K').
func (c Card) Rank() byte {
	if len(c) != 2 {
		return '?'
	}
	return c[0]
}

// Suit returns the suit character ('h', 'd', 'c', 's').
func (c Card) Suit() byte {
	if len(c) != 2 {
		return '?'
	}
	return c[1]
}

// PegValue returns the card's pegging value: A=1, 2-9 face value,
// T/J/Q/K=10.
func (c Card) PegValue() int {
	switch r := c.Rank(); {
	case r == 'A':
		return 1
	case r == 'T' || r == 'J' || r == 'Q' || r == 'K':
		return 10
	case r >= '2' && r <= '9':
		return int(r - '0')
	default:
		return 0
	}
}

// RankOrder returns the card's position in run order, A=1 through K=13.
func (c Card) RankOrder() int {
	i := strings.IndexByte(ranks, c.Rank())
	if i < 0 {
		return 0
	}
	return i + 1
}

// IsRed reports whether the card's suit is hearts or diamonds.
func (c Card) IsRed() bool {
	return c.Suit() == 'h' || c.Suit() == 'd'
}

// String returns the display form with a suit symbol (e.g. "5♥").
// The wire form is just string(c).
func (c Card) String() string {
	if !c.Valid() {
		return string(c)
	}
	var sym string
	switch c.Suit() {
	case 'h':
		sym = "♥"
	case 'd':
		sym = "♦"
	case 'c':
		sym = "♣"
	case 's':
		sym = "♠"
	}
	return string(c.Rank()) + sym
}

// Strings converts a card slice to its wire strings.
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = string(c)
	}
	return out
}
