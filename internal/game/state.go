// Package game holds the two client-side views of a cribbage session
// and the reducer that folds server events into them. The server is
// the only rules authority; nothing in this package computes scores,
// it only records what the server reports.
package game

import (
	"maps"
	"slices"

	"github.com/lox/cribclient/internal/deck"
	"github.com/lox/cribclient/internal/protocol"
)

// Player is one seat's public state.
type Player struct {
	ID        string
	Name      string
	Seat      int
	Score     int
	Connected bool
}

// PegPlay is one card played during the current pegging sub-round.
type PegPlay struct {
	PlayerSeat int
	Card       deck.Card
	Points     int
	Breakdown  []string
}

// ScoreResult is one hand or crib count reported during the current
// round's scoring phases.
type ScoreResult struct {
	PlayerSeat int
	PlayerName string
	Cards      []deck.Card
	Score      protocol.ScoreBreakdown
	NewTotal   int
	IsCrib     bool
}

// Winner identifies the winning seat once the game ends.
type Winner struct {
	Seat int
	Name string
}

// State is the shared view of the session, visible to every
// participant. It is only ever mutated by Apply; consumers hold
// value copies.
type State struct {
	Code        string
	Status      protocol.Status
	Phase       protocol.Phase
	PlayerCount int
	DealerSeat  int
	TurnSeat    *int
	PegCount    int
	CutCard     deck.Card
	Players     []Player

	// PegHistory covers the current pegging sub-round only; it is
	// replaced on each 31/go count reset and cleared on phase exit.
	PegHistory []PegPlay

	// ScoringResults accumulates across a round's scoring phases and
	// clears when a new round begins.
	ScoringResults []ScoreResult

	// CardsPlayed counts cards pegged per seat this round. It survives
	// 31/go count resets and only zeroes on a new round.
	CardsPlayed map[int]int

	Winner *Winner
}

// PlayerView is this participant's private view.
type PlayerView struct {
	Hand       []deck.Card
	Seat       int
	ID         string
	ValidPlays []deck.Card
}

// PlayerBySeat returns the player occupying the given seat.
func (s State) PlayerBySeat(seat int) (Player, bool) {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p, true
		}
	}
	return Player{}, false
}

// hasSeat reports whether the seat exists in the player list.
func (s State) hasSeat(seat int) bool {
	_, ok := s.PlayerBySeat(seat)
	return ok
}

// DealtHandSize returns how many cards each player is dealt for the
// given seat count: 6 in a two-player game, 5 otherwise.
func DealtHandSize(playerCount int) int {
	if playerCount == 2 {
		return 6
	}
	return 5
}

// KeptHandSize is how many cards each player holds after discarding
// to the crib.
const KeptHandSize = 4

// CardsRemaining estimates how many unplayed pegging cards the given
// seat still holds this round.
func (s State) CardsRemaining(seat int) int {
	n := KeptHandSize - s.CardsPlayed[seat]
	if n < 0 {
		return 0
	}
	return n
}

// Clone returns a deep copy safe to hand to consumers as a read-only
// view.
func (s State) Clone() State { return s.clone() }

// Clone returns a deep copy of the private view.
func (v PlayerView) Clone() PlayerView { return v.clone() }

// clone returns a deep copy so Apply can mutate freely without
// touching the caller's value.
func (s State) clone() State {
	out := s
	if s.TurnSeat != nil {
		v := *s.TurnSeat
		out.TurnSeat = &v
	}
	if s.Winner != nil {
		w := *s.Winner
		out.Winner = &w
	}
	out.Players = slices.Clone(s.Players)
	out.CardsPlayed = maps.Clone(s.CardsPlayed)
	if s.PegHistory != nil {
		out.PegHistory = make([]PegPlay, len(s.PegHistory))
		for i, p := range s.PegHistory {
			p.Breakdown = slices.Clone(p.Breakdown)
			out.PegHistory[i] = p
		}
	}
	if s.ScoringResults != nil {
		out.ScoringResults = make([]ScoreResult, len(s.ScoringResults))
		for i, r := range s.ScoringResults {
			r.Cards = slices.Clone(r.Cards)
			out.ScoringResults[i] = r
		}
	}
	return out
}

// clone returns a deep copy of the private view.
func (v PlayerView) clone() PlayerView {
	out := v
	out.Hand = slices.Clone(v.Hand)
	out.ValidPlays = slices.Clone(v.ValidPlays)
	return out
}
