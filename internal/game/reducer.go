package game

import (
	"slices"

	"github.com/lox/cribclient/internal/deck"
	"github.com/lox/cribclient/internal/protocol"
)

// Apply folds one server event into the pair of views and returns the
// resulting pair. It is pure: inputs are never mutated, the same
// triple always yields the same result, and each application is
// atomic from the caller's point of view.
//
// Events referencing a seat that does not exist in the player list
// are ignored (the caller logs them as decode-class faults).
func Apply(s State, v PlayerView, ev protocol.Event) (State, PlayerView) {
	s = s.clone()
	v = v.clone()

	switch e := ev.(type) {
	case *protocol.StateSync:
		return applyStateSync(e)

	case *protocol.YourHand:
		v.Hand = slices.Clone(e.Cards)

	case *protocol.HandUpdated:
		v.Hand = slices.Clone(e.Cards)

	case *protocol.ValidPlays:
		v.ValidPlays = slices.Clone(e.Cards)

	case *protocol.PhaseChange:
		applyPhaseChange(&s, e)

	case *protocol.PlayerStatus:
		for i := range s.Players {
			if s.Players[i].Seat == e.Seat {
				s.Players[i].Connected = e.Connected
			}
		}

	case *protocol.CutCard:
		s.CutCard = e.Card

	case *protocol.PegPlay:
		applyPegPlay(&s, &v, e)

	case *protocol.PegGo:
		// Informational only.

	case *protocol.HandScored:
		applyScore(&s, ScoreResult{
			PlayerSeat: e.PlayerSeat,
			PlayerName: e.PlayerName,
			Cards:      slices.Clone(e.Cards),
			Score:      e.Score,
			NewTotal:   e.NewTotal,
		})

	case *protocol.CribScored:
		applyScore(&s, ScoreResult{
			PlayerSeat: e.PlayerSeat,
			PlayerName: e.PlayerName,
			Cards:      slices.Clone(e.Cards),
			Score:      e.Score,
			NewTotal:   e.NewTotal,
			IsCrib:     true,
		})

	case *protocol.DiscardComplete:
		// Informational only.

	case *protocol.GameOver:
		// Winner is set once and never cleared within a session.
		if s.Winner == nil {
			s.Status = protocol.StatusFinished
			s.Winner = &Winner{Seat: e.WinnerSeat, Name: e.WinnerName}
		}

	case *protocol.ErrorEvent:
		// Surfaced by the caller; never touches game state.
	}

	return s, v
}

// applyStateSync rebuilds both views wholesale from a snapshot.
func applyStateSync(e *protocol.StateSync) (State, PlayerView) {
	players := make([]Player, len(e.Game.Players))
	cardsPlayed := make(map[int]int, len(e.Game.Players))
	for i, p := range e.Game.Players {
		players[i] = Player{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Score:     p.Score,
			Connected: p.Connected,
		}
		cardsPlayed[p.Seat] = 0
	}
	slices.SortFunc(players, func(a, b Player) int { return a.Seat - b.Seat })

	var turnSeat *int
	if e.Game.TurnSeat != nil {
		v := *e.Game.TurnSeat
		turnSeat = &v
	}

	s := State{
		Code:           e.Game.Code,
		Status:         e.Game.Status,
		Phase:          e.Game.Phase,
		PlayerCount:    e.Game.PlayerCount,
		DealerSeat:     e.Game.DealerSeat,
		TurnSeat:       turnSeat,
		PegCount:       e.Game.PegCount,
		CutCard:        e.Game.CutCard,
		Players:        players,
		PegHistory:     []PegPlay{},
		ScoringResults: []ScoreResult{},
		CardsPlayed:    cardsPlayed,
	}
	v := PlayerView{
		Hand:       slices.Clone(e.YourHand),
		Seat:       e.YourSeat,
		ID:         e.YourID,
		ValidPlays: []deck.Card{},
	}
	return s, v
}

// applyPhaseChange updates phase and turn bookkeeping. Entering
// discard starts a new round and resets everything round-scoped;
// leaving pegging for any other phase clears only the pegging trail
// and count.
func applyPhaseChange(s *State, e *protocol.PhaseChange) {
	s.Phase = e.Phase
	s.DealerSeat = e.DealerSeat
	if e.TurnSeat != nil {
		v := *e.TurnSeat
		s.TurnSeat = &v
	} else {
		s.TurnSeat = nil
	}

	switch {
	case e.Phase == protocol.PhaseDiscard:
		s.PegHistory = []PegPlay{}
		s.PegCount = 0
		s.ScoringResults = []ScoreResult{}
		for seat := range s.CardsPlayed {
			s.CardsPlayed[seat] = 0
		}
	case e.Phase != protocol.PhasePegging:
		s.PegHistory = []PegPlay{}
		s.PegCount = 0
	}
}

// applyPegPlay records a pegged card. The trail restarts whenever the
// resulting count is zero, but the per-seat play counter always
// advances; the two reset on different cadences. Pegging points are
// additive because the server reports only the increment.
func applyPegPlay(s *State, v *PlayerView, e *protocol.PegPlay) {
	if !s.hasSeat(e.PlayerSeat) {
		return
	}

	play := PegPlay{
		PlayerSeat: e.PlayerSeat,
		Card:       e.Card,
		Points:     e.Points,
		Breakdown:  slices.Clone(e.Breakdown),
	}

	s.PegCount = e.Count
	if e.Count == 0 {
		s.PegHistory = []PegPlay{play}
	} else {
		s.PegHistory = append(s.PegHistory, play)
	}

	if s.CardsPlayed == nil {
		s.CardsPlayed = make(map[int]int)
	}
	s.CardsPlayed[e.PlayerSeat]++

	for i := range s.Players {
		if s.Players[i].Seat == e.PlayerSeat {
			s.Players[i].Score += e.Points
		}
	}

	if e.PlayerSeat == v.Seat {
		v.Hand = slices.DeleteFunc(v.Hand, func(c deck.Card) bool { return c == e.Card })
	}
	v.ValidPlays = nil
}

// applyScore records a hand or crib count. The player's score is set
// to the server's new total, not incremented: the server's arithmetic
// is trusted over anything accumulated locally.
func applyScore(s *State, r ScoreResult) {
	if !s.hasSeat(r.PlayerSeat) {
		return
	}
	s.ScoringResults = append(s.ScoringResults, r)
	for i := range s.Players {
		if s.Players[i].Seat == r.PlayerSeat {
			s.Players[i].Score = r.NewTotal
		}
	}
}
