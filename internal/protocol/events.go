// Package protocol defines the JSON wire messages exchanged with the
// cribbage server. Inbound events form a closed, tagged set: every
// payload carries a top-level "type" field and its remaining fields
// flat alongside it. DecodeEvent maps a raw payload to exactly one
// typed event; anything it cannot map is an error for the caller to
// drop, never a reason to abort the stream.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/cribclient/internal/deck"
)

// EventType identifies an inbound event.
type EventType string

const (
	EventStateSync       EventType = "state_sync"
	EventYourHand        EventType = "your_hand"
	EventHandUpdated     EventType = "hand_updated"
	EventValidPlays      EventType = "valid_plays"
	EventPhaseChange     EventType = "phase_change"
	EventPlayerStatus    EventType = "player_status"
	EventCutCard         EventType = "cut_card"
	EventPegPlay         EventType = "peg_play"
	EventPegGo           EventType = "peg_go"
	EventHandScored      EventType = "hand_scored"
	EventCribScored      EventType = "crib_scored"
	EventDiscardComplete EventType = "discard_complete"
	EventGameOver        EventType = "game_over"
	EventError           EventType = "error"
)

// Status is the lifecycle state of a game session.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Phase is the sub-phase of an active round.
type Phase string

const (
	PhaseDiscard     Phase = "discard"
	PhaseCut         Phase = "cut"
	PhasePegging     Phase = "pegging"
	PhaseHandScoring Phase = "hand_scoring"
	PhaseCribScoring Phase = "crib_scoring"
)

// ErrUnknownEventType is returned by DecodeEvent for tags outside the
// closed event set.
var ErrUnknownEventType = errors.New("unknown event type")

// Event is implemented by every inbound event.
type Event interface {
	EventType() EventType
}

// PlayerInfo is one seat's public state within a snapshot.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// GameSnapshot is the full shared-state snapshot carried by state_sync.
type GameSnapshot struct {
	Code        string       `json:"code"`
	Status      Status       `json:"status"`
	Phase       Phase        `json:"phase"`
	PlayerCount int          `json:"player_count"`
	DealerSeat  int          `json:"current_dealer_seat"`
	TurnSeat    *int         `json:"current_turn_seat"`
	PegCount    int          `json:"peg_count"`
	CutCard     deck.Card    `json:"cut_card"`
	Players     []PlayerInfo `json:"players"`
}

// StateSync replaces both views wholesale. Sent on connect and on an
// explicit sync request.
type StateSync struct {
	Game     GameSnapshot `json:"game"`
	YourHand []deck.Card  `json:"your_hand"`
	YourSeat int          `json:"your_seat"`
	YourID   string       `json:"your_id"`
}

func (StateSync) EventType() EventType { return EventStateSync }

// YourHand carries the initial deal for this player.
type YourHand struct {
	Cards []deck.Card `json:"cards"`
}

func (YourHand) EventType() EventType { return EventYourHand }

// HandUpdated carries the remaining hand after a discard.
type HandUpdated struct {
	Cards []deck.Card `json:"cards"`
}

func (HandUpdated) EventType() EventType { return EventHandUpdated }

// ValidPlays lists the cards this player may legally peg right now.
type ValidPlays struct {
	Cards []deck.Card `json:"cards"`
}

func (ValidPlays) EventType() EventType { return EventValidPlays }

// PhaseChange announces the new phase and whose turn it is.
type PhaseChange struct {
	Phase      Phase `json:"phase"`
	TurnSeat   *int  `json:"turn_seat"`
	DealerSeat int   `json:"dealer_seat"`
}

func (PhaseChange) EventType() EventType { return EventPhaseChange }

// PlayerStatus flags a seat as connected or disconnected.
type PlayerStatus struct {
	Seat      int  `json:"seat"`
	Connected bool `json:"connected"`
}

func (PlayerStatus) EventType() EventType { return EventPlayerStatus }

// CutCard reveals the starter card. DealerPoints is nonzero when the
// dealer scored his heels on the cut.
type CutCard struct {
	Card         deck.Card `json:"card"`
	DealerPoints int       `json:"dealer_points"`
}

func (CutCard) EventType() EventType { return EventCutCard }

// PegPlay reports one pegged card. Count is the authoritative running
// count after the play; zero means the count just reset (31 hit or a
// full go circuit).
type PegPlay struct {
	PlayerSeat int       `json:"player_seat"`
	Card       deck.Card `json:"card"`
	Count      int       `json:"count"`
	Points     int       `json:"points"`
	Breakdown  []string  `json:"breakdown"`
}

func (PegPlay) EventType() EventType { return EventPegPlay }

// PegGo reports a declared pass. Informational only.
type PegGo struct {
	PlayerSeat int `json:"player_seat"`
}

func (PegGo) EventType() EventType { return EventPegGo }

// ScoreBreakdown is the server's per-category scoring of a hand.
type ScoreBreakdown struct {
	Fifteens int `json:"fifteens"`
	Pairs    int `json:"pairs"`
	Runs     int `json:"runs"`
	Flush    int `json:"flush"`
	Nobs     int `json:"nobs"`
	Total    int `json:"total"`
}

// HandScored reports one player's hand count. NewTotal is the
// authoritative score after counting, not an increment.
type HandScored struct {
	PlayerSeat int            `json:"player_seat"`
	PlayerName string         `json:"player_name"`
	Cards      []deck.Card    `json:"cards"`
	Score      ScoreBreakdown `json:"score"`
	NewTotal   int            `json:"new_total"`
}

func (HandScored) EventType() EventType { return EventHandScored }

// CribScored reports the dealer's crib count. Same shape as
// HandScored; the tag is what marks it as the crib.
type CribScored struct {
	PlayerSeat int            `json:"player_seat"`
	PlayerName string         `json:"player_name"`
	Cards      []deck.Card    `json:"cards"`
	Score      ScoreBreakdown `json:"score"`
	NewTotal   int            `json:"new_total"`
}

func (CribScored) EventType() EventType { return EventCribScored }

// DiscardComplete reports a seat finishing its discard. Informational.
type DiscardComplete struct {
	PlayerSeat   int  `json:"player_seat"`
	AllDiscarded bool `json:"all_discarded"`
}

func (DiscardComplete) EventType() EventType { return EventDiscardComplete }

// GameOver names the winner. Terminal.
type GameOver struct {
	WinnerSeat  int    `json:"winner_seat"`
	WinnerName  string `json:"winner_name"`
	FinalScores []int  `json:"final_scores"`
}

func (GameOver) EventType() EventType { return EventGameOver }

// ErrorEvent is a server-reported fault, surfaced to the consumer
// verbatim. Never mutates game state.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventType() EventType { return EventError }

// DecodeEvent parses a raw inbound payload into exactly one typed
// event. Unknown tags return ErrUnknownEventType; malformed JSON
// returns the unmarshal error. Either way the caller drops the
// payload and keeps reading.
func DecodeEvent(data []byte) (Event, error) {
	var envelope struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}

	var ev Event
	switch envelope.Type {
	case EventStateSync:
		ev = &StateSync{}
	case EventYourHand:
		ev = &YourHand{}
	case EventHandUpdated:
		ev = &HandUpdated{}
	case EventValidPlays:
		ev = &ValidPlays{}
	case EventPhaseChange:
		ev = &PhaseChange{}
	case EventPlayerStatus:
		ev = &PlayerStatus{}
	case EventCutCard:
		ev = &CutCard{}
	case EventPegPlay:
		ev = &PegPlay{}
	case EventPegGo:
		ev = &PegGo{}
	case EventHandScored:
		ev = &HandScored{}
	case EventCribScored:
		ev = &CribScored{}
	case EventDiscardComplete:
		ev = &DiscardComplete{}
	case EventGameOver:
		ev = &GameOver{}
	case EventError:
		ev = &ErrorEvent{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, envelope.Type)
	}

	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", envelope.Type, err)
	}
	return ev, nil
}
