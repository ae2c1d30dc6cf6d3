package protocol

import "github.com/lox/cribclient/internal/deck"

// IntentType identifies an outbound player-intent message.
type IntentType string

const (
	IntentStartGame IntentType = "start_game"
	IntentDiscard   IntentType = "discard"
	IntentCut       IntentType = "cut"
	IntentPeg       IntentType = "peg"
	IntentGo        IntentType = "go"
	IntentSync      IntentType = "sync"
)

// StartGame asks the server to begin the session.
type StartGame struct {
	Type IntentType `json:"type"`
}

// Discard sends this player's crib discards.
type Discard struct {
	Type  IntentType  `json:"type"`
	Cards []deck.Card `json:"cards"`
}

// Cut asks the server to cut the starter card.
type Cut struct {
	Type IntentType `json:"type"`
}

// Peg plays one card during pegging.
type Peg struct {
	Type IntentType `json:"type"`
	Card deck.Card  `json:"card"`
}

// Go declares a pass when no legal play remains.
type Go struct {
	Type IntentType `json:"type"`
}

// Sync requests a fresh state_sync snapshot.
type Sync struct {
	Type IntentType `json:"type"`
}

// NewStartGame constructs a start_game intent.
func NewStartGame() *StartGame { return &StartGame{Type: IntentStartGame} }

// NewDiscard constructs a discard intent for the given cards.
func NewDiscard(cards []deck.Card) *Discard { return &Discard{Type: IntentDiscard, Cards: cards} }

// NewCut constructs a cut intent.
func NewCut() *Cut { return &Cut{Type: IntentCut} }

// NewPeg constructs a peg intent for the given card.
func NewPeg(card deck.Card) *Peg { return &Peg{Type: IntentPeg, Card: card} }

// NewGo constructs a go intent.
func NewGo() *Go { return &Go{Type: IntentGo} }

// NewSync constructs a sync intent.
func NewSync() *Sync { return &Sync{Type: IntentSync} }
