package client

import (
	"fmt"

	"github.com/lox/cribclient/internal/deck"
	"github.com/lox/cribclient/internal/protocol"
)

// sendIntent writes one intent message while the connection is open.
// Intents issued while disconnected are dropped, not queued: the
// consumer layer is expected to disable inputs during an outage, and
// a replayed stale intent is worse than a lost one.
func (c *Client) sendIntent(kind protocol.IntentType, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusOpen || c.conn == nil {
		c.logger.Debug("dropping intent while disconnected", "intent", kind)
		return nil
	}
	if err := c.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("send %s: %w", kind, err)
	}
	return nil
}

// StartGame asks the server to begin the session.
func (c *Client) StartGame() error {
	return c.sendIntent(protocol.IntentStartGame, protocol.NewStartGame())
}

// Discard sends this player's crib discards.
func (c *Client) Discard(cards []deck.Card) error {
	return c.sendIntent(protocol.IntentDiscard, protocol.NewDiscard(cards))
}

// Cut asks the server to cut the starter card.
func (c *Client) Cut() error {
	return c.sendIntent(protocol.IntentCut, protocol.NewCut())
}

// PegCard plays one card during pegging.
func (c *Client) PegCard(card deck.Card) error {
	return c.sendIntent(protocol.IntentPeg, protocol.NewPeg(card))
}

// DeclareGo passes when no legal play remains.
func (c *Client) DeclareGo() error {
	return c.sendIntent(protocol.IntentGo, protocol.NewGo())
}

// RequestSync asks the server for a fresh state_sync snapshot.
func (c *Client) RequestSync() error {
	return c.sendIntent(protocol.IntentSync, protocol.NewSync())
}
