package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cribclient/internal/protocol"
)

func syncEvent(t *testing.T) protocol.Event {
	t.Helper()
	ev, err := protocol.DecodeEvent([]byte(`{
		"type": "state_sync",
		"game": {
			"code": "ABCD", "status": "active", "phase": "pegging",
			"player_count": 2, "current_dealer_seat": 0, "current_turn_seat": 1,
			"peg_count": 10, "cut_card": "9c",
			"players": [
				{"id": "p0", "name": "alice", "seat": 0, "score": 20, "connected": true},
				{"id": "p1", "name": "bob", "seat": 1, "score": 15, "connected": true}
			]
		},
		"your_hand": ["5h", "2d"], "your_seat": 1, "your_id": "p1"
	}`))
	require.NoError(t, err)
	return ev
}

func TestStoreNotifiesPerEvent(t *testing.T) {
	st := NewStore()

	var got []Snapshot
	cancel := st.Subscribe(func(s Snapshot) { got = append(got, s) })
	defer cancel()

	st.apply(syncEvent(t))
	st.apply(&protocol.PegPlay{PlayerSeat: 0, Card: "5h", Count: 15, Points: 2})
	st.setConnected(true)

	// One notification per change, in order, no batching.
	require.Len(t, got, 3)
	assert.True(t, got[0].Synced)
	assert.Equal(t, 15, got[1].Game.PegCount)
	assert.True(t, got[2].Connected)
}

func TestStoreSubscribeCancel(t *testing.T) {
	st := NewStore()

	calls := 0
	cancel := st.Subscribe(func(Snapshot) { calls++ })
	st.setConnected(true)
	cancel()
	st.setConnected(false)

	assert.Equal(t, 1, calls)
}

func TestStoreSnapshotIsolation(t *testing.T) {
	st := NewStore()
	st.apply(syncEvent(t))

	snap := st.Snapshot()
	snap.Game.Players[0].Score = 999
	snap.Game.CardsPlayed[0] = 999
	snap.Player.Hand[0] = "??"

	fresh := st.Snapshot()
	assert.Equal(t, 20, fresh.Game.Players[0].Score)
	assert.Equal(t, 0, fresh.Game.CardsPlayed[0])
	assert.Equal(t, "5h", string(fresh.Player.Hand[0]))
}

func TestStoreErrorEventIsTransient(t *testing.T) {
	st := NewStore()
	st.apply(syncEvent(t))
	before := st.Snapshot()

	st.apply(&protocol.ErrorEvent{Message: "not your turn"})

	after := st.Snapshot()
	assert.Equal(t, "not your turn", after.LastError)
	assert.Equal(t, before.Game, after.Game, "error events never mutate game state")
	assert.Equal(t, before.Player, after.Player)

	// Reconnecting clears the transient error.
	st.setConnected(true)
	assert.Empty(t, st.Snapshot().LastError)
}

func TestStoreStaleStateSurvivesDisconnect(t *testing.T) {
	st := NewStore()
	st.setConnected(true)
	st.apply(syncEvent(t))

	st.setConnected(false)

	snap := st.Snapshot()
	assert.False(t, snap.Connected)
	assert.True(t, snap.Synced)
	assert.Equal(t, "ABCD", snap.Game.Code, "views keep last known values during an outage")
	assert.Len(t, snap.Game.Players, 2)
}
