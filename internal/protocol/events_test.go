package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/cribclient/internal/deck"
)

func cardStrings(cards []deck.Card) []string {
	return deck.Strings(cards)
}

func toCards(ss ...string) []deck.Card {
	cards := make([]deck.Card, len(ss))
	for i, s := range ss {
		cards[i] = deck.Card(s)
	}
	return cards
}

func TestDecodeStateSync(t *testing.T) {
	raw := `{
		"type": "state_sync",
		"game": {
			"code": "ABCD",
			"status": "active",
			"phase": "pegging",
			"player_count": 2,
			"current_dealer_seat": 0,
			"current_turn_seat": 1,
			"peg_count": 10,
			"cut_card": "5h",
			"players": [
				{"id": "p0", "name": "alice", "seat": 0, "score": 12, "connected": true},
				{"id": "p1", "name": "bob", "seat": 1, "score": 8, "connected": false}
			]
		},
		"your_hand": ["Ah", "2d", "Th"],
		"your_seat": 1,
		"your_id": "p1"
	}`

	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	sync, ok := ev.(*StateSync)
	require.True(t, ok, "expected *StateSync, got %T", ev)
	assert.Equal(t, "ABCD", sync.Game.Code)
	assert.Equal(t, StatusActive, sync.Game.Status)
	assert.Equal(t, PhasePegging, sync.Game.Phase)
	require.NotNil(t, sync.Game.TurnSeat)
	assert.Equal(t, 1, *sync.Game.TurnSeat)
	assert.Len(t, sync.Game.Players, 2)
	assert.Equal(t, "bob", sync.Game.Players[1].Name)
	assert.False(t, sync.Game.Players[1].Connected)
	assert.Equal(t, []string{"Ah", "2d", "Th"}, cardStrings(sync.YourHand))
	assert.Equal(t, 1, sync.YourSeat)
	assert.Equal(t, "p1", sync.YourID)
}

func TestDecodeStateSyncNullTurnSeat(t *testing.T) {
	raw := `{"type":"state_sync","game":{"code":"X","status":"waiting","phase":"","player_count":2,"current_dealer_seat":0,"current_turn_seat":null,"peg_count":0,"cut_card":null,"players":[]},"your_hand":[],"your_seat":0,"your_id":"p0"}`

	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	sync := ev.(*StateSync)
	assert.Nil(t, sync.Game.TurnSeat)
	assert.Empty(t, sync.Game.CutCard)
}

func TestDecodePegPlay(t *testing.T) {
	raw := `{"type":"peg_play","player_seat":1,"card":"5h","count":0,"points":2,"breakdown":["31 for 2"]}`

	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	play, ok := ev.(*PegPlay)
	require.True(t, ok)
	assert.Equal(t, 1, play.PlayerSeat)
	assert.Equal(t, "5h", string(play.Card))
	assert.Zero(t, play.Count)
	assert.Equal(t, 2, play.Points)
	assert.Equal(t, []string{"31 for 2"}, play.Breakdown)
}

func TestDecodeScoringEvents(t *testing.T) {
	raw := `{"type":"hand_scored","player_seat":0,"player_name":"alice","cards":["5h","5d","5c","Jh"],"score":{"fifteens":6,"pairs":6,"runs":0,"flush":0,"nobs":1,"total":13},"new_total":25}`

	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	scored, ok := ev.(*HandScored)
	require.True(t, ok)
	assert.Equal(t, 13, scored.Score.Total)
	assert.Equal(t, 25, scored.NewTotal)

	crib, err := DecodeEvent([]byte(`{"type":"crib_scored","player_seat":0,"player_name":"alice","cards":[],"score":{"total":4},"new_total":29}`))
	require.NoError(t, err)
	require.IsType(t, &CribScored{}, crib)
}

func TestDecodeEventTags(t *testing.T) {
	tests := []struct {
		raw  string
		want EventType
	}{
		{`{"type":"your_hand","cards":["Ah"]}`, EventYourHand},
		{`{"type":"hand_updated","cards":["Ah"]}`, EventHandUpdated},
		{`{"type":"valid_plays","cards":[]}`, EventValidPlays},
		{`{"type":"phase_change","phase":"discard","turn_seat":null,"dealer_seat":1}`, EventPhaseChange},
		{`{"type":"player_status","seat":1,"connected":false}`, EventPlayerStatus},
		{`{"type":"cut_card","card":"Jh","dealer_points":2}`, EventCutCard},
		{`{"type":"peg_go","player_seat":0}`, EventPegGo},
		{`{"type":"discard_complete","player_seat":0,"all_discarded":true}`, EventDiscardComplete},
		{`{"type":"game_over","winner_seat":1,"winner_name":"bob","final_scores":[98,121]}`, EventGameOver},
		{`{"type":"error","message":"not your turn"}`, EventError},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.EventType())
		})
	}
}

func TestDecodeEventFailures(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"launch_missiles"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEventType))

	_, err = DecodeEvent([]byte(`not even json`))
	require.Error(t, err)

	_, err = DecodeEvent([]byte(`{"type":"peg_play","player_seat":"one"}`))
	require.Error(t, err)
}

func TestIntentWireFormat(t *testing.T) {
	data, err := json.Marshal(NewStartGame())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"start_game"}`, string(data))

	data, err = json.Marshal(NewDiscard(toCards("5h", "Th")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"discard","cards":["5h","Th"]}`, string(data))

	data, err = json.Marshal(NewPeg("5h"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"peg","card":"5h"}`, string(data))

	data, err = json.Marshal(NewGo())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"go"}`, string(data))

	data, err = json.Marshal(NewCut())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"cut"}`, string(data))

	data, err = json.Marshal(NewSync())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"sync"}`, string(data))
}
