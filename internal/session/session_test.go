package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/games", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2), body["player_count"])
		assert.Equal(t, "alice", body["player_name"])

		_ = json.NewEncoder(w).Encode(Grant{
			GameID:       "g1",
			GameCode:     "AB12",
			SessionToken: "tok",
			Seat:         0,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	grant, err := c.Create(context.Background(), 2, "alice")
	require.NoError(t, err)
	assert.Equal(t, "AB12", grant.GameCode)
	assert.Equal(t, "tok", grant.SessionToken)
	assert.Equal(t, 0, grant.Seat)
}

func TestJoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games/AB12/join", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Grant{GameCode: "AB12", SessionToken: "tok2", Seat: 1})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	grant, err := c.Join(context.Background(), "AB12", "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, grant.Seat)
}

func TestJoinErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail": "game is full"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	_, err := c.Join(context.Background(), "AB12", "bob")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game is full")
}

func TestInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/games/AB12", r.URL.Path)
		_ = json.NewEncoder(w).Encode(GameInfo{
			Code:           "AB12",
			Status:         "waiting",
			PlayerCount:    3,
			CurrentPlayers: 2,
			Players: []PlayerInfo{
				{Name: "alice", Seat: 0, Connected: true},
				{Name: "bob", Seat: 1, Connected: false},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	info, err := c.Info(context.Background(), "AB12")
	require.NoError(t, err)
	assert.Equal(t, "waiting", info.Status)
	assert.Len(t, info.Players, 2)
}
