// Package session talks to the session-management HTTP API: creating
// or joining a game yields the session token the WebSocket client
// needs at connect time. Tokens are opaque here; the server mints and
// validates them.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
)

// Grant is the server's response to creating or joining a game.
type Grant struct {
	GameID       string `json:"game_id"`
	GameCode     string `json:"game_code"`
	SessionToken string `json:"session_token"`
	Seat         int    `json:"seat"`
}

// PlayerInfo is one seat in a game lobby listing.
type PlayerInfo struct {
	Name      string `json:"name"`
	Seat      int    `json:"seat"`
	Connected bool   `json:"connected"`
	Score     int    `json:"score"`
}

// GameInfo is the lobby view of a session.
type GameInfo struct {
	Code              string       `json:"code"`
	Status            string       `json:"status"`
	PlayerCount       int          `json:"player_count"`
	CurrentPlayers    int          `json:"current_players"`
	Players           []PlayerInfo `json:"players"`
	CurrentPhase      string       `json:"current_phase"`
	CurrentDealerSeat int          `json:"current_dealer_seat"`
}

// Client is an HTTP client for the session API.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *log.Logger
}

// NewClient builds a session API client against the given base URL.
func NewClient(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		logger:  logger.WithPrefix("session"),
	}
}

// Create starts a new game for the given seat count and returns this
// player's grant.
func (c *Client) Create(ctx context.Context, playerCount int, playerName string) (*Grant, error) {
	body := map[string]any{
		"player_count": playerCount,
		"player_name":  playerName,
	}
	var grant Grant
	if err := c.do(ctx, http.MethodPost, "/api/games", body, &grant); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	c.logger.Info("created game", "code", grant.GameCode, "seat", grant.Seat)
	return &grant, nil
}

// Join claims a seat in an existing game by code.
func (c *Client) Join(ctx context.Context, code, playerName string) (*Grant, error) {
	body := map[string]any{"player_name": playerName}
	var grant Grant
	path := "/api/games/" + url.PathEscape(code) + "/join"
	if err := c.do(ctx, http.MethodPost, path, body, &grant); err != nil {
		return nil, fmt.Errorf("join game %s: %w", code, err)
	}
	c.logger.Info("joined game", "code", grant.GameCode, "seat", grant.Seat)
	return &grant, nil
}

// Info fetches the lobby view of a game.
func (c *Client) Info(ctx context.Context, code string) (*GameInfo, error) {
	var info GameInfo
	if err := c.do(ctx, http.MethodGet, "/api/games/"+url.PathEscape(code), nil, &info); err != nil {
		return nil, fmt.Errorf("game info %s: %w", code, err)
	}
	return &info, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		reqBody = &bytes.Buffer{}
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Detail)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
