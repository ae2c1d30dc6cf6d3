// Package client implements the session handle for one cribbage
// game: the WebSocket lifecycle with fixed-delay reconnection, the
// inbound pipeline (decode, reduce, store) and the outbound player
// intents. One Client is constructed per active session and passed to
// whatever needs to read state or send intents; there is no ambient
// global.
package client

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/cribclient/internal/protocol"
)

// RetryDelay is the fixed wait between an unexpected disconnect and
// the next connection attempt. No backoff, no attempt cap: recovery
// is expected once the network or server comes back.
const RetryDelay = 2 * time.Second

// Status is the connection lifecycle state.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusOpen
	StatusClosed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrClosed is returned by Open after an explicit Close.
var ErrClosed = errors.New("client closed")

// Options configures a Client.
type Options struct {
	// ServerURL is the server base URL; http/https schemes are
	// rewritten to ws/wss.
	ServerURL string

	// GameCode is the session identifier embedded in the endpoint path.
	GameCode string

	// SessionToken authorizes this participant; supplied out-of-band
	// by the session service.
	SessionToken string

	Logger *log.Logger

	// Clock drives the reconnect timer; defaults to the real clock.
	// Tests inject a mock.
	Clock quartz.Clock
}

// Client owns one game session's connection, store and dispatcher.
type Client struct {
	url    string
	code   string
	logger *log.Logger
	clock  quartz.Clock
	dialer *websocket.Dialer
	store  *Store

	mu       sync.Mutex
	conn     *websocket.Conn
	status   Status
	retry    *quartz.Timer
	attempts int
}

// New builds a Client for the given session. It does not connect;
// call Open.
func New(opts Options) (*Client, error) {
	if opts.GameCode == "" {
		return nil, errors.New("game code is required")
	}
	endpoint, err := gameURL(opts.ServerURL, opts.GameCode, opts.SessionToken)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &Client{
		url:    endpoint,
		code:   opts.GameCode,
		logger: logger.WithPrefix("client").With("game", opts.GameCode),
		clock:  clock,
		dialer: websocket.DefaultDialer,
		store:  NewStore(),
	}, nil
}

// gameURL builds the connect endpoint, embedding the session code in
// the path and the token in the query.
func gameURL(server, code, token string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid server URL scheme %q", u.Scheme)
	}
	u.Path = path.Join(u.Path, "ws", code)
	q := u.Query()
	q.Set("session_token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Store exposes the state store for consumers to read and subscribe.
func (c *Client) Store() *Store { return c.store }

// Status returns the current lifecycle state.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Open initiates the connection. No-op if already open or a retry is
// pending; ErrClosed after explicit teardown. A failed dial is not
// fatal: the retry loop takes over and Open returns the first error
// for visibility only.
func (c *Client) Open() error {
	c.mu.Lock()
	switch c.status {
	case StatusOpen, StatusConnecting:
		c.mu.Unlock()
		return nil
	case StatusClosed:
		c.mu.Unlock()
		return ErrClosed
	}
	c.status = StatusConnecting
	c.mu.Unlock()

	return c.connect()
}

// connect dials the endpoint. On success the read pump starts; on
// failure the next attempt is scheduled at the fixed delay.
func (c *Client) connect() error {
	c.logger.Info("connecting", "url", c.url)

	conn, _, err := c.dialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Warn("connection failed", "error", err)
		c.store.setError("connection error")
		c.scheduleRetry()
		return fmt.Errorf("dial %s: %w", c.url, err)
	}

	c.mu.Lock()
	if c.status == StatusClosed {
		// Closed while the dial was in flight.
		c.mu.Unlock()
		_ = conn.Close()
		return ErrClosed
	}
	c.conn = conn
	c.status = StatusOpen
	c.attempts = 0
	c.mu.Unlock()

	c.logger.Info("connected")
	c.store.setConnected(true)

	go c.readPump(conn)
	return nil
}

// scheduleRetry arms the reconnect timer unless the client has been
// explicitly closed. The timer is owned by the client so Close can
// cancel it.
func (c *Client) scheduleRetry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == StatusClosed {
		return
	}
	c.status = StatusConnecting
	c.retry = c.clock.AfterFunc(RetryDelay, func() {
		c.mu.Lock()
		if c.status != StatusConnecting {
			c.mu.Unlock()
			return
		}
		c.attempts++
		attempt := c.attempts
		c.mu.Unlock()

		c.logger.Info("reconnecting", "attempt", attempt)
		_ = c.connect()
	})
}

// readPump forwards every inbound raw message to the decoder until
// the connection drops. It holds no game semantics.
func (c *Client) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.connectionLost(conn, err)
			return
		}
		c.handleRaw(data)
	}
}

// connectionLost handles an unexpected drop of the given connection.
// State views keep their last known values; only the connectivity
// flag changes, and a retry is scheduled.
func (c *Client) connectionLost(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn || c.status == StatusClosed {
		// A stale pump, or an explicit teardown already handled it.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		c.logger.Warn("connection lost", "error", err)
	} else {
		c.logger.Info("connection closed", "error", err)
	}

	c.store.setConnected(false)
	c.scheduleRetry()
}

// handleRaw decodes one raw payload and folds the event into the
// store. Undecodable payloads are dropped with a diagnostic; they
// never abort the stream.
func (c *Client) handleRaw(data []byte) {
	ev, err := protocol.DecodeEvent(data)
	if err != nil {
		c.logger.Debug("dropping undecodable message", "error", err)
		return
	}
	c.logger.Debug("event", "type", ev.EventType())
	c.store.apply(ev)
}

// Close tears the session down: cancels any pending retry, closes the
// socket and stops further event delivery. Terminal.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.status == StatusClosed {
		c.mu.Unlock()
		return nil
	}
	c.status = StatusClosed
	if c.retry != nil {
		c.retry.Stop()
		c.retry = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}

	c.logger.Info("closed")
	c.store.setConnected(false)
	return nil
}
