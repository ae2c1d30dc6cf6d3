package client

import (
	"sync"

	"github.com/lox/cribclient/internal/game"
	"github.com/lox/cribclient/internal/protocol"
)

// Snapshot is the latest pair of views plus connection status,
// handed to consumers as deep copies.
type Snapshot struct {
	Game      game.State
	Player    game.PlayerView
	Connected bool

	// Synced is false until the first state_sync has been folded in.
	Synced bool

	// LastError is the most recent transient fault (server error
	// event or transport error); cleared on successful reconnect.
	LastError string
}

// Subscriber receives a snapshot after every folded event. Callbacks
// run synchronously on the event goroutine: one event, one call, in
// arrival order.
type Subscriber func(Snapshot)

// Store owns the single mutable slot holding the current views.
// Mutation happens only through apply/setConnected/setError; readers
// get copies and can never corrupt the slot.
type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	subs    map[int]Subscriber
	nextSub int
}

// NewStore returns an empty store: no views yet, disconnected.
func NewStore() *Store {
	return &Store{subs: make(map[int]Subscriber)}
}

// Snapshot returns a deep copy of the current state pair.
func (st *Store) Snapshot() Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.snap.clone()
}

// Subscribe registers fn for change notifications and returns a
// cancel function. No replay: fn sees only changes after this call.
func (st *Store) Subscribe(fn Subscriber) (cancel func()) {
	st.mu.Lock()
	id := st.nextSub
	st.nextSub++
	st.subs[id] = fn
	st.mu.Unlock()

	return func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}

// apply folds one event into the views and notifies subscribers.
func (st *Store) apply(ev protocol.Event) {
	st.mu.Lock()
	st.snap.Game, st.snap.Player = game.Apply(st.snap.Game, st.snap.Player, ev)
	switch e := ev.(type) {
	case *protocol.ErrorEvent:
		st.snap.LastError = e.Message
	case *protocol.StateSync:
		st.snap.Synced = true
	}
	st.mu.Unlock()

	st.notify()
}

// setConnected flags transport connectivity. Views are left at their
// last known values: stale-but-present beats empty during an outage.
func (st *Store) setConnected(connected bool) {
	st.mu.Lock()
	st.snap.Connected = connected
	if connected {
		st.snap.LastError = ""
	}
	st.mu.Unlock()

	st.notify()
}

// setError records a transport fault message.
func (st *Store) setError(msg string) {
	st.mu.Lock()
	st.snap.LastError = msg
	st.mu.Unlock()

	st.notify()
}

func (st *Store) notify() {
	st.mu.RLock()
	snap := st.snap.clone()
	subs := make([]Subscriber, 0, len(st.subs))
	for _, fn := range st.subs {
		subs = append(subs, fn)
	}
	st.mu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

func (s Snapshot) clone() Snapshot {
	s.Game = s.Game.Clone()
	s.Player = s.Player.Clone()
	return s
}
