package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/pickupgames/internal/kv"
	"github.com/mcoot/pickupgames/internal/model"
)

// Collection names one persisted slice of state. The name doubles as its KV key.
type Collection string

const (
	CollectionUsers    Collection = "users"
	CollectionEvents   Collection = "events"
	CollectionRequests Collection = "requests"
	CollectionAuth     Collection = "auth"
)

// AllCollections lists every collection in persistence order
var AllCollections = []Collection{CollectionUsers, CollectionEvents, CollectionRequests, CollectionAuth}

// ErrClosed is returned by operations on a store after Close
var ErrClosed = errors.New("store is closed")

// Snapshot is an immutable view of the whole state at one revision.
// Callers must not modify the maps.
type Snapshot struct {
	Users    map[model.UserID]model.User
	Events   map[model.EventID]model.Event
	Requests map[model.RequestID]model.JoinRequest
	Auth     model.AuthState
	Revision uint64
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Users:    make(map[model.UserID]model.User),
		Events:   make(map[model.EventID]model.Event),
		Requests: make(map[model.RequestID]model.JoinRequest),
		Auth:     model.Unauthenticated(),
	}
}

// Change describes one committed update
type Change struct {
	Collections []Collection
	Revision    uint64
}

// Store holds the in-memory entity collections and keeps them synchronized
// with a KV store. Mutations are serialized; reads take a snapshot.
type Store struct {
	kv     kv.Store
	logger *slog.Logger

	mu     sync.RWMutex
	state  Snapshot
	closed bool

	// notifyMu orders notifications. It is taken while mu is held and
	// released once subscribers return.
	notifyMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func(Change)
	nextSub int
}

// Open hydrates a store from the KV store. Missing or unreadable collections
// start empty. Requests referencing missing events are pruned and a session
// pointing at a missing user is signed out; any such repair is persisted.
func Open(ctx context.Context, backing kv.Store, logger *slog.Logger) (*Store, error) {
	s := &Store{
		kv:     backing,
		logger: logger,
		subs:   make(map[int]func(Change)),
	}

	state, err := s.hydrate(ctx)
	if err != nil {
		return nil, err
	}
	s.state = state

	tx := newTx(state)
	if repaired := reconcile(tx); repaired > 0 {
		logger.Warn("repaired inconsistent state on load", "repairs", repaired)
		if err := s.commit(ctx, tx); err != nil {
			return nil, fmt.Errorf("persisting repaired state: %w", err)
		}
	}

	logger.Info("store opened",
		"users", len(s.state.Users),
		"events", len(s.state.Events),
		"requests", len(s.state.Requests),
		"authenticated", s.state.Auth.IsAuthenticated,
	)
	return s, nil
}

func (s *Store) hydrate(ctx context.Context) (Snapshot, error) {
	state := emptySnapshot()

	users, err := loadCollection[model.UserID, model.User](ctx, s, CollectionUsers)
	if err != nil {
		return state, err
	}
	if users != nil {
		state.Users = users
	}

	events, err := loadCollection[model.EventID, model.Event](ctx, s, CollectionEvents)
	if err != nil {
		return state, err
	}
	if events != nil {
		state.Events = events
	}

	requests, err := loadCollection[model.RequestID, model.JoinRequest](ctx, s, CollectionRequests)
	if err != nil {
		return state, err
	}
	if requests != nil {
		state.Requests = requests
	}

	raw, ok, err := s.kv.GetString(ctx, string(CollectionAuth))
	if err != nil {
		return state, fmt.Errorf("loading %s: %w", CollectionAuth, err)
	}
	if ok {
		auth, err := decodeAuth(raw)
		if err != nil {
			s.logger.Warn("discarding unreadable collection", "collection", CollectionAuth, "error", err)
		}
		state.Auth = auth
	}

	return state, nil
}

// loadCollection returns nil when the key is absent or cannot be decoded.
// Only KV failures are returned as errors.
func loadCollection[K ~string, V any](ctx context.Context, s *Store, c Collection) (map[K]V, error) {
	raw, ok, err := s.kv.GetString(ctx, string(c))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c, err)
	}
	if !ok {
		return nil, nil
	}
	m, err := decodeCollection[K, V](raw)
	if err != nil {
		s.logger.Warn("discarding unreadable collection", "collection", c, "error", err)
		return nil, nil
	}
	return m, nil
}

// reconcile removes dangling references and returns the number of repairs made
func reconcile(tx *Tx) int {
	snap := tx.Snapshot()
	repairs := 0

	orphaned := make(map[model.EventID]struct{})
	for _, r := range snap.Requests {
		if _, ok := snap.Events[r.EventID]; !ok {
			orphaned[r.EventID] = struct{}{}
		}
	}
	for eventID := range orphaned {
		repairs += tx.DeleteRequestsForEvent(eventID)
	}

	if id, ok := snap.Auth.UserID(); ok {
		if _, exists := snap.Users[id]; !exists {
			tx.SetAuth(model.Unauthenticated())
			repairs++
		}
	} else if snap.Auth.IsAuthenticated {
		tx.SetAuth(model.Unauthenticated())
		repairs++
	}

	return repairs
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update runs fn against a transaction and commits its staged changes. If fn
// returns an error nothing is written. All changed collections are written to
// the KV store in a single atomic call; memory is only replaced once that
// write succeeds.
func (s *Store) Update(ctx context.Context, fn func(tx *Tx) error) error {
	change, err := s.apply(ctx, fn)
	if err != nil || change == nil {
		return err
	}
	s.publish(*change)
	return nil
}

// apply runs fn and commits under mu. A nil change means nothing was staged.
// On a commit it returns holding notifyMu so notifications leave in revision order.
func (s *Store) apply(ctx context.Context, fn func(tx *Tx) error) (*Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	tx := newTx(s.state)
	if err := fn(tx); err != nil {
		return nil, err
	}

	changed := tx.changed()
	if len(changed) == 0 {
		return nil, nil
	}

	if err := s.commit(ctx, tx); err != nil {
		return nil, err
	}
	s.notifyMu.Lock()
	return &Change{Collections: changed, Revision: s.state.Revision}, nil
}

// commit must be called with mu held (or before the store is shared)
func (s *Store) commit(ctx context.Context, tx *Tx) error {
	next := tx.Snapshot()
	entries := make(map[string]string, 4)

	for _, c := range tx.changed() {
		var (
			value string
			err   error
		)
		switch c {
		case CollectionUsers:
			value, err = encodeCollection(next.Users)
		case CollectionEvents:
			value, err = encodeCollection(next.Events)
		case CollectionRequests:
			value, err = encodeCollection(next.Requests)
		case CollectionAuth:
			value, err = encodeAuth(next.Auth)
		}
		if err != nil {
			return fmt.Errorf("encoding %s: %w", c, err)
		}
		entries[string(c)] = value
	}

	if err := s.kv.SetMany(ctx, entries); err != nil {
		return fmt.Errorf("persisting %d collections: %w", len(entries), err)
	}

	next.Revision = s.state.Revision + 1
	s.state = next
	return nil
}

// Subscribe registers fn to be called after every committed change. Calls
// happen on the committing goroutine in revision order, so fn must not block
// or call Update.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// publish delivers change and releases the notifyMu taken by apply or reset
func (s *Store) publish(change Change) {
	defer s.notifyMu.Unlock()
	s.notify(change)
}

func (s *Store) notify(change Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

// Wipe clears the KV store and resets memory to the empty, signed-out state
func (s *Store) Wipe(ctx context.Context) error {
	change, err := s.reset(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("store wiped")
	s.publish(change)
	return nil
}

// reset follows the same locking contract as apply
func (s *Store) reset(ctx context.Context) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Change{}, ErrClosed
	}
	if err := s.kv.ClearAll(ctx); err != nil {
		return Change{}, fmt.Errorf("clearing store: %w", err)
	}

	next := emptySnapshot()
	next.Revision = s.state.Revision + 1
	s.state = next
	s.notifyMu.Lock()
	return Change{Collections: AllCollections, Revision: next.Revision}, nil
}

// Close flushes every collection to the KV store and releases memory.
// The KV store itself is left open for its owner to close.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	tx := newTx(s.state)
	tx.touchAll()
	if err := s.commit(ctx, tx); err != nil {
		return fmt.Errorf("flushing on close: %w", err)
	}

	s.state = emptySnapshot()
	s.closed = true
	s.logger.Info("store closed")
	return nil
}
