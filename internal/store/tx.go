package store

import (
	"maps"

	"github.com/mcoot/pickupgames/internal/model"
)

// Tx stages changes against a snapshot. Each collection is cloned on its
// first write, so maps already published to readers are never modified.
type Tx struct {
	base Snapshot

	users    map[model.UserID]model.User
	events   map[model.EventID]model.Event
	requests map[model.RequestID]model.JoinRequest
	auth     *model.AuthState
}

func newTx(base Snapshot) *Tx {
	return &Tx{base: base}
}

// Snapshot returns the state as seen by this transaction, staged writes included.
// The returned maps must not be modified.
func (tx *Tx) Snapshot() Snapshot {
	snap := tx.base
	if tx.users != nil {
		snap.Users = tx.users
	}
	if tx.events != nil {
		snap.Events = tx.events
	}
	if tx.requests != nil {
		snap.Requests = tx.requests
	}
	if tx.auth != nil {
		snap.Auth = *tx.auth
	}
	return snap
}

// PutUser inserts or replaces a user
func (tx *Tx) PutUser(u model.User) {
	if tx.users == nil {
		tx.users = cloneMap(tx.base.Users)
	}
	tx.users[u.ID] = u
}

// PutEvent inserts or replaces an event
func (tx *Tx) PutEvent(e model.Event) {
	tx.writableEvents()[e.ID] = e
}

// DeleteEvent removes an event. Its requests are left to the caller.
func (tx *Tx) DeleteEvent(id model.EventID) {
	delete(tx.writableEvents(), id)
}

// PutRequest inserts or replaces a join request
func (tx *Tx) PutRequest(r model.JoinRequest) {
	tx.writableRequests()[r.ID] = r
}

// DeleteRequestsForEvent removes every request referencing the event and
// returns how many were removed
func (tx *Tx) DeleteRequestsForEvent(eventID model.EventID) int {
	current := tx.Snapshot().Requests
	removed := 0
	for _, r := range current {
		if r.EventID == eventID {
			removed++
		}
	}
	if removed == 0 {
		return 0
	}
	reqs := tx.writableRequests()
	maps.DeleteFunc(reqs, func(_ model.RequestID, r model.JoinRequest) bool {
		return r.EventID == eventID
	})
	return removed
}

// SetAuth replaces the auth state
func (tx *Tx) SetAuth(a model.AuthState) {
	tx.auth = &a
}

func (tx *Tx) writableEvents() map[model.EventID]model.Event {
	if tx.events == nil {
		tx.events = cloneMap(tx.base.Events)
	}
	return tx.events
}

func (tx *Tx) writableRequests() map[model.RequestID]model.JoinRequest {
	if tx.requests == nil {
		tx.requests = cloneMap(tx.base.Requests)
	}
	return tx.requests
}

// touchAll marks every collection as changed so a commit rewrites all of them
func (tx *Tx) touchAll() {
	snap := tx.Snapshot()
	tx.users = cloneMap(snap.Users)
	tx.events = cloneMap(snap.Events)
	tx.requests = cloneMap(snap.Requests)
	tx.SetAuth(snap.Auth)
}

// changed lists the collections this transaction replaces
func (tx *Tx) changed() []Collection {
	var out []Collection
	if tx.users != nil {
		out = append(out, CollectionUsers)
	}
	if tx.events != nil {
		out = append(out, CollectionEvents)
	}
	if tx.requests != nil {
		out = append(out, CollectionRequests)
	}
	if tx.auth != nil {
		out = append(out, CollectionAuth)
	}
	return out
}

// cloneMap copies m, always returning a non-nil map
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	maps.Copy(out, m)
	return out
}
