package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pickupgames/internal/kv"
	"github.com/mcoot/pickupgames/internal/kv/memory"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/testutil"
)

// failingKV wraps a kv.Store and fails SetMany on demand
type failingKV struct {
	kv.Store
	failSetMany bool
}

func (f *failingKV) SetMany(ctx context.Context, entries map[string]string) error {
	if f.failSetMany {
		return errors.New("disk full")
	}
	return f.Store.SetMany(ctx, entries)
}

type StoreSuite struct {
	suite.Suite
	ctx     context.Context
	backing *failingKV
	store   *Store
	now     time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.backing = &failingKV{Store: memory.New()}
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = s.open()
}

func (s *StoreSuite) open() *Store {
	st, err := Open(s.ctx, s.backing, testutil.NopLogger())
	s.Require().NoError(err)
	return st
}

func (s *StoreSuite) event(id model.EventID) model.Event {
	return model.Event{
		ID:          id,
		Title:       "Pickup " + string(id),
		StartTime:   s.now.Add(24 * time.Hour),
		EndTime:     s.now.Add(26 * time.Hour),
		MaxPlayers:  4,
		CreatedAt:   s.now,
		OrganizerID: "alice",
	}
}

func (s *StoreSuite) request(id model.RequestID, eventID model.EventID) model.JoinRequest {
	return model.JoinRequest{
		ID:        id,
		UserID:    "bob",
		EventID:   eventID,
		Status:    model.RequestStatusPending,
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
}

func (s *StoreSuite) TestOpenEmpty() {
	snap := s.store.Snapshot()
	s.Empty(snap.Users)
	s.Empty(snap.Events)
	s.Empty(snap.Requests)
	s.False(snap.Auth.IsAuthenticated)
	s.Equal(uint64(0), snap.Revision)
}

func (s *StoreSuite) TestUpdatePersistsAndSurvivesReopen() {
	err := s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutUser(model.User{ID: "alice", Username: "alice", CreatedAt: s.now})
		tx.PutEvent(s.event("e1"))
		tx.SetAuth(model.AuthenticatedAs("alice"))
		return nil
	})
	s.Require().NoError(err)

	reopened := s.open()
	snap := reopened.Snapshot()
	s.Equal("alice", snap.Users["alice"].Username)
	s.Equal("Pickup e1", snap.Events["e1"].Title)
	id, ok := snap.Auth.UserID()
	s.True(ok)
	s.Equal(model.UserID("alice"), id)
}

func (s *StoreSuite) TestSnapshotIsNotAffectedByLaterUpdates() {
	before := s.store.Snapshot()

	err := s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		return nil
	})
	s.Require().NoError(err)

	s.Empty(before.Events)
	s.Len(s.store.Snapshot().Events, 1)
	s.Equal(before.Revision+1, s.store.Snapshot().Revision)
}

func (s *StoreSuite) TestUpdateErrorDiscardsChanges() {
	boom := errors.New("boom")
	err := s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		return boom
	})
	s.ErrorIs(err, boom)
	s.Empty(s.store.Snapshot().Events)

	_, ok, _ := s.backing.GetString(s.ctx, "events")
	s.False(ok)
}

func (s *StoreSuite) TestFailedPersistLeavesMemoryUnchanged() {
	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		tx.PutRequest(s.request("r1", "e1"))
		return nil
	}))

	s.backing.failSetMany = true
	err := s.store.Update(s.ctx, func(tx *Tx) error {
		tx.DeleteEvent("e1")
		tx.DeleteRequestsForEvent("e1")
		return nil
	})
	s.Error(err)

	snap := s.store.Snapshot()
	s.Contains(snap.Events, model.EventID("e1"))
	s.Contains(snap.Requests, model.RequestID("r1"))
}

func (s *StoreSuite) TestNoOpUpdateDoesNotBumpRevision() {
	err := s.store.Update(s.ctx, func(tx *Tx) error { return nil })
	s.Require().NoError(err)
	s.Equal(uint64(0), s.store.Snapshot().Revision)
}

func (s *StoreSuite) TestTxSnapshotSeesStagedWrites() {
	err := s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		s.Contains(tx.Snapshot().Events, model.EventID("e1"))
		s.NotContains(s.store.state.Events, model.EventID("e1"))
		return nil
	})
	s.Require().NoError(err)
}

func (s *StoreSuite) TestDeleteRequestsForEvent() {
	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		tx.PutEvent(s.event("e2"))
		tx.PutRequest(s.request("r1", "e1"))
		tx.PutRequest(s.request("r2", "e1"))
		tx.PutRequest(s.request("r3", "e2"))
		return nil
	}))

	var removed int
	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		removed = tx.DeleteRequestsForEvent("e1")
		return nil
	}))

	s.Equal(2, removed)
	snap := s.store.Snapshot()
	s.Len(snap.Requests, 1)
	s.Contains(snap.Requests, model.RequestID("r3"))
}

func (s *StoreSuite) TestSubscribeReceivesChangedCollections() {
	var changes []Change
	unsubscribe := s.store.Subscribe(func(c Change) { changes = append(changes, c) })

	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		return nil
	}))
	unsubscribe()
	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e2"))
		return nil
	}))

	s.Require().Len(changes, 1)
	s.Equal([]Collection{CollectionEvents}, changes[0].Collections)
	s.Equal(uint64(1), changes[0].Revision)
}

func (s *StoreSuite) TestConcurrentUpdatesNotifyInRevisionOrder() {
	var (
		mu        sync.Mutex
		revisions []uint64
	)
	unsubscribe := s.store.Subscribe(func(c Change) {
		mu.Lock()
		revisions = append(revisions, c.Revision)
		mu.Unlock()
	})
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.store.Update(s.ctx, func(tx *Tx) error {
				tx.PutEvent(s.event(model.EventID(fmt.Sprintf("e%d", i))))
				return nil
			}))
		}()
	}
	wg.Wait()

	s.Require().Len(revisions, 50)
	for i, rev := range revisions {
		s.Equal(uint64(i+1), rev)
	}
}

func (s *StoreSuite) TestPanickingUpdateReleasesLock() {
	s.Panics(func() {
		_ = s.store.Update(s.ctx, func(tx *Tx) error {
			tx.PutEvent(s.event("e1"))
			panic("boom")
		})
	})

	done := make(chan error, 1)
	go func() {
		done <- s.store.Update(s.ctx, func(tx *Tx) error {
			tx.PutEvent(s.event("e2"))
			return nil
		})
	}()

	select {
	case err := <-done:
		s.Require().NoError(err)
	case <-time.After(time.Second):
		s.FailNow("update blocked after a panic")
	}
	s.NotContains(s.store.Snapshot().Events, model.EventID("e1"))
	s.Contains(s.store.Snapshot().Events, model.EventID("e2"))
}

func (s *StoreSuite) TestWipeNotifiesAllCollections() {
	var changes []Change
	unsubscribe := s.store.Subscribe(func(c Change) { changes = append(changes, c) })
	defer unsubscribe()

	s.Require().NoError(s.store.Wipe(s.ctx))

	s.Require().Len(changes, 1)
	s.Equal(AllCollections, changes[0].Collections)
	s.Equal(s.store.Snapshot().Revision, changes[0].Revision)
}

func (s *StoreSuite) TestOpenPrunesOrphanRequests() {
	s.Require().NoError(s.backing.Set(s.ctx, "events", `[]`))
	s.Require().NoError(s.backing.Set(s.ctx, "requests",
		`[["r1",{"id":"r1","userId":"bob","eventId":"gone","status":"PENDING"}]]`))

	st := s.open()
	s.Empty(st.Snapshot().Requests)

	raw, _, _ := s.backing.GetString(s.ctx, "requests")
	s.JSONEq(`[]`, raw)
}

func (s *StoreSuite) TestOpenSignsOutMissingUser() {
	s.Require().NoError(s.backing.Set(s.ctx, "auth", `{"isAuthenticated":true,"currentUserId":"ghost"}`))

	st := s.open()
	s.False(st.Snapshot().Auth.IsAuthenticated)
}

func (s *StoreSuite) TestOpenToleratesCorruptCollections() {
	s.Require().NoError(s.backing.Set(s.ctx, "users", `not json`))
	s.Require().NoError(s.backing.Set(s.ctx, "auth", `{{`))

	st := s.open()
	snap := st.Snapshot()
	s.Empty(snap.Users)
	s.False(snap.Auth.IsAuthenticated)
}

func (s *StoreSuite) TestOpenReadsLegacyEncoding() {
	s.Require().NoError(s.backing.Set(s.ctx, "users",
		`{"alice":{"id":"alice","username":"alice","passwordHash":"x"}}`))

	st := s.open()
	s.Equal("alice", st.Snapshot().Users["alice"].Username)
}

func (s *StoreSuite) TestWipe() {
	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutUser(model.User{ID: "alice", Username: "alice"})
		tx.SetAuth(model.AuthenticatedAs("alice"))
		return nil
	}))

	var notified Change
	s.store.Subscribe(func(c Change) { notified = c })

	s.Require().NoError(s.store.Wipe(s.ctx))

	snap := s.store.Snapshot()
	s.Empty(snap.Users)
	s.False(snap.Auth.IsAuthenticated)
	s.Equal(AllCollections, notified.Collections)

	_, ok, _ := s.backing.GetString(s.ctx, "users")
	s.False(ok)
}

func (s *StoreSuite) TestCloseFlushesAndRejectsFurtherUpdates() {
	s.Require().NoError(s.store.Update(s.ctx, func(tx *Tx) error {
		tx.PutEvent(s.event("e1"))
		return nil
	}))
	s.Require().NoError(s.backing.Delete(s.ctx, "events"))

	s.Require().NoError(s.store.Close(s.ctx))
	s.Empty(s.store.Snapshot().Events)

	raw, ok, _ := s.backing.GetString(s.ctx, "events")
	s.True(ok)
	s.Contains(raw, `"e1"`)

	err := s.store.Update(s.ctx, func(tx *Tx) error { return nil })
	s.ErrorIs(err, ErrClosed)
}
