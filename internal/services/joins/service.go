package joins

import (
	"context"
	"log/slog"

	"github.com/mcoot/pickupgames/internal/dependencies/clock"
	"github.com/mcoot/pickupgames/internal/dependencies/ids"
	"github.com/mcoot/pickupgames/internal/metrics"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/services/expiry"
	"github.com/mcoot/pickupgames/internal/store"
	"github.com/mcoot/pickupgames/internal/views"
)

// Service drives the join request state machine
type Service struct {
	store   *store.Store
	sweeper *expiry.Sweeper
	clock   clock.Clock
	ids     ids.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new joins Service
func New(
	st *store.Store,
	sweeper *expiry.Sweeper,
	clock clock.Clock,
	ids ids.Generator,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:   st,
		sweeper: sweeper,
		clock:   clock,
		ids:     ids,
		metrics: m,
		logger:  logger.With(slog.String("component", "joins")),
	}
}

// Create files a PENDING request from the signed-in user
func (s *Service) Create(ctx context.Context, eventID model.EventID) (req model.JoinRequest, err error) {
	defer func() { s.metrics.RecordOperation("create_request", err, model.IsDomainError) }()

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		snap := tx.Snapshot()
		user, ok := views.CurrentUser(snap)
		if !ok {
			return model.ErrNotAuthenticated
		}
		now := s.clock.Now()
		if err := views.CanJoin(snap, eventID, user.ID, now); err != nil {
			return err
		}

		req = model.JoinRequest{
			ID:        model.RequestID(s.ids.NewID()),
			UserID:    user.ID,
			EventID:   eventID,
			Status:    model.RequestStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		tx.PutRequest(req)
		return nil
	})
	if err != nil {
		return model.JoinRequest{}, err
	}

	s.logger.Info("join request created", "request_id", req.ID, "event_id", eventID, "user_id", req.UserID)
	return req, nil
}

// Accept moves a PENDING request to ACCEPTED. Only the organizer may accept,
// and only while the event has not started and has room.
func (s *Service) Accept(ctx context.Context, id model.RequestID) (model.JoinRequest, error) {
	return s.respond(ctx, "accept_request", id, model.RequestStatusAccepted)
}

// Reject moves a PENDING request to REJECTED. Only the organizer may reject.
func (s *Service) Reject(ctx context.Context, id model.RequestID) (model.JoinRequest, error) {
	return s.respond(ctx, "reject_request", id, model.RequestStatusRejected)
}

func (s *Service) respond(
	ctx context.Context,
	operation string,
	id model.RequestID,
	next model.RequestStatus,
) (req model.JoinRequest, err error) {
	defer func() { s.metrics.RecordOperation(operation, err, model.IsDomainError) }()

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		snap := tx.Snapshot()
		caller, ok := views.CurrentUser(snap)
		if !ok {
			return model.ErrNotAuthenticated
		}
		existing, ok := snap.Requests[id]
		if !ok {
			return model.ErrRequestNotFound
		}
		event, ok := snap.Events[existing.EventID]
		if !ok {
			return model.ErrEventNotFound
		}
		if !event.IsOrganizer(caller.ID) {
			return model.ErrNotOrganizerRespond
		}
		if existing.Status != model.RequestStatusPending {
			return model.ErrRequestNotPending
		}

		now := s.clock.Now()
		if next == model.RequestStatusAccepted {
			if event.HasStarted(now) {
				return model.ErrEventStarted
			}
			if views.IsFull(snap, event) {
				return model.ErrEventFull
			}
		}

		updated, err := existing.Transition(next, now)
		if err != nil {
			return err
		}
		req = updated
		tx.PutRequest(req)
		return nil
	})
	if err != nil {
		return model.JoinRequest{}, err
	}

	s.logger.Info("join request answered", "request_id", id, "status", req.Status)
	return req, nil
}

// Cancel moves the caller's own PENDING request to CANCELLED before the event starts
func (s *Service) Cancel(ctx context.Context, id model.RequestID) (req model.JoinRequest, err error) {
	defer func() { s.metrics.RecordOperation("cancel_request", err, model.IsDomainError) }()

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		snap := tx.Snapshot()
		caller, ok := views.CurrentUser(snap)
		if !ok {
			return model.ErrNotAuthenticated
		}
		existing, ok := snap.Requests[id]
		if !ok {
			return model.ErrRequestNotFound
		}
		if existing.UserID != caller.ID {
			return model.ErrNotRequester
		}
		if existing.Status != model.RequestStatusPending {
			return model.ErrRequestNotPending
		}

		now := s.clock.Now()
		// A missing event counts as started
		if event, ok := snap.Events[existing.EventID]; !ok || event.HasStarted(now) {
			return model.ErrEventStarted
		}

		updated, err := existing.Transition(model.RequestStatusCancelled, now)
		if err != nil {
			return err
		}
		req = updated
		tx.PutRequest(req)
		return nil
	})
	if err != nil {
		return model.JoinRequest{}, err
	}

	s.logger.Info("join request cancelled", "request_id", id)
	return req, nil
}

// Mine returns every request made by the signed-in user, newest first
func (s *Service) Mine(ctx context.Context) ([]model.JoinRequest, error) {
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	user, ok := views.CurrentUser(snap)
	if !ok {
		return nil, model.ErrNotAuthenticated
	}
	return views.RequestsForUser(snap, user.ID), nil
}
