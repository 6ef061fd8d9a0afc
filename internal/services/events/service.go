package events

import (
	"context"
	"log/slog"

	"github.com/mcoot/pickupgames/internal/dependencies/clock"
	"github.com/mcoot/pickupgames/internal/dependencies/ids"
	"github.com/mcoot/pickupgames/internal/metrics"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/services/expiry"
	"github.com/mcoot/pickupgames/internal/store"
	"github.com/mcoot/pickupgames/internal/validation"
	"github.com/mcoot/pickupgames/internal/views"
)

// Service manages sporting events and the read views over them
type Service struct {
	store   *store.Store
	sweeper *expiry.Sweeper
	clock   clock.Clock
	ids     ids.Generator
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a new events Service
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
		logger:  logger.With(slog.String("component", "events")),
	}
}

// Create adds an event organized by the signed-in user
func (s *Service) Create(ctx context.Context, input model.EventInput) (event model.Event, err error) {
	defer func() { s.metrics.RecordOperation("create_event", err, model.IsDomainError) }()

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		organizer, ok := views.CurrentUser(tx.Snapshot())
		if !ok {
			return model.ErrNotAuthenticated
		}
		if err := validation.Event(ctx, input); err != nil {
			return err
		}

		event = model.Event{
			ID:          model.EventID(s.ids.NewID()),
			Title:       input.Title,
			Sport:       input.Sport,
			Description: input.Description,
			Location:    input.Location,
			StartTime:   input.StartTime,
			EndTime:     input.EndTime,
			MaxPlayers:  input.MaxPlayers,
			CreatedAt:   s.clock.Now(),
			OrganizerID: organizer.ID,
		}
		tx.PutEvent(event)
		return nil
	})
	if err != nil {
		return model.Event{}, err
	}

	s.logger.Info("event created", "event_id", event.ID, "organizer_id", event.OrganizerID)
	return event, nil
}

// Update merges field changes into an event. Only the organizer may update,
// and the result must still be a valid event able to hold its accepted players.
func (s *Service) Update(ctx context.Context, id model.EventID, update model.EventUpdate) (event model.Event, err error) {
	defer func() { s.metrics.RecordOperation("update_event", err, model.IsDomainError) }()

	err = s.store.Update(ctx, func(tx *store.Tx) error {
		snap := tx.Snapshot()
		caller, ok := views.CurrentUser(snap)
		if !ok {
			return model.ErrNotAuthenticated
		}
		existing, ok := snap.Events[id]
		if !ok {
			return model.ErrEventNotFound
		}
		if !existing.IsOrganizer(caller.ID) {
			return model.ErrNotOrganizerUpdate
		}

		event = update.Apply(existing)
		if err := validation.Event(ctx, event.Input()); err != nil {
			return err
		}
		if event.MaxPlayers < views.AcceptedCount(snap, id) {
			return model.ErrMaxPlayersTooLow
		}
		tx.PutEvent(event)
		return nil
	})
	if err != nil {
		return model.Event{}, err
	}

	s.logger.Info("event updated", "event_id", id)
	return event, nil
}

// Delete removes an event together with all of its join requests
func (s *Service) Delete(ctx context.Context, id model.EventID) (err error) {
	defer func() { s.metrics.RecordOperation("delete_event", err, model.IsDomainError) }()

	var removed int
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		snap := tx.Snapshot()
		caller, ok := views.CurrentUser(snap)
		if !ok {
			return model.ErrNotAuthenticated
		}
		existing, ok := snap.Events[id]
		if !ok {
			return model.ErrEventNotFound
		}
		if !existing.IsOrganizer(caller.ID) {
			return model.ErrNotOrganizerDelete
		}

		tx.DeleteEvent(id)
		removed = tx.DeleteRequestsForEvent(id)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("event deleted", "event_id", id, "requests_removed", removed)
	return nil
}

// Future returns upcoming events, earliest first
func (s *Service) Future(ctx context.Context) ([]model.Event, error) {
	snap, err := s.fresh(ctx)
	if err != nil {
		return nil, err
	}
	return views.FutureEvents(snap, s.clock.Now()), nil
}

// Detail returns the aggregated view of one event
func (s *Service) Detail(ctx context.Context, id model.EventID) (views.EventDetail, error) {
	snap, err := s.fresh(ctx)
	if err != nil {
		return views.EventDetail{}, err
	}
	detail, ok := views.Detail(snap, id)
	if !ok {
		return views.EventDetail{}, model.ErrEventNotFound
	}
	return detail, nil
}

// Participants returns the accepted players of an event
func (s *Service) Participants(ctx context.Context, id model.EventID) ([]model.User, error) {
	snap := s.store.Snapshot()
	if _, ok := snap.Events[id]; !ok {
		return nil, model.ErrEventNotFound
	}
	return views.Participants(snap, id), nil
}

// PendingRequests returns the event's pending requests with their requesters
func (s *Service) PendingRequests(ctx context.Context, id model.EventID) ([]views.PendingRequest, error) {
	snap, err := s.fresh(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := snap.Events[id]; !ok {
		return nil, model.ErrEventNotFound
	}
	return views.PendingRequests(snap, id), nil
}

// Eligibility reports whether the signed-in user may request to join
func (s *Service) Eligibility(ctx context.Context, id model.EventID) (views.Eligibility, error) {
	snap, err := s.fresh(ctx)
	if err != nil {
		return views.Eligibility{}, err
	}
	user, ok := views.CurrentUser(snap)
	if !ok {
		return views.Eligibility{}, model.ErrNotAuthenticated
	}
	return views.EligibilityFor(snap, id, user.ID, s.clock.Now()), nil
}

// Summary returns a user's involvement across events
func (s *Service) Summary(ctx context.Context, userID model.UserID) (views.UserSummary, error) {
	snap, err := s.fresh(ctx)
	if err != nil {
		return views.UserSummary{}, err
	}
	if _, ok := snap.Users[userID]; !ok {
		return views.UserSummary{}, model.ErrUserNotFound
	}
	return views.Summary(snap, userID), nil
}

// fresh expires stale requests before returning a snapshot
func (s *Service) fresh(ctx context.Context) (store.Snapshot, error) {
	if _, err := s.sweeper.Sweep(ctx); err != nil {
		return store.Snapshot{}, err
	}
	return s.store.Snapshot(), nil
}
