package views

import (
	"time"

	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/store"
)

// Eligibility is the outcome of a join check in a form suitable for display
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// CanJoin returns nil if the user may request to join the event, otherwise
// the first failing check. Checks run in a fixed order: existence, start
// time, organizer, existing request, capacity.
func CanJoin(snap store.Snapshot, eventID model.EventID, userID model.UserID, now time.Time) error {
	e, ok := snap.Events[eventID]
	if !ok {
		return model.ErrEventNotFound
	}
	if e.HasStarted(now) {
		return model.ErrEventStarted
	}
	if e.IsOrganizer(userID) {
		return model.ErrOrganizerCannotJoin
	}
	if _, ok := ActiveRequest(snap, eventID, userID); ok {
		return model.ErrAlreadyRequested
	}
	if IsFull(snap, e) {
		return model.ErrEventFull
	}
	return nil
}

// EligibilityFor wraps CanJoin
func EligibilityFor(snap store.Snapshot, eventID model.EventID, userID model.UserID, now time.Time) Eligibility {
	if err := CanJoin(snap, eventID, userID, now); err != nil {
		return Eligibility{Reason: err.Error()}
	}
	return Eligibility{Eligible: true}
}
