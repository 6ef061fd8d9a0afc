package views

import (
	"cmp"
	"slices"
	"time"

	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/store"
)

// EventDetail aggregates an event with its organizer and requests
type EventDetail struct {
	Event             model.Event         `json:"event"`
	OrganizerUsername string              `json:"organizerUsername"`
	AcceptedUserIDs   []model.UserID      `json:"acceptedUserIds"`
	PendingRequests   []model.JoinRequest `json:"pendingRequests"`
}

// FutureEvents returns events starting after now, earliest first.
// Events with the same start time are ordered by id.
func FutureEvents(snap store.Snapshot, now time.Time) []model.Event {
	out := make([]model.Event, 0, len(snap.Events))
	for _, e := range snap.Events {
		if e.StartTime.After(now) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b model.Event) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Detail returns the aggregated view of one event, or false if it is unknown.
// The organizer username is empty if the organizer record is missing.
func Detail(snap store.Snapshot, eventID model.EventID) (EventDetail, bool) {
	e, ok := snap.Events[eventID]
	if !ok {
		return EventDetail{}, false
	}

	detail := EventDetail{
		Event:           e,
		AcceptedUserIDs: []model.UserID{},
		PendingRequests: []model.JoinRequest{},
	}
	if organizer, ok := snap.Users[e.OrganizerID]; ok {
		detail.OrganizerUsername = organizer.Username
	}

	for _, r := range requestsForEvent(snap, eventID) {
		switch r.Status {
		case model.RequestStatusAccepted:
			detail.AcceptedUserIDs = append(detail.AcceptedUserIDs, r.UserID)
		case model.RequestStatusPending:
			detail.PendingRequests = append(detail.PendingRequests, r)
		}
	}
	return detail, true
}

// AcceptedCount returns the number of ACCEPTED requests for an event
func AcceptedCount(snap store.Snapshot, eventID model.EventID) int {
	n := 0
	for _, r := range snap.Requests {
		if r.EventID == eventID && r.Status == model.RequestStatusAccepted {
			n++
		}
	}
	return n
}

// IsFull reports whether the event has no accepted places left
func IsFull(snap store.Snapshot, e model.Event) bool {
	return AcceptedCount(snap, e.ID) >= e.MaxPlayers
}

// requestsForEvent returns the event's requests oldest first
func requestsForEvent(snap store.Snapshot, eventID model.EventID) []model.JoinRequest {
	var out []model.JoinRequest
	for _, r := range snap.Requests {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, oldestFirst)
	return out
}

func oldestFirst(a, b model.JoinRequest) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
