package views

import (
	"slices"

	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/store"
)

// UserSummary partitions a user's involvement across events. Each list is sorted.
type UserSummary struct {
	OrganizerOf       []model.EventID   `json:"organizerOf"`
	ParticipantOf     []model.EventID   `json:"participantOf"`
	PendingRequestIDs []model.RequestID `json:"pendingRequestIds"`
}

// PendingRequest is a PENDING join request together with its requester
type PendingRequest struct {
	Request model.JoinRequest `json:"request"`
	User    model.User        `json:"user"`
}

// CurrentUser resolves the signed-in user. It returns false when signed out
// or when the session refers to an unknown user.
func CurrentUser(snap store.Snapshot) (model.User, bool) {
	id, ok := snap.Auth.UserID()
	if !ok {
		return model.User{}, false
	}
	u, ok := snap.Users[id]
	return u, ok
}

// UserByUsername finds a user by exact username
func UserByUsername(snap store.Snapshot, username string) (model.User, bool) {
	for _, u := range snap.Users {
		if u.Username == username {
			return u, true
		}
	}
	return model.User{}, false
}

// Summary computes the per-user summary
func Summary(snap store.Snapshot, userID model.UserID) UserSummary {
	summary := UserSummary{
		OrganizerOf:       []model.EventID{},
		ParticipantOf:     []model.EventID{},
		PendingRequestIDs: []model.RequestID{},
	}
	for _, e := range snap.Events {
		if e.IsOrganizer(userID) {
			summary.OrganizerOf = append(summary.OrganizerOf, e.ID)
		}
	}
	for _, r := range snap.Requests {
		if r.UserID != userID {
			continue
		}
		switch r.Status {
		case model.RequestStatusAccepted:
			summary.ParticipantOf = append(summary.ParticipantOf, r.EventID)
		case model.RequestStatusPending:
			summary.PendingRequestIDs = append(summary.PendingRequestIDs, r.ID)
		}
	}
	slices.Sort(summary.OrganizerOf)
	slices.Sort(summary.ParticipantOf)
	slices.Sort(summary.PendingRequestIDs)
	return summary
}

// Participants returns the users with an ACCEPTED request for the event, in
// the order they requested. Requests from unknown users are skipped.
func Participants(snap store.Snapshot, eventID model.EventID) []model.User {
	out := []model.User{}
	for _, r := range requestsForEvent(snap, eventID) {
		if r.Status != model.RequestStatusAccepted {
			continue
		}
		if u, ok := snap.Users[r.UserID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// PendingRequests returns the event's PENDING requests with their requesters,
// oldest first. Requests from unknown users are skipped.
func PendingRequests(snap store.Snapshot, eventID model.EventID) []PendingRequest {
	out := []PendingRequest{}
	for _, r := range requestsForEvent(snap, eventID) {
		if r.Status != model.RequestStatusPending {
			continue
		}
		if u, ok := snap.Users[r.UserID]; ok {
			out = append(out, PendingRequest{Request: r, User: u})
		}
	}
	return out
}

// RequestsForUser returns every request made by the user, newest first
func RequestsForUser(snap store.Snapshot, userID model.UserID) []model.JoinRequest {
	out := []model.JoinRequest{}
	for _, r := range snap.Requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.JoinRequest) int {
		return oldestFirst(b, a)
	})
	return out
}

// ActiveRequest returns the user's PENDING or ACCEPTED request for the event
func ActiveRequest(snap store.Snapshot, eventID model.EventID, userID model.UserID) (model.JoinRequest, bool) {
	for _, r := range snap.Requests {
		if r.EventID == eventID && r.UserID == userID && r.Status.IsActive() {
			return r, true
		}
	}
	return model.JoinRequest{}, false
}
