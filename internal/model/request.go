package model

import "time"

// RequestID uniquely identifies a join request
type RequestID string

// RequestStatus is the lifecycle state of a join request
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
	RequestStatusExpired   RequestStatus = "EXPIRED"
)

// IsActive reports whether the status blocks another request for the same event
func (s RequestStatus) IsActive() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

// IsTerminal reports whether no further transition is possible
func (s RequestStatus) IsTerminal() bool {
	return s != RequestStatusPending
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Only PENDING requests move, and only to a terminal state.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case RequestStatusAccepted, RequestStatusRejected, RequestStatusCancelled, RequestStatusExpired:
		return true
	}
	return false
}

// JoinRequest is a user's bid to participate in an event
type JoinRequest struct {
	ID        RequestID     `json:"id"`
	UserID    UserID        `json:"userId"`
	EventID   EventID       `json:"eventId"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Transition returns a copy of the request moved to next at the given time
func (r JoinRequest) Transition(next RequestStatus, at time.Time) (JoinRequest, error) {
	if !r.Status.CanTransitionTo(next) {
		return r, ErrRequestNotPending
	}
	r.Status = next
	r.UpdatedAt = at
	return r, nil
}
