package model

import "errors"

// Errors carry the reason shown to the user, so their text is part of the contract
var (
	// Input errors
	ErrInvalidInput      = errors.New("Invalid input")
	ErrInvalidTimeRange  = errors.New("End time must be after start time")
	ErrInvalidMaxPlayers = errors.New("Max players must be at least 2")
	ErrMaxPlayersTooLow  = errors.New("Max players cannot be lower than the number of accepted players")

	// Auth errors
	ErrNotAuthenticated   = errors.New("You must be logged in")
	ErrUserNotFound       = errors.New("User not found")
	ErrUsernameTaken      = errors.New("Username already exists")
	ErrInvalidCredentials = errors.New("Invalid username or password")

	// Event errors
	ErrEventNotFound       = errors.New("Event not found")
	ErrNotOrganizerUpdate  = errors.New("Only the organizer can update the event")
	ErrNotOrganizerDelete  = errors.New("Only the organizer can delete the event")
	ErrNotOrganizerRespond = errors.New("Only the organizer can respond to join requests")
	ErrEventStarted        = errors.New("Event has already started")
	ErrEventFull           = errors.New("Event is full")

	// Join request errors
	ErrOrganizerCannotJoin = errors.New("Organizer cannot join their own event")
	ErrAlreadyRequested    = errors.New("You already have an active request for this event")
	ErrRequestNotFound     = errors.New("Join request not found")
	ErrRequestNotPending   = errors.New("Join request is not pending")
	ErrNotRequester        = errors.New("Only the requester can cancel the request")
)

var domainErrors = []error{
	ErrInvalidInput, ErrInvalidTimeRange, ErrInvalidMaxPlayers, ErrMaxPlayersTooLow,
	ErrNotAuthenticated, ErrUserNotFound, ErrUsernameTaken, ErrInvalidCredentials,
	ErrEventNotFound, ErrNotOrganizerUpdate, ErrNotOrganizerDelete, ErrNotOrganizerRespond,
	ErrEventStarted, ErrEventFull, ErrOrganizerCannotJoin, ErrAlreadyRequested,
	ErrRequestNotFound, ErrRequestNotPending, ErrNotRequester,
}

// IsDomainError reports whether err is a business-rule rejection rather than
// an infrastructure failure
func IsDomainError(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
