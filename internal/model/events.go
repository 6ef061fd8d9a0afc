package model

import "time"

// EventID uniquely identifies a sporting event
type EventID string

// Event is a bookable sporting activity created by an organizer
type Event struct {
	ID          EventID   `json:"id"`
	Title       string    `json:"title"`
	Sport       string    `json:"sport"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"` // always after StartTime
	MaxPlayers  int       `json:"maxPlayers"`
	CreatedAt   time.Time `json:"createdAt"`
	OrganizerID UserID    `json:"organizerId"`
}

// MinPlayers is the lowest allowed value for Event.MaxPlayers
const MinPlayers = 2

// HasStarted reports whether the event's start time is at or before now
func (e Event) HasStarted(now time.Time) bool {
	return !e.StartTime.After(now)
}

// IsOrganizer reports whether the given user organizes this event
func (e Event) IsOrganizer(userID UserID) bool {
	return e.OrganizerID == userID
}

// EventInput holds the caller-supplied fields for a new event
type EventInput struct {
	Title       string
	Sport       string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time `validate:"gtfield=StartTime"`
	MaxPlayers  int       `validate:"min=2"`
}

// Input returns the event's caller-supplied fields
func (e Event) Input() EventInput {
	return EventInput{
		Title:       e.Title,
		Sport:       e.Sport,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		MaxPlayers:  e.MaxPlayers,
	}
}

// EventUpdate holds optional field changes. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Sport       *string
	Description *string
	Location    *string
	StartTime   *time.Time
	EndTime     *time.Time
	MaxPlayers  *int
}

// Apply merges the update into a copy of the event
func (u EventUpdate) Apply(e Event) Event {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Sport != nil {
		e.Sport = *u.Sport
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.StartTime != nil {
		e.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		e.EndTime = *u.EndTime
	}
	if u.MaxPlayers != nil {
		e.MaxPlayers = *u.MaxPlayers
	}
	return e
}
