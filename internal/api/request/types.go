package request

import (
	"time"

	"github.com/mcoot/pickupgames/internal/model"
)

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Sport       string    `json:"sport"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxPlayers  int       `json:"max_players"`
}

// ToInput converts the request to model input
func (r CreateEventRequest) ToInput() model.EventInput {
	return model.EventInput{
		Title:       r.Title,
		Sport:       r.Sport,
		Description: r.Description,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxPlayers:  r.MaxPlayers,
	}
}

// UpdateEventRequest is the request body for updating an event.
// Omitted fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Sport       *string    `json:"sport,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	MaxPlayers  *int       `json:"max_players,omitempty"`
}

// ToUpdate converts the request to a model update
func (r UpdateEventRequest) ToUpdate() model.EventUpdate {
	return model.EventUpdate{
		Title:       r.Title,
		Sport:       r.Sport,
		Description: r.Description,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		MaxPlayers:  r.MaxPlayers,
	}
}
