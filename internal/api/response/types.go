package response

import (
	"time"

	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/views"
)

// User represents a user in API responses. The password hash is never exposed.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User
func UserFromModel(u model.User) User {
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// UsersFromModel converts a slice of users
func UsersFromModel(users []model.User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = UserFromModel(u)
	}
	return out
}

// Event represents a sporting event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Sport       string    `json:"sport"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxPlayers  int       `json:"max_players"`
	CreatedAt   time.Time `json:"created_at"`
	OrganizerID string    `json:"organizer_id"`
}

// EventFromModel converts a model.Event
func EventFromModel(e model.Event) Event {
	return Event{
		ID:          string(e.ID),
		Title:       e.Title,
		Sport:       e.Sport,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		MaxPlayers:  e.MaxPlayers,
		CreatedAt:   e.CreatedAt,
		OrganizerID: string(e.OrganizerID),
	}
}

// EventList is the response for listing events
type EventList struct {
	Events []Event `json:"events"`
}

// EventListFromModel converts a slice of events
func EventListFromModel(events []model.Event) EventList {
	out := EventList{Events: make([]Event, len(events))}
	for i, e := range events {
		out.Events[i] = EventFromModel(e)
	}
	return out
}

// JoinRequest represents a join request
type JoinRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JoinRequestFromModel converts a model.JoinRequest
func JoinRequestFromModel(r model.JoinRequest) JoinRequest {
	return JoinRequest{
		ID:        string(r.ID),
		UserID:    string(r.UserID),
		EventID:   string(r.EventID),
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// JoinRequestList is the response for listing join requests
type JoinRequestList struct {
	Requests []JoinRequest `json:"requests"`
}

// JoinRequestListFromModel converts a slice of requests
func JoinRequestListFromModel(reqs []model.JoinRequest) JoinRequestList {
	out := JoinRequestList{Requests: make([]JoinRequest, len(reqs))}
	for i, r := range reqs {
		out.Requests[i] = JoinRequestFromModel(r)
	}
	return out
}

// EventDetail is the aggregated event view
type EventDetail struct {
	Event             Event         `json:"event"`
	OrganizerUsername string        `json:"organizer_username"`
	AcceptedUserIDs   []string      `json:"accepted_user_ids"`
	PendingRequests   []JoinRequest `json:"pending_requests"`
}

// EventDetailFromView converts a views.EventDetail
func EventDetailFromView(d views.EventDetail) EventDetail {
	out := EventDetail{
		Event:             EventFromModel(d.Event),
		OrganizerUsername: d.OrganizerUsername,
		AcceptedUserIDs:   make([]string, len(d.AcceptedUserIDs)),
		PendingRequests:   make([]JoinRequest, len(d.PendingRequests)),
	}
	for i, id := range d.AcceptedUserIDs {
		out.AcceptedUserIDs[i] = string(id)
	}
	for i, r := range d.PendingRequests {
		out.PendingRequests[i] = JoinRequestFromModel(r)
	}
	return out
}

// Participants lists the accepted players of an event
type Participants struct {
	Participants []User `json:"participants"`
}

// PendingRequest is a pending request with its requester
type PendingRequest struct {
	Request JoinRequest `json:"request"`
	User    User        `json:"user"`
}

// PendingRequests lists an event's pending requests
type PendingRequests struct {
	Requests []PendingRequest `json:"requests"`
}

// PendingRequestsFromView converts views.PendingRequest values
func PendingRequestsFromView(pending []views.PendingRequest) PendingRequests {
	out := PendingRequests{Requests: make([]PendingRequest, len(pending))}
	for i, p := range pending {
		out.Requests[i] = PendingRequest{
			Request: JoinRequestFromModel(p.Request),
			User:    UserFromModel(p.User),
		}
	}
	return out
}

// Eligibility reports whether the caller may join an event
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// UserSummary partitions a user's involvement across events
type UserSummary struct {
	OrganizerOf       []string `json:"organizer_of"`
	ParticipantOf     []string `json:"participant_of"`
	PendingRequestIDs []string `json:"pending_request_ids"`
}

// UserSummaryFromView converts a views.UserSummary
func UserSummaryFromView(s views.UserSummary) UserSummary {
	return UserSummary{
		OrganizerOf:       stringsOf(s.OrganizerOf),
		ParticipantOf:     stringsOf(s.ParticipantOf),
		PendingRequestIDs: stringsOf(s.PendingRequestIDs),
	}
}

func stringsOf[T ~string](ids []T) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
