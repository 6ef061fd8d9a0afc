package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const timeLayout = "Mon 2 Jan 2006 15:04"

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to w, and errors to errW
func NewOutput(format string, w, errW io.Writer) *Output {
	return &Output{format: format, w: w, errW: errW}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		body := map[string]string{"message": err.Error()}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			body["code"] = apiErr.Code
		}
		errData := map[string]any{"error": body}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.errW, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case Event:
		o.printEvent(v)
	case EventList:
		o.printEventList(v)
	case EventDetail:
		o.printEventDetail(v)
	case JoinRequest:
		o.printJoinRequest(v)
	case JoinRequestList:
		o.printJoinRequestList(v)
	case Participants:
		o.printParticipants(v)
	case PendingRequests:
		o.printPendingRequests(v)
	case Eligibility:
		o.printEligibility(v)
	case UserSummary:
		o.printUserSummary(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Event response type
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

// EventList response type
type EventList struct {
	Events []Event `json:"events"`
}

// EventDetail response type
type EventDetail struct {
	Event             Event         `json:"event"`
	OrganizerUsername string        `json:"organizer_username"`
	AcceptedUserIDs   []string      `json:"accepted_user_ids"`
	PendingRequests   []JoinRequest `json:"pending_requests"`
}

// JoinRequest response type
type JoinRequest struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JoinRequestList response type
type JoinRequestList struct {
	Requests []JoinRequest `json:"requests"`
}

// Participants response type
type Participants struct {
	Participants []User `json:"participants"`
}

// PendingRequest response type
type PendingRequest struct {
	Request JoinRequest `json:"request"`
	User    User        `json:"user"`
}

// PendingRequests response type
type PendingRequests struct {
	Requests []PendingRequest `json:"requests"`
}

// Eligibility response type
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// UserSummary response type
type UserSummary struct {
	OrganizerOf       []string `json:"organizer_of"`
	ParticipantOf     []string `json:"participant_of"`
	PendingRequestIDs []string `json:"pending_request_ids"`
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Revision uint64 `json:"revision"`
}

func (o *Output) printUser(u User) {
	o.printf("User: %s (%s)\n", u.Username, u.ID)
}

func (o *Output) printEvent(e Event) {
	o.printf("Event: %s (%s)\n", e.Title, e.ID)
	if e.Sport != "" {
		o.printf("Sport: %s\n", e.Sport)
	}
	if e.Location != "" {
		o.printf("Location: %s\n", e.Location)
	}
	o.printf("When: %s - %s\n", e.StartTime.Local().Format(timeLayout), e.EndTime.Local().Format(timeLayout))
	o.printf("Max Players: %d\n", e.MaxPlayers)
	o.printf("Organizer: %s\n", e.OrganizerID)
	if e.Description != "" {
		o.printf("\n%s\n", e.Description)
	}
}

func (o *Output) printEventList(l EventList) {
	if len(l.Events) == 0 {
		o.printf("No upcoming events\n")
		return
	}
	for _, e := range l.Events {
		o.printf("%s  %-24s %-12s %d players  (%s)\n",
			e.StartTime.Local().Format(timeLayout), e.Title, e.Sport, e.MaxPlayers, e.ID)
	}
}

func (o *Output) printEventDetail(d EventDetail) {
	o.printEvent(d.Event)
	o.printf("Organizer Name: %s\n", d.OrganizerUsername)
	o.printf("Accepted (%d/%d): %s\n", len(d.AcceptedUserIDs), d.Event.MaxPlayers, strings.Join(d.AcceptedUserIDs, ", "))
	if len(d.PendingRequests) > 0 {
		o.printf("Pending Requests (%d):\n", len(d.PendingRequests))
		for _, r := range d.PendingRequests {
			o.printf("  - %s from %s\n", r.ID, r.UserID)
		}
	}
}

func (o *Output) printJoinRequest(r JoinRequest) {
	o.printf("Request: %s\n", r.ID)
	o.printf("Event: %s\n", r.EventID)
	o.printf("User: %s\n", r.UserID)
	o.printf("Status: %s\n", r.Status)
}

func (o *Output) printJoinRequestList(l JoinRequestList) {
	if len(l.Requests) == 0 {
		o.printf("No join requests\n")
		return
	}
	for _, r := range l.Requests {
		o.printf("%-10s %s  event %s\n", r.Status, r.ID, r.EventID)
	}
}

func (o *Output) printParticipants(p Participants) {
	o.printf("Participants (%d):\n", len(p.Participants))
	for _, u := range p.Participants {
		o.printf("  - %s (%s)\n", u.Username, u.ID)
	}
}

func (o *Output) printPendingRequests(p PendingRequests) {
	o.printf("Pending Requests (%d):\n", len(p.Requests))
	for _, r := range p.Requests {
		o.printf("  - %s from %s (%s)\n", r.Request.ID, r.User.Username, r.User.ID)
	}
}

func (o *Output) printEligibility(e Eligibility) {
	if e.Eligible {
		o.printf("You can join this event\n")
		return
	}
	o.printf("Cannot join: %s\n", e.Reason)
}

func (o *Output) printUserSummary(s UserSummary) {
	o.printf("Organizing: %s\n", joinOrNone(s.OrganizerOf))
	o.printf("Playing in: %s\n", joinOrNone(s.ParticipantOf))
	o.printf("Pending: %s\n", joinOrNone(s.PendingRequestIDs))
}

func (o *Output) printHealthResult(h HealthResult) {
	o.printf("Status: %s\n", h.Status)
	o.printf("Revision: %d\n", h.Revision)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
