package handler

import (
	"net/http"

	"github.com/mcoot/pickupgames/internal/api/request"
	"github.com/mcoot/pickupgames/internal/api/response"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/services/events"
)

// EventHandler handles event endpoints
type EventHandler struct {
	eventService *events.Service
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *events.Service) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// List handles GET /api/v1/events
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	upcoming, err := h.eventService.Future(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.EventListFromModel(upcoming))
}

// Create handles POST /api/v1/events
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), req.ToInput())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, response.EventFromModel(event))
}

// Get handles GET /api/v1/events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.eventService.Detail(r.Context(), eventID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.EventDetailFromView(detail))
}

// Update handles PATCH /api/v1/events/{id}
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), eventID(r), req.ToUpdate())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EventFromModel(event))
}

// Delete handles DELETE /api/v1/events/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), eventID(r)); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Participants handles GET /api/v1/events/{id}/participants
func (h *EventHandler) Participants(w http.ResponseWriter, r *http.Request) {
	users, err := h.eventService.Participants(r.Context(), eventID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Participants{Participants: response.UsersFromModel(users)})
}

// Pending handles GET /api/v1/events/{id}/requests
func (h *EventHandler) Pending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.eventService.PendingRequests(r.Context(), eventID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PendingRequestsFromView(pending))
}

// Eligibility handles GET /api/v1/events/{id}/eligibility
func (h *EventHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	el, err := h.eventService.Eligibility(r.Context(), eventID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Eligibility{Eligible: el.Eligible, Reason: el.Reason})
}

// Summary handles GET /api/v1/users/{id}/summary
func (h *EventHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.eventService.Summary(r.Context(), model.UserID(pathVar(r, "id")))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UserSummaryFromView(summary))
}

func eventID(r *http.Request) model.EventID {
	return model.EventID(pathVar(r, "id"))
}
