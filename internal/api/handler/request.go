package handler

import (
	"context"
	"net/http"

	"github.com/mcoot/pickupgames/internal/api/response"
	"github.com/mcoot/pickupgames/internal/model"
	"github.com/mcoot/pickupgames/internal/services/joins"
)

// RequestHandler handles join request endpoints
type RequestHandler struct {
	joinService *joins.Service
}

// NewRequestHandler creates a new join request handler
func NewRequestHandler(joinService *joins.Service) *RequestHandler {
	return &RequestHandler{
		joinService: joinService,
	}
}

// Join handles POST /api/v1/events/{id}/requests
func (h *RequestHandler) Join(w http.ResponseWriter, r *http.Request) {
	req, err := h.joinService.Create(r.Context(), eventID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.Created(w, response.JoinRequestFromModel(req))
}

// Accept handles POST /api/v1/requests/{id}/accept
func (h *RequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.joinService.Accept)
}

// Reject handles POST /api/v1/requests/{id}/reject
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.joinService.Reject)
}

// Cancel handles POST /api/v1/requests/{id}/cancel
func (h *RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.joinService.Cancel)
}

// Mine handles GET /api/v1/users/me/requests
func (h *RequestHandler) Mine(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.joinService.Mine(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.JoinRequestListFromModel(reqs))
}

func (h *RequestHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(context.Context, model.RequestID) (model.JoinRequest, error),
) {
	req, err := op(r.Context(), model.RequestID(pathVar(r, "id")))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.JoinRequestFromModel(req))
}
