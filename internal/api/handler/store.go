package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pickupgames/internal/api/response"
	"github.com/mcoot/pickupgames/internal/api/sse"
	"github.com/mcoot/pickupgames/internal/store"
)

// StoreHandler handles whole-store operations and the change stream
type StoreHandler struct {
	store  *store.Store
	hub    *sse.Hub
	logger *slog.Logger
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(st *store.Store, hub *sse.Hub, logger *slog.Logger) *StoreHandler {
	return &StoreHandler{
		store:  st,
		hub:    hub,
		logger: logger,
	}
}

// Wipe handles DELETE /api/v1/store
func (h *StoreHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Wipe(r.Context()); err != nil {
		h.logger.Error("wipe failed", "error", err)
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// Changes handles GET /api/v1/changes
func (h *StoreHandler) Changes(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
