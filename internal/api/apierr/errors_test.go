package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/pickupgames/internal/model"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"event full", model.ErrEventFull, http.StatusConflict, CodeEventFull, "Event is full"},
		{"wrapped started", fmt.Errorf("accepting: %w", model.ErrEventStarted), http.StatusConflict, CodeEventStarted, "Event has already started"},
		{"not organizer", model.ErrNotOrganizerUpdate, http.StatusForbidden, CodeNotOrganizer, "Only the organizer can update the event"},
		{"not authenticated", model.ErrNotAuthenticated, http.StatusUnauthorized, CodeUnauthorized, "You must be logged in"},
		{"missing event", model.ErrEventNotFound, http.StatusNotFound, CodeEventNotFound, "Event not found"},
		{"time range", model.ErrInvalidTimeRange, http.StatusBadRequest, CodeInvalidInput, "End time must be after start time"},
		{"input detail", fmt.Errorf("%w: Username failed required", model.ErrInvalidInput), http.StatusBadRequest, CodeInvalidInput, "Invalid input: Username failed required"},
		{"invalid request", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest, "bad body"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternalError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.code, Code(tt.err))
		})
	}
}
