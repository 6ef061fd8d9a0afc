package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pickupgames/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUsernameTaken       = "USERNAME_TAKEN"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeEventNotFound       = "EVENT_NOT_FOUND"
	CodeRequestNotFound     = "REQUEST_NOT_FOUND"
	CodeNotOrganizer        = "NOT_ORGANIZER"
	CodeNotRequester        = "NOT_REQUESTER"
	CodeEventStarted        = "EVENT_STARTED"
	CodeEventFull           = "EVENT_FULL"
	CodeOrganizerCannotJoin = "ORGANIZER_CANNOT_JOIN"
	CodeAlreadyRequested    = "ALREADY_REQUESTED"
	CodeRequestNotPending   = "REQUEST_NOT_PENDING"
	CodeMaxPlayersTooLow    = "MAX_PLAYERS_TOO_LOW"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// mapping pairs a model error with its status and code. The message is the
// model error's own text.
type mapping struct {
	target error
	status int
	code   string
}

// Order matters only where errors wrap one another
var mappings = []mapping{
	{model.ErrInvalidTimeRange, http.StatusBadRequest, CodeInvalidInput},
	{model.ErrInvalidMaxPlayers, http.StatusBadRequest, CodeInvalidInput},
	{model.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
	{model.ErrMaxPlayersTooLow, http.StatusConflict, CodeMaxPlayersTooLow},

	{model.ErrNotAuthenticated, http.StatusUnauthorized, CodeUnauthorized},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{model.ErrUsernameTaken, http.StatusConflict, CodeUsernameTaken},
	{model.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},

	{model.ErrEventNotFound, http.StatusNotFound, CodeEventNotFound},
	{model.ErrNotOrganizerUpdate, http.StatusForbidden, CodeNotOrganizer},
	{model.ErrNotOrganizerDelete, http.StatusForbidden, CodeNotOrganizer},
	{model.ErrNotOrganizerRespond, http.StatusForbidden, CodeNotOrganizer},
	{model.ErrEventStarted, http.StatusConflict, CodeEventStarted},
	{model.ErrEventFull, http.StatusConflict, CodeEventFull},

	{model.ErrOrganizerCannotJoin, http.StatusConflict, CodeOrganizerCannotJoin},
	{model.ErrAlreadyRequested, http.StatusConflict, CodeAlreadyRequested},
	{model.ErrRequestNotFound, http.StatusNotFound, CodeRequestNotFound},
	{model.ErrRequestNotPending, http.StatusConflict, CodeRequestNotPending},
	{model.ErrNotRequester, http.StatusForbidden, CodeNotRequester},
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err
func Status(err error) int {
	return toHTTPError(err).status
}

// Code returns the error code WriteError would use for err
func Code(err error) string {
	return toHTTPError(err).apiError.Code
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mappings {
		if errors.Is(err, m.target) {
			message := m.target.Error()
			// Input errors carry the failing field in their wrapped text
			if m.code == CodeInvalidInput {
				message = err.Error()
			}
			return &httpError{m.status, APIError{m.code, message}}
		}
	}

	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
