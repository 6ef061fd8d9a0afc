package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pickupgames/internal/api/apierr"
	"github.com/mcoot/pickupgames/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// Panics become a JSON INTERNAL_ERROR response.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
