package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pickupgames/internal/api/handler"
	"github.com/mcoot/pickupgames/internal/api/middleware"
	"github.com/mcoot/pickupgames/internal/api/response"
	"github.com/mcoot/pickupgames/internal/api/sse"
	"github.com/mcoot/pickupgames/internal/metrics"
	"github.com/mcoot/pickupgames/internal/services/auth"
	"github.com/mcoot/pickupgames/internal/services/events"
	"github.com/mcoot/pickupgames/internal/services/joins"
	"github.com/mcoot/pickupgames/internal/store"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	Store        *store.Store
	AuthService  *auth.Service
	EventService *events.Service
	JoinService  *joins.Service
	Hub          *sse.Hub
	Metrics      *metrics.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(cfg.AuthService)
	eventHandler := handler.NewEventHandler(cfg.EventService)
	requestHandler := handler.NewRequestHandler(cfg.JoinService)
	storeHandler := handler.NewStoreHandler(cfg.Store, cfg.Hub, cfg.Logger)

	authMiddleware := middleware.Auth(cfg.AuthService.CurrentUser)

	api := r.PathPrefix("/api/v1").Subrouter()
	// Logging wraps Recovery so a recovered panic is logged as a 500
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Recovery(cfg.Logger))

	api.HandleFunc("/health", healthHandler(cfg.Store)).Methods(http.MethodGet)

	// Auth routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.Handle("/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me))).Methods(http.MethodGet)

	// Event routes. Services enforce authentication for mutations.
	api.HandleFunc("/events", eventHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/events", eventHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}", eventHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", eventHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/events/{id}", eventHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id}/participants", eventHandler.Participants).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}/requests", eventHandler.Pending).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}/requests", requestHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/eligibility", eventHandler.Eligibility).Methods(http.MethodGet)

	// Join request routes
	api.HandleFunc("/requests/{id}/accept", requestHandler.Accept).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/reject", requestHandler.Reject).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/cancel", requestHandler.Cancel).Methods(http.MethodPost)

	// User routes
	api.HandleFunc("/users/me/requests", requestHandler.Mine).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/summary", eventHandler.Summary).Methods(http.MethodGet)

	// Store routes
	api.HandleFunc("/store", storeHandler.Wipe).Methods(http.MethodDelete)
	api.HandleFunc("/changes", storeHandler.Changes).Methods(http.MethodGet)

	r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)

	return r
}

// Health is the health check response
type Health struct {
	Status   string `json:"status"`
	Revision uint64 `json:"revision"`
}

func healthHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, Health{Status: "ok", Revision: st.Snapshot().Revision})
	}
}
