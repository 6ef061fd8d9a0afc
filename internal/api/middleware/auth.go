package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/pickupgames/internal/api/apierr"
	"github.com/mcoot/pickupgames/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// CurrentUserFunc resolves the signed-in user
type CurrentUserFunc func() (model.User, error)

// Auth rejects requests unless a user is signed in, and adds that user to
// the request context
func Auth(current CurrentUserFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := current()
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the signed-in user from the request context
func GetUser(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userContextKey).(model.User)
	return user, ok
}

// MustGetUser returns the signed-in user or panics
func MustGetUser(ctx context.Context) model.User {
	user, ok := GetUser(ctx)
	if !ok {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
