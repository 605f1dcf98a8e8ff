package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/google/uuid"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// CustomerSource is the signed-in customer, if any.
type CustomerSource interface {
	CurrentUser() *models.User
}

// Customer puts the signed-in customer on the request context and tags the
// request logger with the customer's uid. Anonymous requests pass through
// untouched; access control is left to the route guards.
func Customer(source CustomerSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := source.CurrentUser()
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}

			logger := LoggerFromContext(r.Context()).With(slog.String("uid", user.UID))

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			ctx = context.WithValue(ctx, LoggerKey, logger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)

	return user, ok && user != nil
}
