// Package guard decides whether a protected page may render.
package guard

import (
	"context"
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/session"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
)

type Outcome int

const (
	// Render the protected content.
	Render Outcome = iota
	// Redirect to Decision.Location.
	Redirect
	// Loading renders a placeholder: neither the content nor a redirect.
	Loading
)

func (o Outcome) String() string {
	switch o {
	case Redirect:
		return "redirect"
	case Loading:
		return "loading"
	default:
		return "render"
	}
}

type Decision struct {
	Outcome  Outcome
	Location string
}

// Guard is evaluated on every navigation to a protected route.
type Guard interface {
	Evaluate(ctx context.Context) Decision
}

// SessionSource exposes the customer session state.
type SessionSource interface {
	State() session.State
}

// AdminSource reports whether a valid admin credential exists right now.
type AdminSource interface {
	IsAuthenticated(ctx context.Context) bool
}

type PrivateRoute struct {
	session SessionSource
}

func NewPrivateRoute(s SessionSource) *PrivateRoute {
	return &PrivateRoute{session: s}
}

// Evaluate treats a loading session as unknown, never as signed out.
func (g *PrivateRoute) Evaluate(_ context.Context) Decision {
	state := g.session.State()

	switch {
	case state.Loading:
		return Decision{Outcome: Loading}
	case state.User == nil:
		return Decision{Outcome: Redirect, Location: notify.PathLogin}
	default:
		return Decision{Outcome: Render}
	}
}

type AdminRoute struct {
	admin AdminSource
}

func NewAdminRoute(a AdminSource) *AdminRoute {
	return &AdminRoute{admin: a}
}

func (g *AdminRoute) Evaluate(ctx context.Context) Decision {
	if !g.admin.IsAuthenticated(ctx) {
		return Decision{Outcome: Redirect, Location: notify.PathAdminLogin}
	}

	return Decision{Outcome: Render}
}

// Middleware renders the guard's decision for HTTP routes.
func Middleware(g Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := g.Evaluate(r.Context())

			switch decision.Outcome {
			case Loading:
				middleware.LoggerFromContext(r.Context()).Debug("Route guard waiting for session")
				response.Loading(w, 1)
			case Redirect:
				middleware.LoggerFromContext(r.Context()).Info("Route guard redirect", "location", decision.Location)
				response.Redirect(w, decision.Location)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
