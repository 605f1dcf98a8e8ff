// Package api assembles the local shell's route table.
package api

import (
	"net/http"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/handlers"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/guard"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/metrics"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Cart          *handlers.CartHandler
	Auth          *handlers.AuthHandler
	Checkout      *handlers.CheckoutHandler
	Orders        *handlers.OrderHandler
	Admin         *handlers.AdminHandler
	Notifications *handlers.NotificationHandler
}

type Guards struct {
	Private guard.Guard
	Admin   guard.Guard
}

// NewRouter mirrors the storefront's page routes. Health and metrics are
// mounted unguarded.
func NewRouter(h Handlers, g Guards, customer middleware.CustomerSource, healthHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(metrics.Middleware)
	r.Use(middleware.Customer(customer))

	r.Get(notify.PathCart, h.Cart.GetCart())
	r.Post("/cart/items", h.Cart.AddItem())
	r.Delete("/cart/items/{id}", h.Cart.RemoveItem())
	r.Delete(notify.PathCart, h.Cart.ClearCart())

	r.Post(notify.PathLogin, h.Auth.Login())
	r.Post("/register", h.Auth.Register())
	r.Get("/login/google", h.Auth.GoogleLogin())
	r.Get("/auth/google/callback", h.Auth.GoogleCallback())
	r.Post("/logout", h.Auth.Logout())

	r.Get("/notifications", h.Notifications.ListNotifications())

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(g.Private))

		r.Get(notify.PathCheckout, h.Checkout.Enter())
		r.Post(notify.PathCheckout, h.Checkout.Submit())
		r.Post(notify.PathCheckout+"/validate", h.Checkout.Validate())
		r.Get(notify.PathOrders, h.Orders.ListOrders())
	})

	r.Post(notify.PathAdminLogin, h.Admin.Login())

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware(g.Admin))

		r.Get(notify.PathDashboard, h.Admin.Dashboard())
		r.Get("/dashboard/books", h.Admin.ListBooks())
		r.Post("/dashboard/books", h.Admin.CreateBook())
		r.Put("/dashboard/books/{id}", h.Admin.UpdateBook())
		r.Delete("/dashboard/books/{id}", h.Admin.DeleteBook())
		r.Get("/dashboard/orders", h.Admin.ListOrders())
		r.Post("/dashboard/logout", h.Admin.Logout())
	})

	r.Handle("/metrics", metrics.Handler())
	if healthHandler != nil {
		r.Handle("/health", healthHandler)
	}

	return otelhttp.NewHandler(r, "storefront")
}
