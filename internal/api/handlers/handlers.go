// Package handlers exposes the storefront state machine over JSON for the
// local shell.
package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/identity"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/utils/response"
)

// Feed is where the state machine leaves toasts and navigation requests.
type Feed interface {
	Drain() []models.Notification
	Location() string
}

// Page is the body of every successful shell response.
type Page struct {
	View          any                   `json:"view,omitempty"`
	Location      string                `json:"location"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

func render(w http.ResponseWriter, feed Feed, status int, view any) {
	response.Success(w, status, Page{
		View:          view,
		Location:      feed.Location(),
		Notifications: feed.Drain(),
	})
}

type Cart interface {
	AddItem(ctx context.Context, item models.CartItem) models.AddResult
	RemoveItem(ctx context.Context, itemID string) bool
	Clear(ctx context.Context)
	Snapshot() models.CartView
}

type CustomerSession interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, email, password string) (*models.User, error)
	SignInWithFederatedProvider(ctx context.Context, flow identity.ConsentFlow) (*models.User, error)
	LogOut(ctx context.Context)
}

// ConsentProvider drives the federated sign-in redirect.
type ConsentProvider interface {
	Enabled() bool
	GetLoginURL(state string) string
	Callback(query url.Values, expectedState string) identity.ConsentFlow
}

type Checkout interface {
	Enter(ctx context.Context) (*models.CheckoutView, error)
	Submit(ctx context.Context, form models.ShippingForm) (*models.Order, error)
	Validate(form models.ShippingForm) error
}

type OrdersQuery interface {
	GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error)
}

type BooksQuery interface {
	ListBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
}

type AdminSession interface {
	Login(ctx context.Context, username, password string) (*models.AdminCredential, error)
	Logout(ctx context.Context)
}

type AdminAPI interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	CreateBook(ctx context.Context, req *models.BookRequest) (*models.Book, error)
	UpdateBook(ctx context.Context, id string, req *models.BookRequest) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error
	AllOrders(ctx context.Context) ([]models.Order, error)
}
