package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/admin"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
)

// AdminTokens supplies the bearer token for guarded calls and is told when
// the backend rejects it.
type AdminTokens interface {
	Token(ctx context.Context) (string, error)
	HandleUnauthorized(ctx context.Context)
}

// AdminClient issues requests that need the admin bearer token.
type AdminClient struct {
	client *Client
	tokens AdminTokens
}

func NewAdminClient(client *Client, tokens AdminTokens) *AdminClient {
	return &AdminClient{client: client, tokens: tokens}
}

// do reads the token immediately before use. A rejected token ends the
// admin session.
func (a *AdminClient) do(ctx context.Context, method, path string, in, out any) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return err
	}

	err = a.client.do(ctx, method, path, token, in, out)
	if admin.IsUnauthorized(err) {
		a.tokens.HandleUnauthorized(ctx)
	}

	return err
}

func (a *AdminClient) Stats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := a.do(ctx, http.MethodGet, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

type bookEnvelope struct {
	Message string      `json:"message"`
	Book    models.Book `json:"book"`
}

func (a *AdminClient) CreateBook(ctx context.Context, req *models.BookRequest) (*models.Book, error) {
	var resp bookEnvelope
	if err := a.do(ctx, http.MethodPost, "/api/books/create-book", req, &resp); err != nil {
		return nil, err
	}

	return &resp.Book, nil
}

func (a *AdminClient) UpdateBook(ctx context.Context, id string, req *models.BookRequest) (*models.Book, error) {
	var resp bookEnvelope
	if err := a.do(ctx, http.MethodPut, "/api/books/edit/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}

	return &resp.Book, nil
}

func (a *AdminClient) DeleteBook(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/api/books/"+url.PathEscape(id), nil, nil)
}

func (a *AdminClient) AllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := a.do(ctx, http.MethodGet, "/api/orders/get-all-orders", nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

var _ AdminTokens = (*admin.Session)(nil)
