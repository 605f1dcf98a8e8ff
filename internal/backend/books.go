package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
)

func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.do(ctx, http.MethodGet, "/api/books", "", nil, &books); err != nil {
		return nil, err
	}

	return books, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), "", nil, &book); err != nil {
		return nil, err
	}

	return &book, nil
}
