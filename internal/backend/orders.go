package backend

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
)

// CreateOrder submits a shipping order. The customer's cached order history
// is dropped once the backend acknowledges it.
func (c *Client) CreateOrder(ctx context.Context, order *models.ShippingOrder) (*models.Order, error) {
	var created models.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders/create-order", "", order, &created); err != nil {
		return nil, err
	}

	c.invalidateOrders(ctx, order.Email)

	return &created, nil
}

// GetOrdersByEmail lists a customer's orders. Concurrent callers for the same
// email share one backend request, which is detached from any single
// caller's cancellation. Each caller gets its own copy of the result.
func (c *Client) GetOrdersByEmail(ctx context.Context, email string) ([]models.Order, error) {
	key := storage.Key(storage.OrdersKeyPrefix, email)

	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout())
		defer cancel()

		return c.fetchOrders(fetchCtx, key, email)
	})

	select {
	case <-ctx.Done():
		return nil, appErrors.ThirdPartyError("Order request cancelled").WithError(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		return slices.Clone(res.Val.([]models.Order)), nil
	}
}

func (c *Client) fetchOrders(ctx context.Context, key, email string) ([]models.Order, error) {
	var orders []models.Order

	if c.cache != nil {
		found, err := c.cache.Get(ctx, key, &orders)
		if err != nil {
			c.logger.Warn("Order cache read failed", slog.Any("error", err))
		} else if found {
			return orders, nil
		}
	}

	if err := c.do(ctx, http.MethodGet, "/api/orders/get-orders/"+url.PathEscape(email), "", nil, &orders); err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []models.Order{}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, orders, ordersCacheTTL); err != nil {
			c.logger.Warn("Order cache write failed", slog.Any("error", err))
		}
	}

	return orders, nil
}

// fetchTimeout bounds a shared fetch once it no longer follows a caller.
func (c *Client) fetchTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}

	return defaultFetchTimeout
}

func (c *Client) invalidateOrders(ctx context.Context, email string) {
	if c.cache == nil {
		return
	}

	if err := c.cache.Delete(ctx, storage.Key(storage.OrdersKeyPrefix, email)); err != nil {
		c.logger.Warn("Order cache invalidation failed", slog.Any("error", err))
	}
}
