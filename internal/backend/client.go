// Package backend is the REST collaborator for orders, books and the admin
// console. It owns no state beyond a short-lived order-history cache.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/config"
	appErrors "github.com/aaravmahajanofficial/bookstore-storefront/internal/errors"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/notify"
	"github.com/aaravmahajanofficial/bookstore-storefront/internal/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
)

// ordersCacheTTL matches how long an unused order-history query stays cached
// on the client.
const ordersCacheTTL = 60 * time.Second

const defaultFetchTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      storage.Store
	group      singleflight.Group
	logger     *slog.Logger
}

func NewClient(cfg *config.Backend, cache storage.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cache:  cache,
		logger: logger,
	}
}

// BaseURL is the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do sends one request. A non-empty token is sent as a bearer credential.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return appErrors.InternalError("Failed to encode request").WithError(err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return appErrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Backend request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return appErrors.ThirdPartyError("Backend is unavailable").WithError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.ThirdPartyError("Failed to read backend response").WithError(err)
	}

	c.logger.Debug("Backend call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return statusError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return appErrors.ThirdPartyError("Unexpected backend response").WithError(err)
	}

	return nil
}

// statusError maps an HTTP failure onto the error taxonomy. Server messages
// are reduced to plain text before they can reach a notification.
func statusError(status int, data []byte) error {
	var eb errorBody
	_ = json.Unmarshal(data, &eb)

	msg := eb.Message
	if msg == "" {
		msg = eb.Error
	}
	msg = notify.PlainText(msg)

	cause := fmt.Errorf("backend responded %d", status)

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = "Not authorized"
		}
		return appErrors.AuthorizationError(msg).WithError(cause)
	case status == http.StatusNotFound:
		if msg == "" {
			msg = "Not found"
		}
		return appErrors.NotFoundError(msg).WithError(cause)
	case status < http.StatusInternalServerError:
		if msg == "" {
			msg = "Request rejected"
		}
		return appErrors.BadRequestError(msg).WithError(cause)
	default:
		if msg == "" {
			msg = "Backend error"
		}
		return appErrors.ThirdPartyError(msg).WithError(cause)
	}
}

// AdminLogin exchanges admin credentials for a bearer token.
func (c *Client) AdminLogin(ctx context.Context, req *models.AdminLoginRequest) (*models.AdminLoginResponse, error) {
	var resp models.AdminLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/admin", "", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
