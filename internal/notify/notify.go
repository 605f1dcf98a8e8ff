// Package notify carries user-visible toasts and navigation requests out of
// the state machine.
package notify

import (
	"context"
	"html"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/bookstore-storefront/internal/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Notifier shows a transient notification.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// Navigator moves the user to another route.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathCart       = "/cart"
	PathCheckout   = "/checkout"
	PathOrders     = "/orders"
	PathAdminLogin = "/adminLogin"
	PathDashboard  = "/dashboard"
)

var policy = bluemonday.StrictPolicy()

// New builds a notification. Title and text are reduced to plain text since
// text may originate from the backend or the identity provider.
func New(level models.NotificationLevel, title, text string) models.Notification {
	return models.Notification{
		ID:        uuid.New(),
		Level:     level,
		Title:     PlainText(title),
		Text:      PlainText(text),
		CreatedAt: time.Now(),
	}
}

// PlainText strips any markup from s.
func PlainText(s string) string {
	return html.UnescapeString(policy.Sanitize(s))
}

func Success(title, text string) models.Notification {
	return New(models.NotificationSuccess, title, text)
}

func Error(title, text string) models.Notification {
	return New(models.NotificationError, title, text)
}

func Warning(title, text string) models.Notification {
	return New(models.NotificationWarning, title, text)
}

// Feed buffers notifications until the shell drains them. The oldest entry is
// dropped once the buffer is full.
type Feed struct {
	mu      sync.Mutex
	items   []models.Notification
	limit   int
	logger  *slog.Logger
	current string
}

func NewFeed(limit int, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}

	return &Feed{limit: limit, logger: logger, current: PathHome}
}

func (f *Feed) Notify(_ context.Context, n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.limit > 0 && len(f.items) >= f.limit {
		f.items = f.items[1:]
	}
	f.items = append(f.items, n)

	f.logger.Info("Notification", slog.String("level", string(n.Level)), slog.String("title", n.Title))
}

// Drain returns and clears the pending notifications.
func (f *Feed) Drain() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := f.items
	f.items = nil

	return items
}

func (f *Feed) Navigate(_ context.Context, path string) {
	f.mu.Lock()
	f.current = path
	f.mu.Unlock()

	f.logger.Debug("Navigate", slog.String("path", path))
}

// Location is the last route requested through Navigate.
func (f *Feed) Location() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.current
}
