package handlers

import "net/http"

type NotificationHandler struct {
	feed Feed
}

func NewNotificationHandler(feed Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

// ListNotifications drains toasts left behind by failed requests.
func (h *NotificationHandler) ListNotifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, h.feed, http.StatusOK, nil)
	}
}
