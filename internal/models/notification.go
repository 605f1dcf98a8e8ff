package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
	NotificationWarning NotificationLevel = "warning"
)

// Notification is a transient toast shown to the user.
type Notification struct {
	ID        uuid.UUID         `json:"id"`
	Level     NotificationLevel `json:"level"`
	Title     string            `json:"title"`
	Text      string            `json:"text,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
