package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationTypePoints tags notifications emitted by the redemption ledger.
const NotificationTypePoints = "points"

// Notification is an in-app notification record. The rewards service only
// ever writes the redemption confirmation; other types arrive from other
// services sharing the table.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
