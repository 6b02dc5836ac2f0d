package repository

import (
	"context"
	"time"
)

// Notification is a pending in-app notification produced when a message is
// persisted. Delivery is the (external) notification scheduler's concern.
type Notification struct {
	ID          string    `db:"id"`
	RecipientID string    `db:"recipient_id"`
	SenderID    string    `db:"sender_id"`
	Kind        string    `db:"kind"`
	Body        string    `db:"body"`
	Read        bool      `db:"read"`
	CreatedAt   time.Time `db:"created_at"`
}

// NotificationRepository persists notifications for later delivery.
type NotificationRepository interface {
	Insert(ctx context.Context, n Notification) error
}
