package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campushub/rewards-service/internal/model"
	"github.com/campushub/rewards-service/internal/service"
)

// NotificationRepository provides data access for notifications using pgx.
type NotificationRepository struct {
	pool PoolInterface
}

// NewNotificationRepository creates a new NotificationRepository with the given pool.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// NewNotificationRepositoryWithPool creates a new NotificationRepository with a custom pool interface.
// This is primarily used for testing.
func NewNotificationRepositoryWithPool(pool PoolInterface) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Insert writes a notification record. Called outside the redemption
// transaction: the ledger treats this sink as best-effort.
func (r *NotificationRepository) Insert(ctx context.Context, notification *model.Notification) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message) VALUES ($1, $2, $3, $4, $5)`,
		notification.ID, notification.UserID, notification.Type, notification.Title, notification.Message)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByUser returns the user's notifications, newest first.
// On success, returns an empty slice (not nil) when none exist.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	query := `SELECT id, user_id, type, title, message, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", userID, err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications rows: %w", err)
	}

	if notifications == nil {
		notifications = []model.Notification{}
	}

	return notifications, nil
}

// MarkRead marks the notification as read, scoped to the owning user.
// Returns service.ErrNotificationNotFound if no matching row exists.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotificationNotFound
	}
	return nil
}

// Delete removes the notification, scoped to the owning user.
// Returns service.ErrNotificationNotFound if no matching row exists.
func (r *NotificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete notification %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotificationNotFound
	}
	return nil
}
