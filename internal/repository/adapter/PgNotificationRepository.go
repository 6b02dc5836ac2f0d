package adapter

import (
	"context"
	"errors"

	port "github.com/Raees-J/DockIt/internal/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

var _ port.NotificationRepository = (*PgNotificationRepository)(nil)

func (r *PgNotificationRepository) Insert(ctx context.Context, n port.Notification) error {
	if r == nil || r.pool == nil {
		return errors.New("PgNotificationRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (recipient_id, sender_id, kind, body, read, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6)
	`, n.RecipientID, n.SenderID, n.Kind, n.Body, n.Read, n.CreatedAt)
	return err
}
