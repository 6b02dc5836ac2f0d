package adapter

import (
	"context"
	"errors"

	chat "github.com/Raees-J/DockIt/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Save(ctx context.Context, m chat.ProjectMessage) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (project_id, sender_id, content, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		RETURNING id::text
	`, m.ProjectID, m.SenderID, m.Content, m.Timestamp).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) ListByProject(ctx context.Context, projectID string) ([]chat.PopulatedProjectMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT m.id::text, m.project_id::text, m.content, m.created_at,
		       u.id::text, u.name, u.email
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.project_id = $1::uuid
		ORDER BY m.created_at ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.PopulatedProjectMessage
	for rows.Next() {
		var msg chat.PopulatedProjectMessage
		if err := rows.Scan(&msg.ID, &msg.ProjectID, &msg.Content, &msg.Timestamp,
			&msg.Sender.ID, &msg.Sender.Name, &msg.Sender.Email); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}
