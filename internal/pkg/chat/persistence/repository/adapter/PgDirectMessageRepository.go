package adapter

import (
	"context"
	"errors"

	chat "github.com/Raees-J/DockIt/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgDirectMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgDirectMessageRepository(pool *pgxpool.Pool) *PgDirectMessageRepository {
	return &PgDirectMessageRepository{pool: pool}
}

func (r *PgDirectMessageRepository) Save(ctx context.Context, m chat.DirectMessage) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgDirectMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO direct_messages (sender_id, recipient_id, content, read, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5)
		RETURNING id::text
	`, m.SenderID, m.RecipientID, m.Content, m.Read, m.Timestamp).Scan(&id)
	return id, err
}

func (r *PgDirectMessageRepository) ListConversation(ctx context.Context, userID, otherID string) ([]chat.PopulatedDirectMessage, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgDirectMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT dm.id::text, dm.content, dm.read, dm.created_at,
		       s.id::text, s.name, s.email,
		       rc.id::text, rc.name, rc.email
		FROM direct_messages dm
		JOIN users s  ON s.id  = dm.sender_id
		JOIN users rc ON rc.id = dm.recipient_id
		WHERE (dm.sender_id = $1::uuid AND dm.recipient_id = $2::uuid)
		   OR (dm.sender_id = $2::uuid AND dm.recipient_id = $1::uuid)
		ORDER BY dm.created_at ASC
	`, userID, otherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []chat.PopulatedDirectMessage
	for rows.Next() {
		var msg chat.PopulatedDirectMessage
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.Read, &msg.Timestamp,
			&msg.Sender.ID, &msg.Sender.Name, &msg.Sender.Email,
			&msg.Recipient.ID, &msg.Recipient.Name, &msg.Recipient.Email); err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return msgs, nil
}

func (r *PgDirectMessageRepository) MarkRead(ctx context.Context, senderID, recipientID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgDirectMessageRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE direct_messages
		SET read = TRUE
		WHERE sender_id = $1::uuid AND recipient_id = $2::uuid AND NOT read
	`, senderID, recipientID)
	return err
}

func (r *PgDirectMessageRepository) ListConversations(ctx context.Context, userID string) ([]chat.ConversationSummary, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgDirectMessageRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		WITH exchanged AS (
			SELECT CASE WHEN dm.sender_id = $1::uuid THEN dm.recipient_id ELSE dm.sender_id END AS other_id,
			       dm.content, dm.created_at,
			       (dm.recipient_id = $1::uuid AND NOT dm.read)::int AS unread
			FROM direct_messages dm
			WHERE dm.sender_id = $1::uuid OR dm.recipient_id = $1::uuid
		), latest AS (
			SELECT DISTINCT ON (other_id) other_id, content, created_at
			FROM exchanged
			ORDER BY other_id, created_at DESC
		), unread AS (
			SELECT other_id, SUM(unread) AS unread_count
			FROM exchanged
			GROUP BY other_id
		)
		SELECT u.id::text, u.name, u.email, l.content, l.created_at, COALESCE(un.unread_count, 0)
		FROM latest l
		JOIN unread un USING (other_id)
		JOIN users u ON u.id = l.other_id
		ORDER BY l.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.ConversationSummary
	for rows.Next() {
		var c chat.ConversationSummary
		if err := rows.Scan(&c.User.ID, &c.User.Name, &c.User.Email,
			&c.LastMessage, &c.LastMessageTime, &c.UnreadCount); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return convs, nil
}
