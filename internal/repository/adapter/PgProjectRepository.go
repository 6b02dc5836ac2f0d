package adapter

import (
	"context"
	"errors"

	port "github.com/Raees-J/DockIt/internal/repository/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgProjectRepository(pool *pgxpool.Pool) *PgProjectRepository {
	return &PgProjectRepository{pool: pool}
}

var _ port.ProjectRepository = (*PgProjectRepository)(nil)

func (r *PgProjectRepository) Exists(ctx context.Context, projectID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgProjectRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1::uuid)",
		projectID,
	).Scan(&exists)
	return exists, err
}

func (r *PgProjectRepository) HasAccess(ctx context.Context, projectID, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgProjectRepository: nil pool")
	}
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM projects p
			WHERE p.id = $1::uuid
			  AND (p.creator_id = $2::uuid
			       OR EXISTS (SELECT 1 FROM project_members pm
			                  WHERE pm.project_id = p.id AND pm.user_id = $2::uuid))
		)
	`, projectID, userID).Scan(&ok)
	return ok, err
}

func (r *PgProjectRepository) MemberIDs(ctx context.Context, projectID string) ([]string, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgProjectRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT creator_id::text FROM projects WHERE id = $1::uuid
		UNION
		SELECT user_id::text FROM project_members WHERE project_id = $1::uuid
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return ids, nil
}
