package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/directive-service/internal/domain"
)

// WorkspaceRepository manages workspace persistence.
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *domain.Workspace) error
	Update(ctx context.Context, workspace *domain.Workspace) error
	GetByID(ctx context.Context, id string) (*domain.Workspace, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Workspace, error)
}

type workspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository builds the repository.
func NewWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &workspaceRepository{pool: pool}
}

func (r *workspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) error {
	const query = `
        INSERT INTO workspaces (name, image_url, owner_id, invite_code)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		workspace.Name,
		workspace.ImageURL,
		workspace.OwnerID,
		workspace.InviteCode,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt)
}

func (r *workspaceRepository) Update(ctx context.Context, workspace *domain.Workspace) error {
	const query = `
        UPDATE workspaces SET name=$1, image_url=$2, invite_code=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		workspace.Name,
		workspace.ImageURL,
		workspace.InviteCode,
		workspace.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workspaceRepository) GetByID(ctx context.Context, id string) (*domain.Workspace, error) {
	const query = `
        SELECT id, name, image_url, owner_id, invite_code, created_at, updated_at
        FROM workspaces WHERE id=$1`
	var workspace domain.Workspace
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&workspace.ID,
		&workspace.Name,
		&workspace.ImageURL,
		&workspace.OwnerID,
		&workspace.InviteCode,
		&workspace.CreatedAt,
		&workspace.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &workspace, nil
}

func (r *workspaceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM workspaces WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByUser returns the workspaces the user holds a membership in, newest
// first.
func (r *workspaceRepository) ListByUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	const query = `
        SELECT w.id, w.name, w.image_url, w.owner_id, w.invite_code, w.created_at, w.updated_at
        FROM workspaces w JOIN members m ON m.workspace_id = w.id
        WHERE m.user_id=$1
        ORDER BY w.created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Workspace
	for rows.Next() {
		var workspace domain.Workspace
		if err := rows.Scan(
			&workspace.ID,
			&workspace.Name,
			&workspace.ImageURL,
			&workspace.OwnerID,
			&workspace.InviteCode,
			&workspace.CreatedAt,
			&workspace.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, workspace)
	}
	return result, rows.Err()
}
