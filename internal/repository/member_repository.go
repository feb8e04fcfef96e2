package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/directive-service/internal/domain"
)

// MemberInfo is a membership row joined with the member's user record.
type MemberInfo struct {
	domain.Member
	UserName  string
	UserEmail string
}

// MemberRepository manages workspace membership records.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	// Find resolves the membership linking a user to a workspace. Returns
	// pgx.ErrNoRows when the user is not a member.
	Find(ctx context.Context, workspaceID, userID string) (*domain.Member, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]MemberInfo, error)
	Delete(ctx context.Context, id string) error
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository builds the repository.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (workspace_id, user_id, role)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		member.WorkspaceID,
		member.UserID,
		member.Role,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) Find(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	const query = `
        SELECT id, workspace_id, user_id, role, created_at, updated_at
        FROM members WHERE workspace_id=$1 AND user_id=$2`
	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, workspaceID, userID).Scan(
		&member.ID,
		&member.WorkspaceID,
		&member.UserID,
		&member.Role,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]MemberInfo, error) {
	const query = `
        SELECT m.id, m.workspace_id, m.user_id, m.role, m.created_at, m.updated_at,
               u.name, u.email
        FROM members m JOIN users u ON u.id = m.user_id
        WHERE m.workspace_id=$1
        ORDER BY m.created_at ASC`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MemberInfo
	for rows.Next() {
		var info MemberInfo
		if err := rows.Scan(
			&info.ID,
			&info.WorkspaceID,
			&info.UserID,
			&info.Role,
			&info.CreatedAt,
			&info.UpdatedAt,
			&info.UserName,
			&info.UserEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, info)
	}
	return result, rows.Err()
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
