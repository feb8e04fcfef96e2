package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/repository"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

// membershipGate is the single authorization predicate consulted by every
// task and department operation: is this user a member of this workspace,
// optionally with the admin role.
type membershipGate struct {
	members repository.MemberRepository
}

// requireMember resolves the caller's membership in the workspace or fails
// with an authorization error.
func (g membershipGate) requireMember(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	member, err := g.members.Find(ctx, workspaceID, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("not a workspace member")
		}
		return nil, err
	}
	return member, nil
}

// requireAdmin resolves the caller's membership and requires the admin role.
func (g membershipGate) requireAdmin(ctx context.Context, workspaceID, userID string) (*domain.Member, error) {
	member, err := g.requireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, apperrors.NewUnauthorized("admin role required")
	}
	return member, nil
}
