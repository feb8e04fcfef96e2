package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/events"
	"github.com/spec-kit/directive-service/internal/repository"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

// WorkspaceService coordinates tenant lifecycle and membership.
type WorkspaceService struct {
	workspaces repository.WorkspaceRepository
	members    repository.MemberRepository
	gate       membershipGate
	dispatcher events.Dispatcher
}

// WorkspaceDependencies bundles repositories for the workspace service.
type WorkspaceDependencies struct {
	WorkspaceRepo repository.WorkspaceRepository
	MemberRepo    repository.MemberRepository
	Dispatcher    events.Dispatcher
}

// NewWorkspaceService constructs the service.
func NewWorkspaceService(deps WorkspaceDependencies) *WorkspaceService {
	return &WorkspaceService{
		workspaces: deps.WorkspaceRepo,
		members:    deps.MemberRepo,
		gate:       membershipGate{members: deps.MemberRepo},
		dispatcher: deps.Dispatcher,
	}
}

// Create provisions a workspace and enrolls the creator as its admin.
func (s *WorkspaceService) Create(ctx context.Context, userID, name string, imageURL *string) (*domain.Workspace, error) {
	workspace := &domain.Workspace{
		Name:       strings.TrimSpace(name),
		ImageURL:   imageURL,
		OwnerID:    userID,
		InviteCode: generateInviteCode(),
	}
	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, err
	}

	member := &domain.Member{
		WorkspaceID: workspace.ID,
		UserID:      userID,
		Role:        domain.MemberRoleAdmin,
	}
	if err := s.members.Create(ctx, member); err != nil {
		// Remove the workspace again so a failed enrollment does not leave
		// a tenant without an admin.
		_ = s.workspaces.Delete(ctx, workspace.ID)
		return nil, err
	}
	return workspace, nil
}

// List returns the workspaces the caller belongs to.
func (s *WorkspaceService) List(ctx context.Context, userID string) ([]domain.Workspace, error) {
	return s.workspaces.ListByUser(ctx, userID)
}

// Get fetches a workspace the caller is a member of.
func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID string) (*domain.Workspace, error) {
	if _, err := s.gate.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.workspaces.GetByID(ctx, workspaceID)
}

// Join enrolls the caller as a MEMBER when the invite code matches.
func (s *WorkspaceService) Join(ctx context.Context, userID, workspaceID, inviteCode string) (*domain.Member, error) {
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace.InviteCode != strings.TrimSpace(inviteCode) {
		return nil, apperrors.NewValidationError("invalid invite code")
	}

	if _, err := s.members.Find(ctx, workspaceID, userID); err == nil {
		return nil, apperrors.NewValidationError("already a member")
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	member := &domain.Member{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        domain.MemberRoleMember,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventMemberJoined,
		WorkspaceID: workspaceID,
		ActorUserID: userID,
		Payload: events.MemberJoinedPayload{
			MemberID: member.ID,
			UserID:   userID,
			Role:     member.Role,
		},
	})
	return member, nil
}

// ResetInviteCode rotates the invite code. Admin only.
func (s *WorkspaceService) ResetInviteCode(ctx context.Context, userID, workspaceID string) (*domain.Workspace, error) {
	if _, err := s.gate.requireAdmin(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	workspace, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	workspace.InviteCode = generateInviteCode()
	if err := s.workspaces.Update(ctx, workspace); err != nil {
		return nil, err
	}
	return workspace, nil
}

// Members lists a workspace's memberships joined with user info.
func (s *WorkspaceService) Members(ctx context.Context, userID, workspaceID string) ([]repository.MemberInfo, error) {
	if _, err := s.gate.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.members.ListByWorkspace(ctx, workspaceID)
}

func (s *WorkspaceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateInviteCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}
