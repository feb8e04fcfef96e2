package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/events"
	"github.com/spec-kit/directive-service/internal/repository"
)

// DepartmentService coordinates department workflows. Mutations other than
// create require the admin role.
type DepartmentService struct {
	departments repository.DepartmentRepository
	gate        membershipGate
	dispatcher  events.Dispatcher
}

// DepartmentDependencies bundles repositories for the department service.
type DepartmentDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	MemberRepo     repository.MemberRepository
	Dispatcher     events.Dispatcher
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies) *DepartmentService {
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		gate:        membershipGate{members: deps.MemberRepo},
		dispatcher:  deps.Dispatcher,
	}
}

// DepartmentCreateInput describes department creation payload.
type DepartmentCreateInput struct {
	WorkspaceID string
	Name        string
	ImageURL    *string
}

// DepartmentUpdateInput describes a department update; nil fields are left
// unchanged.
type DepartmentUpdateInput struct {
	Name     *string
	ImageURL *string
}

// Create adds a department to a workspace.
func (s *DepartmentService) Create(ctx context.Context, userID string, input DepartmentCreateInput) (*domain.Department, error) {
	if _, err := s.gate.requireMember(ctx, input.WorkspaceID, userID); err != nil {
		return nil, err
	}

	dept := &domain.Department{
		WorkspaceID: input.WorkspaceID,
		Name:        strings.TrimSpace(input.Name),
		ImageURL:    input.ImageURL,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventDepartmentCreated,
		WorkspaceID: dept.WorkspaceID,
		ActorUserID: userID,
		Payload: events.DepartmentCreatedPayload{
			DepartmentID: dept.ID,
			Name:         dept.Name,
		},
	})
	return dept, nil
}

// List returns a workspace's departments, newest first.
func (s *DepartmentService) List(ctx context.Context, userID, workspaceID string, limit, offset int) ([]domain.Department, error) {
	if _, err := s.gate.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.departments.ListByWorkspace(ctx, workspaceID, limit, offset)
}

// Get fetches a single department, gated on its workspace.
func (s *DepartmentService) Get(ctx context.Context, userID, departmentID string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireMember(ctx, dept.WorkspaceID, userID); err != nil {
		return nil, err
	}
	return dept, nil
}

// Update modifies a department. Admin only.
func (s *DepartmentService) Update(ctx context.Context, userID, departmentID string, input DepartmentUpdateInput) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireAdmin(ctx, dept.WorkspaceID, userID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		dept.Name = strings.TrimSpace(*input.Name)
	}
	if input.ImageURL != nil {
		dept.ImageURL = input.ImageURL
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// Delete removes a department and returns its identifier. Admin only.
// Tasks referencing the department are left in place.
// TODO: decide whether task deletion should cascade, then migrate existing
// orphaned rows in the same release.
func (s *DepartmentService) Delete(ctx context.Context, userID, departmentID string) (string, error) {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return "", err
	}
	if _, err := s.gate.requireAdmin(ctx, dept.WorkspaceID, userID); err != nil {
		return "", err
	}
	if err := s.departments.Delete(ctx, departmentID); err != nil {
		return "", err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventDepartmentDeleted,
		WorkspaceID: dept.WorkspaceID,
		ActorUserID: userID,
		Payload:     events.DepartmentDeletedPayload{DepartmentID: dept.ID},
	})
	return dept.ID, nil
}

func (s *DepartmentService) publishEvent(ctx context.Context, event events.Event) {
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
