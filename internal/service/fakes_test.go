package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeTaskRepo struct {
	tasks  map[string]*domain.Task
	nextID int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (f *fakeTaskRepo) add(task domain.Task) {
	copied := task
	f.tasks[copied.ID] = &copied
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) error {
	f.nextID++
	task.ID = fmt.Sprintf("task-%d", f.nextID)
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) ListWithFilter(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.tasks {
		if task.WorkspaceID != filter.WorkspaceID {
			continue
		}
		if filter.DepartmentID != nil && task.DepartmentID != *filter.DepartmentID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.RequesterType != nil && task.RequesterType != *filter.RequesterType {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (f *fakeTaskRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Task, error) {
	var out []domain.Task
	for _, id := range ids {
		if task, ok := f.tasks[id]; ok {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) MaxPositionInLane(_ context.Context, workspaceID string, status domain.TaskStatus) (int, error) {
	max := 0
	for _, task := range f.tasks {
		if task.WorkspaceID == workspaceID && task.Status == status && task.Position > max {
			max = task.Position
		}
	}
	return max, nil
}

func (f *fakeTaskRepo) MaxSerialInLane(_ context.Context, workspaceID string, status domain.TaskStatus) (int, error) {
	max := 0
	for _, task := range f.tasks {
		if task.WorkspaceID == workspaceID && task.Status == status && task.SerialNo > max {
			max = task.SerialNo
		}
	}
	return max, nil
}

func (f *fakeTaskRepo) CountWithFilter(_ context.Context, filter repository.TaskCountFilter) (int, error) {
	count := 0
	for _, task := range f.tasks {
		if task.DepartmentID != filter.DepartmentID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.StatusNot != nil && task.Status == *filter.StatusNot {
			continue
		}
		if filter.CreatedFrom != nil && task.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && task.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		if filter.DueBefore != nil && !task.DueDate.Before(*filter.DueBefore) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeTaskRepo) BulkUpdate(_ context.Context, updates []repository.TaskPositionUpdate) ([]domain.Task, error) {
	// All-or-nothing, like the transactional implementation.
	for _, update := range updates {
		if _, ok := f.tasks[update.ID]; !ok {
			return nil, pgx.ErrNoRows
		}
	}
	out := make([]domain.Task, 0, len(updates))
	for _, update := range updates {
		task := f.tasks[update.ID]
		task.Status = update.Status
		task.Position = update.Position
		out = append(out, *task)
	}
	return out, nil
}

type fakeMemberRepo struct {
	members   map[string]*domain.Member
	nextID    int
	createErr error
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[string]*domain.Member)}
}

func memberKey(workspaceID, userID string) string {
	return workspaceID + "|" + userID
}

func (f *fakeMemberRepo) add(workspaceID, userID string, role domain.MemberRole) {
	f.nextID++
	f.members[memberKey(workspaceID, userID)] = &domain.Member{
		ID:          fmt.Sprintf("member-%d", f.nextID),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        role,
	}
}

func (f *fakeMemberRepo) Create(_ context.Context, member *domain.Member) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	member.ID = fmt.Sprintf("member-%d", f.nextID)
	copied := *member
	f.members[memberKey(member.WorkspaceID, member.UserID)] = &copied
	return nil
}

func (f *fakeMemberRepo) Find(_ context.Context, workspaceID, userID string) (*domain.Member, error) {
	member, ok := f.members[memberKey(workspaceID, userID)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *member
	return &copied, nil
}

func (f *fakeMemberRepo) ListByWorkspace(_ context.Context, workspaceID string) ([]repository.MemberInfo, error) {
	var out []repository.MemberInfo
	for _, member := range f.members {
		if member.WorkspaceID == workspaceID {
			out = append(out, repository.MemberInfo{Member: *member})
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) Delete(_ context.Context, id string) error {
	for key, member := range f.members {
		if member.ID == id {
			delete(f.members, key)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
	order       []string
	nextID      int
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: make(map[string]*domain.Department)}
}

func (f *fakeDepartmentRepo) add(dept domain.Department) {
	copied := dept
	f.departments[copied.ID] = &copied
	f.order = append(f.order, copied.ID)
}

func (f *fakeDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	f.nextID++
	dept.ID = fmt.Sprintf("dept-%d", f.nextID)
	copied := *dept
	f.departments[dept.ID] = &copied
	f.order = append(f.order, dept.ID)
	return nil
}

func (f *fakeDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	if _, ok := f.departments[dept.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *dept
	f.departments[dept.ID] = &copied
	return nil
}

func (f *fakeDepartmentRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := f.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *dept
	return &copied, nil
}

func (f *fakeDepartmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.departments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.departments, id)
	return nil
}

func (f *fakeDepartmentRepo) ListByWorkspace(_ context.Context, workspaceID string, limit, offset int) ([]domain.Department, error) {
	var out []domain.Department
	// Newest first, matching the SQL ordering.
	for i := len(f.order) - 1; i >= 0; i-- {
		dept, ok := f.departments[f.order[i]]
		if !ok || dept.WorkspaceID != workspaceID {
			continue
		}
		out = append(out, *dept)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeDepartmentRepo) ListByIDs(_ context.Context, ids []string) ([]domain.Department, error) {
	var out []domain.Department
	for _, id := range ids {
		if dept, ok := f.departments[id]; ok {
			out = append(out, *dept)
		}
	}
	return out, nil
}

type fakeWorkspaceRepo struct {
	workspaces map[string]*domain.Workspace
	nextID     int
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{workspaces: make(map[string]*domain.Workspace)}
}

func (f *fakeWorkspaceRepo) Create(_ context.Context, workspace *domain.Workspace) error {
	f.nextID++
	workspace.ID = fmt.Sprintf("ws-%d", f.nextID)
	copied := *workspace
	f.workspaces[workspace.ID] = &copied
	return nil
}

func (f *fakeWorkspaceRepo) Update(_ context.Context, workspace *domain.Workspace) error {
	if _, ok := f.workspaces[workspace.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *workspace
	f.workspaces[workspace.ID] = &copied
	return nil
}

func (f *fakeWorkspaceRepo) GetByID(_ context.Context, id string) (*domain.Workspace, error) {
	workspace, ok := f.workspaces[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *workspace
	return &copied, nil
}

func (f *fakeWorkspaceRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.workspaces[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.workspaces, id)
	return nil
}

func (f *fakeWorkspaceRepo) ListByUser(_ context.Context, _ string) ([]domain.Workspace, error) {
	var out []domain.Workspace
	for _, workspace := range f.workspaces {
		out = append(out, *workspace)
	}
	return out, nil
}
