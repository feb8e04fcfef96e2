package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/events"
	"github.com/spec-kit/directive-service/internal/repository"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

// TaskService coordinates directive workflows, including the per-lane
// position/serial sequencing used by the board views.
type TaskService struct {
	tasks       repository.TaskRepository
	departments repository.DepartmentRepository
	gate        membershipGate
	dispatcher  events.Dispatcher
}

// TaskDependencies bundles repositories for the task service.
type TaskDependencies struct {
	TaskRepo       repository.TaskRepository
	DepartmentRepo repository.DepartmentRepository
	MemberRepo     repository.MemberRepository
	Dispatcher     events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:       deps.TaskRepo,
		departments: deps.DepartmentRepo,
		gate:        membershipGate{members: deps.MemberRepo},
		dispatcher:  deps.Dispatcher,
	}
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	WorkspaceID     string
	DepartmentID    string
	Name            string
	Status          domain.TaskStatus
	DueDate         time.Time
	Description     *string
	Designation     *string
	RequesterType   domain.RequesterType
	RequesterName   string
	ReceivedThrough string
}

// TaskUpdateInput describes a partial update; nil fields are left unchanged.
type TaskUpdateInput struct {
	Name            *string
	Status          *domain.TaskStatus
	DepartmentID    *string
	DueDate         *time.Time
	Description     *string
	Designation     *string
	RequesterType   *domain.RequesterType
	RequesterName   *string
	ReceivedThrough *string
}

// TaskListFilter describes list query parameters.
type TaskListFilter struct {
	WorkspaceID     string
	DepartmentID    *string
	Status          *domain.TaskStatus
	DueDate         *time.Time
	RequesterType   *domain.RequesterType
	SearchTerm      *string
	RequesterName   *string
	ReceivedThrough *string
	Limit           int
	Offset          int
}

// TaskWithDepartment joins a task with its owning department for responses.
type TaskWithDepartment struct {
	domain.Task
	Department *domain.Department
}

// BulkUpdateItem is one entry of a reorder/restatus batch.
type BulkUpdateItem struct {
	ID       string
	Status   domain.TaskStatus
	Position int
}

// Create assigns the next position and serial number in the target
// (workspace, status) lane and persists the task.
//
// Both sequences are re-derived from the current lane maxima on every
// create; there is no stored counter and no transaction around the
// read-then-write, so two concurrent creates in the same lane can observe
// the same maximum and collide.
func (s *TaskService) Create(ctx context.Context, userID string, input TaskCreateInput) (*domain.Task, error) {
	if _, err := s.gate.requireMember(ctx, input.WorkspaceID, userID); err != nil {
		return nil, err
	}

	maxPosition, err := s.tasks.MaxPositionInLane(ctx, input.WorkspaceID, input.Status)
	if err != nil {
		return nil, err
	}
	position := domain.PositionStep
	if maxPosition > 0 {
		position = maxPosition + domain.PositionStep
	}

	maxSerial, err := s.tasks.MaxSerialInLane(ctx, input.WorkspaceID, input.Status)
	if err != nil {
		return nil, err
	}
	serialNo := maxSerial + 1

	task := &domain.Task{
		WorkspaceID:     input.WorkspaceID,
		DepartmentID:    input.DepartmentID,
		Name:            strings.TrimSpace(input.Name),
		Status:          input.Status,
		Position:        position,
		SerialNo:        serialNo,
		DueDate:         input.DueDate,
		Description:     input.Description,
		Designation:     input.Designation,
		RequesterType:   input.RequesterType,
		RequesterName:   strings.TrimSpace(input.RequesterName),
		ReceivedThrough: strings.TrimSpace(input.ReceivedThrough),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventTaskCreated,
		WorkspaceID: task.WorkspaceID,
		ActorUserID: userID,
		Payload: events.TaskCreatedPayload{
			TaskID:       task.ID,
			DepartmentID: task.DepartmentID,
			Status:       task.Status,
			Position:     task.Position,
			SerialNo:     task.SerialNo,
		},
	})
	return task, nil
}

// List returns tasks matching the filter, each joined with its department.
func (s *TaskService) List(ctx context.Context, userID string, filter TaskListFilter) ([]TaskWithDepartment, error) {
	if _, err := s.gate.requireMember(ctx, filter.WorkspaceID, userID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListWithFilter(ctx, repository.TaskFilter{
		WorkspaceID:     filter.WorkspaceID,
		DepartmentID:    filter.DepartmentID,
		Status:          filter.Status,
		DueDate:         filter.DueDate,
		RequesterType:   filter.RequesterType,
		SearchTerm:      filter.SearchTerm,
		RequesterName:   filter.RequesterName,
		ReceivedThrough: filter.ReceivedThrough,
		Limit:           filter.Limit,
		Offset:          filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return s.joinDepartments(ctx, tasks)
}

// Get fetches a single task with its department, gated on the task's
// workspace.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*TaskWithDepartment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireMember(ctx, task.WorkspaceID, userID); err != nil {
		return nil, err
	}
	dept, err := s.departments.GetByID(ctx, task.DepartmentID)
	if err != nil {
		return nil, err
	}
	return &TaskWithDepartment{Task: *task, Department: dept}, nil
}

// Update applies a partial update to a task.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireMember(ctx, task.WorkspaceID, userID); err != nil {
		return nil, err
	}

	oldStatus := task.Status
	if input.Name != nil {
		task.Name = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.DepartmentID != nil {
		task.DepartmentID = *input.DepartmentID
	}
	if input.DueDate != nil {
		task.DueDate = *input.DueDate
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Designation != nil {
		task.Designation = input.Designation
	}
	if input.RequesterType != nil {
		task.RequesterType = *input.RequesterType
	}
	if input.RequesterName != nil {
		task.RequesterName = strings.TrimSpace(*input.RequesterName)
	}
	if input.ReceivedThrough != nil {
		task.ReceivedThrough = strings.TrimSpace(*input.ReceivedThrough)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventTaskUpdated,
		WorkspaceID: task.WorkspaceID,
		ActorUserID: userID,
		Payload: events.TaskUpdatedPayload{
			TaskID:    task.ID,
			OldStatus: oldStatus,
			NewStatus: task.Status,
		},
	})
	return task, nil
}

// Delete removes a task and returns its identifier.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) (string, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return "", err
	}
	if _, err := s.gate.requireMember(ctx, task.WorkspaceID, userID); err != nil {
		return "", err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return "", err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventTaskDeleted,
		WorkspaceID: task.WorkspaceID,
		ActorUserID: userID,
		Payload:     events.TaskDeletedPayload{TaskID: task.ID},
	})
	return task.ID, nil
}

// BulkUpdate applies a reorder/restatus batch. The batch is authorized as a
// whole: all referenced tasks must live in a single workspace, membership is
// checked once for that workspace, and the writes are applied all-or-nothing.
func (s *TaskService) BulkUpdate(ctx context.Context, userID string, items []BulkUpdateItem) ([]domain.Task, error) {
	if len(items) == 0 {
		return nil, apperrors.NewValidationError("tasks required")
	}
	for _, item := range items {
		if item.Position < domain.PositionMin || item.Position > domain.PositionMax {
			return nil, apperrors.NewValidationError("position out of range")
		}
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	existing, err := s.tasks.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(existing) != len(items) {
		return nil, apperrors.NewNotFound("task")
	}

	workspaceID := existing[0].WorkspaceID
	for _, task := range existing {
		if task.WorkspaceID != workspaceID {
			return nil, apperrors.NewValidationError("all tasks must belong to the same workspace")
		}
	}
	if _, err := s.gate.requireMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	updates := make([]repository.TaskPositionUpdate, 0, len(items))
	for _, item := range items {
		updates = append(updates, repository.TaskPositionUpdate{
			ID:       item.ID,
			Status:   item.Status,
			Position: item.Position,
		})
	}
	updated, err := s.tasks.BulkUpdate(ctx, updates)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:        events.EventTasksReordered,
		WorkspaceID: workspaceID,
		ActorUserID: userID,
		Payload:     events.TasksReorderedPayload{TaskIDs: ids},
	})
	return updated, nil
}

func (s *TaskService) joinDepartments(ctx context.Context, tasks []domain.Task) ([]TaskWithDepartment, error) {
	idSet := make(map[string]struct{}, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if _, seen := idSet[task.DepartmentID]; !seen {
			idSet[task.DepartmentID] = struct{}{}
			ids = append(ids, task.DepartmentID)
		}
	}
	departments, err := s.departments.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Department, len(departments))
	for i := range departments {
		byID[departments[i].ID] = &departments[i]
	}

	result := make([]TaskWithDepartment, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, TaskWithDepartment{Task: task, Department: byID[task.DepartmentID]})
	}
	return result, nil
}

func (s *TaskService) publishEvent(ctx context.Context, event events.Event) {
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
