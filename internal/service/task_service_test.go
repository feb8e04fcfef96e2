package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spec-kit/directive-service/internal/domain"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

func newTaskServiceForTest() (*TaskService, *fakeTaskRepo, *fakeDepartmentRepo, *fakeMemberRepo) {
	tasks := newFakeTaskRepo()
	departments := newFakeDepartmentRepo()
	members := newFakeMemberRepo()
	svc := NewTaskService(TaskDependencies{
		TaskRepo:       tasks,
		DepartmentRepo: departments,
		MemberRepo:     members,
	})
	return svc, tasks, departments, members
}

func assertHTTPStatus(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", want)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	if domainErr.HTTPStatus != want {
		t.Fatalf("expected status %d, got %d (%v)", want, domainErr.HTTPStatus, err)
	}
}

func sampleCreateInput(workspaceID, departmentID string, status domain.TaskStatus) TaskCreateInput {
	return TaskCreateInput{
		WorkspaceID:     workspaceID,
		DepartmentID:    departmentID,
		Name:            "resolve water supply complaint",
		Status:          status,
		DueDate:         time.Now().AddDate(0, 0, 7),
		RequesterType:   domain.RequesterTypeMPA,
		RequesterName:   "A. Khan",
		ReceivedThrough: "phone",
	}
}

func TestCreateAssignsSequentialLanePositions(t *testing.T) {
	svc, _, departments, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	ctx := context.Background()
	for i, want := range []struct{ position, serial int }{
		{1000, 1}, {2000, 2}, {3000, 3},
	} {
		task, err := svc.Create(ctx, "user-1", sampleCreateInput("ws-1", "dept-1", domain.TaskStatusInProgress))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if task.Position != want.position {
			t.Errorf("create %d: expected position %d, got %d", i, want.position, task.Position)
		}
		if task.SerialNo != want.serial {
			t.Errorf("create %d: expected serial %d, got %d", i, want.serial, task.SerialNo)
		}
	}
}

func TestCreateSequencesLanesIndependently(t *testing.T) {
	svc, _, departments, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	ctx := context.Background()
	if _, err := svc.Create(ctx, "user-1", sampleCreateInput("ws-1", "dept-1", domain.TaskStatusInProgress)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, "user-1", sampleCreateInput("ws-1", "dept-1", domain.TaskStatusInProgress)); err != nil {
		t.Fatal(err)
	}

	// First task in a different lane starts the sequences over.
	task, err := svc.Create(ctx, "user-1", sampleCreateInput("ws-1", "dept-1", domain.TaskStatusUnderReview))
	if err != nil {
		t.Fatal(err)
	}
	if task.Position != domain.PositionStep {
		t.Errorf("expected position %d in empty lane, got %d", domain.PositionStep, task.Position)
	}
	if task.SerialNo != 1 {
		t.Errorf("expected serial 1 in empty lane, got %d", task.SerialNo)
	}
}

func TestCreateRejectsNonMember(t *testing.T) {
	svc, tasks, departments, _ := newTaskServiceForTest()
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	_, err := svc.Create(context.Background(), "outsider", sampleCreateInput("ws-1", "dept-1", domain.TaskStatusInProgress))
	assertHTTPStatus(t, err, 401)
	if len(tasks.tasks) != 0 {
		t.Fatalf("expected no tasks persisted, got %d", len(tasks.tasks))
	}
}

func TestGetRejectsMemberOfOtherWorkspace(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-2", "user-1", domain.MemberRoleAdmin)
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", DepartmentID: "dept-1", Status: domain.TaskStatusInProgress})

	_, err := svc.Get(context.Background(), "user-1", "task-1")
	assertHTTPStatus(t, err, 401)
}

func TestListJoinsDepartments(t *testing.T) {
	svc, tasks, departments, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", DepartmentID: "dept-1", Status: domain.TaskStatusInProgress})
	tasks.add(domain.Task{ID: "task-2", WorkspaceID: "ws-1", DepartmentID: "dept-1", Status: domain.TaskStatusInProgress})

	result, err := svc.List(context.Background(), "user-1", TaskListFilter{WorkspaceID: "ws-1", Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(result))
	}
	for _, item := range result {
		if item.Department == nil || item.Department.Name != "Works" {
			t.Errorf("task %s: expected joined department, got %+v", item.ID, item.Department)
		}
	}
}

func TestBulkUpdateRejectsPositionOutOfRange(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress, Position: 1000})

	for _, position := range []int{999, 0, 1_000_001} {
		_, err := svc.BulkUpdate(context.Background(), "user-1", []BulkUpdateItem{
			{ID: "task-1", Status: domain.TaskStatusNotified, Position: position},
		})
		assertHTTPStatus(t, err, 400)
	}
	if got := tasks.tasks["task-1"]; got.Position != 1000 || got.Status != domain.TaskStatusInProgress {
		t.Fatalf("task mutated by rejected batch: %+v", got)
	}
}

func TestBulkUpdateRejectsCrossWorkspaceBatch(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	members.add("ws-2", "user-1", domain.MemberRoleMember)
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress, Position: 1000})
	tasks.add(domain.Task{ID: "task-2", WorkspaceID: "ws-2", Status: domain.TaskStatusInProgress, Position: 1000})

	_, err := svc.BulkUpdate(context.Background(), "user-1", []BulkUpdateItem{
		{ID: "task-1", Status: domain.TaskStatusNotified, Position: 2000},
		{ID: "task-2", Status: domain.TaskStatusNotified, Position: 3000},
	})
	assertHTTPStatus(t, err, 400)

	for _, id := range []string{"task-1", "task-2"} {
		if got := tasks.tasks[id]; got.Position != 1000 || got.Status != domain.TaskStatusInProgress {
			t.Errorf("task %s mutated by rejected batch: %+v", id, got)
		}
	}
}

func TestBulkUpdateRejectsUnknownTask(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress, Position: 1000})

	_, err := svc.BulkUpdate(context.Background(), "user-1", []BulkUpdateItem{
		{ID: "task-1", Status: domain.TaskStatusNotified, Position: 2000},
		{ID: "missing", Status: domain.TaskStatusNotified, Position: 3000},
	})
	assertHTTPStatus(t, err, 404)
	if got := tasks.tasks["task-1"]; got.Status != domain.TaskStatusInProgress {
		t.Fatalf("task mutated by rejected batch: %+v", got)
	}
}

func TestBulkUpdateAppliesBatch(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress, Position: 1000})
	tasks.add(domain.Task{ID: "task-2", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress, Position: 2000})

	updated, err := svc.BulkUpdate(context.Background(), "user-1", []BulkUpdateItem{
		{ID: "task-1", Status: domain.TaskStatusUnderReview, Position: 2000},
		{ID: "task-2", Status: domain.TaskStatusInProgress, Position: 1000},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated) != 2 {
		t.Fatalf("expected 2 updated tasks, got %d", len(updated))
	}
	if got := tasks.tasks["task-1"]; got.Status != domain.TaskStatusUnderReview || got.Position != 2000 {
		t.Errorf("task-1 not applied: %+v", got)
	}
	if got := tasks.tasks["task-2"]; got.Status != domain.TaskStatusInProgress || got.Position != 1000 {
		t.Errorf("task-2 not applied: %+v", got)
	}
}

func TestBulkUpdateRejectsNonMember(t *testing.T) {
	svc, tasks, _, _ := newTaskServiceForTest()
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress, Position: 1000})

	_, err := svc.BulkUpdate(context.Background(), "outsider", []BulkUpdateItem{
		{ID: "task-1", Status: domain.TaskStatusNotified, Position: 2000},
	})
	assertHTTPStatus(t, err, 401)
	if got := tasks.tasks["task-1"]; got.Status != domain.TaskStatusInProgress {
		t.Fatalf("task mutated by unauthorized batch: %+v", got)
	}
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	tasks.add(domain.Task{
		ID: "task-1", WorkspaceID: "ws-1", DepartmentID: "dept-1",
		Name: "original", Status: domain.TaskStatusInProgress, Position: 1000, SerialNo: 1,
		RequesterName: "A. Khan",
	})

	newName := "renamed"
	newStatus := domain.TaskStatusNotified
	task, err := svc.Update(context.Background(), "user-1", "task-1", TaskUpdateInput{
		Name:   &newName,
		Status: &newStatus,
	})
	if err != nil {
		t.Fatal(err)
	}
	if task.Name != "renamed" || task.Status != domain.TaskStatusNotified {
		t.Errorf("changed fields not applied: %+v", task)
	}
	if task.RequesterName != "A. Khan" || task.Position != 1000 {
		t.Errorf("untouched fields were modified: %+v", task)
	}
}

func TestDeleteReturnsTaskID(t *testing.T) {
	svc, tasks, _, members := newTaskServiceForTest()
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	tasks.add(domain.Task{ID: "task-1", WorkspaceID: "ws-1", Status: domain.TaskStatusInProgress})

	id, err := svc.Delete(context.Background(), "user-1", "task-1")
	if err != nil {
		t.Fatal(err)
	}
	if id != "task-1" {
		t.Fatalf("expected task-1, got %s", id)
	}
	if _, ok := tasks.tasks["task-1"]; ok {
		t.Fatal("task still present after delete")
	}
}
