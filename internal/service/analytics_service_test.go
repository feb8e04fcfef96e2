package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/directive-service/internal/domain"
)

func newAnalyticsServiceForTest(now time.Time) (*AnalyticsService, *fakeTaskRepo, *fakeDepartmentRepo, *fakeMemberRepo) {
	tasks := newFakeTaskRepo()
	departments := newFakeDepartmentRepo()
	members := newFakeMemberRepo()
	svc := NewAnalyticsService(AnalyticsDependencies{
		TaskRepo:       tasks,
		DepartmentRepo: departments,
		MemberRepo:     members,
	})
	svc.now = func() time.Time { return now }
	return svc, tasks, departments, members
}

func TestAnalyticsZeroTasks(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	svc, _, departments, members := newAnalyticsServiceForTest(now)
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	snapshot, err := svc.ForDepartment(context.Background(), "user-1", "dept-1")
	if err != nil {
		t.Fatal(err)
	}
	if *snapshot != (domain.DepartmentAnalytics{}) {
		t.Fatalf("expected all-zero snapshot, got %+v", snapshot)
	}
}

func TestAnalyticsMonthOverMonthCounts(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	svc, tasks, departments, members := newAnalyticsServiceForTest(now)
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	thisMonth := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.July, 5, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)

	seed := func(id string, created time.Time, status domain.TaskStatus) {
		tasks.add(domain.Task{
			ID: id, WorkspaceID: "ws-1", DepartmentID: "dept-1",
			Status: status, DueDate: future, CreatedAt: created,
		})
	}

	// This month: 2 completed, 3 open. Last month: 1 completed, 1 open.
	seed("t1", thisMonth, domain.TaskStatusNotified)
	seed("t2", thisMonth, domain.TaskStatusNotified)
	seed("t3", thisMonth, domain.TaskStatusInProgress)
	seed("t4", thisMonth, domain.TaskStatusUnderReview)
	seed("t5", thisMonth, domain.TaskStatusOther)
	seed("t6", lastMonth, domain.TaskStatusNotified)
	seed("t7", lastMonth, domain.TaskStatusInProgress)

	snapshot, err := svc.ForDepartment(context.Background(), "user-1", "dept-1")
	if err != nil {
		t.Fatal(err)
	}

	want := domain.DepartmentAnalytics{
		TaskCount:                5,
		TaskDifference:           3,
		CompletedTaskCount:       2,
		CompletedTaskDifference:  1,
		InCompleteTaskCount:      3,
		InCompleteTaskDifference: 2,
		OverdueTaskCount:         0,
	}
	if *snapshot != want {
		t.Fatalf("expected %+v, got %+v", want, snapshot)
	}
}

func TestAnalyticsOverdueCountsOnlyOpenTasksPastLastMonthStart(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	svc, tasks, departments, members := newAnalyticsServiceForTest(now)
	members.add("ws-1", "user-1", domain.MemberRoleMember)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	created := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	// Open and due before last month's start: overdue.
	tasks.add(domain.Task{
		ID: "t1", WorkspaceID: "ws-1", DepartmentID: "dept-1",
		Status: domain.TaskStatusInProgress, CreatedAt: created,
		DueDate: lastMonthStart.Add(-time.Hour),
	})
	// Completed with the same due date: not overdue.
	tasks.add(domain.Task{
		ID: "t2", WorkspaceID: "ws-1", DepartmentID: "dept-1",
		Status: domain.TaskStatusNotified, CreatedAt: created,
		DueDate: lastMonthStart.Add(-time.Hour),
	})
	// Open but due inside last month: not overdue yet.
	tasks.add(domain.Task{
		ID: "t3", WorkspaceID: "ws-1", DepartmentID: "dept-1",
		Status: domain.TaskStatusInProgress, CreatedAt: created,
		DueDate: lastMonthStart.AddDate(0, 0, 14),
	})
	// Due exactly at the boundary: DueBefore is strict, not overdue.
	tasks.add(domain.Task{
		ID: "t4", WorkspaceID: "ws-1", DepartmentID: "dept-1",
		Status: domain.TaskStatusInProgress, CreatedAt: created,
		DueDate: lastMonthStart,
	})

	snapshot, err := svc.ForDepartment(context.Background(), "user-1", "dept-1")
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.OverdueTaskCount != 1 {
		t.Fatalf("expected 1 overdue task, got %d", snapshot.OverdueTaskCount)
	}
}

func TestAnalyticsRejectsNonMember(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	svc, _, departments, _ := newAnalyticsServiceForTest(now)
	departments.add(domain.Department{ID: "dept-1", WorkspaceID: "ws-1", Name: "Works"})

	_, err := svc.ForDepartment(context.Background(), "outsider", "dept-1")
	assertHTTPStatus(t, err, 401)
}

func TestMonthWindowBounds(t *testing.T) {
	start, end := monthWindow(time.Date(2026, time.August, 15, 12, 30, 0, 0, time.UTC))

	wantStart := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Errorf("expected start %v, got %v", wantStart, start)
	}

	nextStart := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	if !end.Before(nextStart) {
		t.Errorf("end %v not before next month start", end)
	}
	if nextStart.Sub(end) != time.Nanosecond {
		t.Errorf("expected end 1ns before next month, got %v", nextStart.Sub(end))
	}
}

func TestMonthWindowDecemberRollsOverYear(t *testing.T) {
	start, end := monthWindow(time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC))

	if start.Month() != time.December || start.Year() != 2025 {
		t.Errorf("unexpected start %v", start)
	}
	if end.Year() != 2025 || end.Month() != time.December || end.Day() != 31 {
		t.Errorf("unexpected end %v", end)
	}
}
