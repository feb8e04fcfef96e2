package service

import (
	"context"
	"time"

	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/repository"
)

// AnalyticsService computes the per-department month-over-month rollup.
// Every call recomputes from the task store; nothing is cached.
type AnalyticsService struct {
	tasks       repository.TaskRepository
	departments repository.DepartmentRepository
	gate        membershipGate
	now         func() time.Time
}

// AnalyticsDependencies bundles repositories for the analytics service.
type AnalyticsDependencies struct {
	TaskRepo       repository.TaskRepository
	DepartmentRepo repository.DepartmentRepository
	MemberRepo     repository.MemberRepository
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	return &AnalyticsService{
		tasks:       deps.TaskRepo,
		departments: deps.DepartmentRepo,
		gate:        membershipGate{members: deps.MemberRepo},
		now:         time.Now,
	}
}

// ForDepartment returns the analytics snapshot for a department.
//
// Windows are the current and previous server-local calendar months,
// inclusive on both ends, evaluated against task creation time. Completed
// means status NOTIFIED; incomplete is every other status in the same
// window. Overdue counts open tasks whose due date lies strictly before the
// start of last month, regardless of creation time.
func (s *AnalyticsService) ForDepartment(ctx context.Context, userID, departmentID string) (*domain.DepartmentAnalytics, error) {
	dept, err := s.departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.gate.requireMember(ctx, dept.WorkspaceID, userID); err != nil {
		return nil, err
	}

	now := s.now()
	thisStart, thisEnd := monthWindow(now)
	lastStart, lastEnd := monthWindow(thisStart.AddDate(0, -1, 0))

	notified := domain.TaskStatusNotified

	thisTotal, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		CreatedFrom:  &thisStart,
		CreatedTo:    &thisEnd,
	})
	if err != nil {
		return nil, err
	}
	lastTotal, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		CreatedFrom:  &lastStart,
		CreatedTo:    &lastEnd,
	})
	if err != nil {
		return nil, err
	}

	thisIncomplete, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		StatusNot:    &notified,
		CreatedFrom:  &thisStart,
		CreatedTo:    &thisEnd,
	})
	if err != nil {
		return nil, err
	}
	lastIncomplete, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		StatusNot:    &notified,
		CreatedFrom:  &lastStart,
		CreatedTo:    &lastEnd,
	})
	if err != nil {
		return nil, err
	}

	thisCompleted, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		Status:       &notified,
		CreatedFrom:  &thisStart,
		CreatedTo:    &thisEnd,
	})
	if err != nil {
		return nil, err
	}
	lastCompleted, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		Status:       &notified,
		CreatedFrom:  &lastStart,
		CreatedTo:    &lastEnd,
	})
	if err != nil {
		return nil, err
	}

	// An item is only overdue once it is at least one full month past due
	// and still open. Coarser than "due date < now", kept deliberately.
	overdue, err := s.tasks.CountWithFilter(ctx, repository.TaskCountFilter{
		DepartmentID: departmentID,
		StatusNot:    &notified,
		DueBefore:    &lastStart,
	})
	if err != nil {
		return nil, err
	}

	return &domain.DepartmentAnalytics{
		TaskCount:                thisTotal,
		TaskDifference:           thisTotal - lastTotal,
		CompletedTaskCount:       thisCompleted,
		CompletedTaskDifference:  thisCompleted - lastCompleted,
		InCompleteTaskCount:      thisIncomplete,
		InCompleteTaskDifference: thisIncomplete - lastIncomplete,
		OverdueTaskCount:         overdue,
	}, nil
}

// monthWindow returns the inclusive bounds of the calendar month containing
// t, in t's location: the first instant of the month and the last nanosecond
// before the next month begins.
func monthWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}
