package domain

import "time"

// Department groups directives inside a workspace.
type Department struct {
	ID          string
	WorkspaceID string
	Name        string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DepartmentAnalytics is the derived month-over-month snapshot for one
// department. Computed on demand, never persisted.
type DepartmentAnalytics struct {
	TaskCount                int
	TaskDifference           int
	CompletedTaskCount       int
	CompletedTaskDifference  int
	InCompleteTaskCount      int
	InCompleteTaskDifference int
	OverdueTaskCount         int
}
