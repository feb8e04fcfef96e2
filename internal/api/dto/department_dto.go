package dto

import "time"

// CreateDepartmentRequest payload.
type CreateDepartmentRequest struct {
	Name        string  `json:"name"`
	ImageURL    *string `json:"imageUrl"`
	WorkspaceID string  `json:"workspaceId"`
}

// UpdateDepartmentRequest payload; absent fields are left unchanged.
type UpdateDepartmentRequest struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// DepartmentResponse is the wire shape of a department.
type DepartmentResponse struct {
	ID          string    `json:"$id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"$createdAt"`
	UpdatedAt   time.Time `json:"$updatedAt"`
}

// AnalyticsResponse is the per-department month-over-month snapshot.
type AnalyticsResponse struct {
	TaskCount                int `json:"taskCount"`
	TaskDifference           int `json:"taskDifference"`
	CompletedTaskCount       int `json:"completedTaskCount"`
	CompletedTaskDifference  int `json:"completedTaskDifference"`
	InCompleteTaskCount      int `json:"inCompleteTaskCount"`
	InCompleteTaskDifference int `json:"inCompleteTaskDifference"`
	OverDueTasksCount        int `json:"overDueTasksCount"`
}
