package dto

import (
	"time"

	"github.com/spec-kit/directive-service/internal/domain"
)

// CreateTaskRequest payload. Field names follow the browser client's wire
// contract (camelCase, Appwrite-style $id in responses).
type CreateTaskRequest struct {
	Name            string    `json:"name"`
	Status          string    `json:"status"`
	WorkspaceID     string    `json:"workspaceId"`
	DepartmentID    string    `json:"departmentId"`
	DueDate         time.Time `json:"dueDate"`
	Description     *string   `json:"description"`
	Designation     *string   `json:"designation"`
	CoType          string    `json:"coType"`
	CoName          string    `json:"coName"`
	ReceivedThrough string    `json:"receivedThrough"`
}

// UpdateTaskRequest payload; absent fields are left unchanged.
type UpdateTaskRequest struct {
	Name            *string    `json:"name"`
	Status          *string    `json:"status"`
	DepartmentID    *string    `json:"departmentId"`
	DueDate         *time.Time `json:"dueDate"`
	Description     *string    `json:"description"`
	Designation     *string    `json:"designation"`
	CoType          *string    `json:"coType"`
	CoName          *string    `json:"coName"`
	ReceivedThrough *string    `json:"receivedThrough"`
}

// BulkUpdateRequest payload for reorder/restatus batches.
type BulkUpdateRequest struct {
	Tasks []BulkUpdateTask `json:"tasks"`
}

// BulkUpdateTask is one entry of a bulk update.
type BulkUpdateTask struct {
	ID       string `json:"$id"`
	Status   string `json:"status"`
	Position int    `json:"position"`
}

// TaskResponse is the wire shape of a task.
type TaskResponse struct {
	ID              string               `json:"$id"`
	WorkspaceID     string               `json:"workspaceId"`
	DepartmentID    string               `json:"departmentId"`
	Name            string               `json:"name"`
	Status          domain.TaskStatus    `json:"status"`
	Position        int                  `json:"position"`
	SerialNo        int                  `json:"serialNo"`
	DueDate         time.Time            `json:"dueDate"`
	Description     *string              `json:"description,omitempty"`
	Designation     *string              `json:"designation,omitempty"`
	CoType          domain.RequesterType `json:"coType"`
	CoName          string               `json:"coName"`
	ReceivedThrough string               `json:"receivedThrough"`
	CreatedAt       time.Time            `json:"$createdAt"`
	UpdatedAt       time.Time            `json:"$updatedAt"`
}

// TaskWithDepartmentResponse joins a task with its department.
type TaskWithDepartmentResponse struct {
	TaskResponse
	Department *DepartmentResponse `json:"department,omitempty"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	ID string `json:"$id"`
}
