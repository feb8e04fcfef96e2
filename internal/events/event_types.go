package events

import (
	"time"

	"github.com/spec-kit/directive-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated       EventType = "task_created"
	EventTaskUpdated       EventType = "task_updated"
	EventTaskDeleted       EventType = "task_deleted"
	EventTasksReordered    EventType = "tasks_reordered"
	EventDepartmentCreated EventType = "department_created"
	EventDepartmentDeleted EventType = "department_deleted"
	EventMemberJoined      EventType = "member_joined"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	WorkspaceID string      `json:"workspace_id"`
	ActorUserID string      `json:"actor_user_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	TaskID       string            `json:"task_id"`
	DepartmentID string            `json:"department_id"`
	Status       domain.TaskStatus `json:"status"`
	Position     int               `json:"position"`
	SerialNo     int               `json:"serial_no"`
}

// TaskUpdatedPayload payload.
type TaskUpdatedPayload struct {
	TaskID    string            `json:"task_id"`
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// TaskDeletedPayload payload.
type TaskDeletedPayload struct {
	TaskID string `json:"task_id"`
}

// TasksReorderedPayload payload.
type TasksReorderedPayload struct {
	TaskIDs []string `json:"task_ids"`
}

// DepartmentCreatedPayload payload.
type DepartmentCreatedPayload struct {
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
}

// DepartmentDeletedPayload payload.
type DepartmentDeletedPayload struct {
	DepartmentID string `json:"department_id"`
}

// MemberJoinedPayload payload.
type MemberJoinedPayload struct {
	MemberID string            `json:"member_id"`
	UserID   string            `json:"user_id"`
	Role     domain.MemberRole `json:"role"`
}
