package domain

import "time"

// TaskStatus enumerates the kanban lanes a directive moves through.
type TaskStatus string

const (
	TaskStatusInProgress  TaskStatus = "IN_PROGRESS"
	TaskStatusUnderReview TaskStatus = "UNDER_REVIEW"
	TaskStatusNotified    TaskStatus = "NOTIFIED"
	TaskStatusOther       TaskStatus = "OTHER"
)

// ParseTaskStatus validates a wire value against the closed status set.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	switch TaskStatus(value) {
	case TaskStatusInProgress, TaskStatusUnderReview, TaskStatusNotified, TaskStatusOther:
		return TaskStatus(value), true
	}
	return "", false
}

// RequesterType enumerates who a directive was received from.
type RequesterType string

const (
	RequesterTypeMPA       RequesterType = "MPA"
	RequesterTypeMNA       RequesterType = "MNA"
	RequesterTypeMinister  RequesterType = "MINISTER"
	RequesterTypeSenator   RequesterType = "SENATOR"
	RequesterTypeSACM      RequesterType = "SACM"
	RequesterTypeAdvisor   RequesterType = "ADVISOR"
	RequesterTypePPPLeader RequesterType = "PPPLEADER"
	RequesterTypeOther     RequesterType = "OTHER"
)

// ParseRequesterType validates a wire value against the closed requester set.
func ParseRequesterType(value string) (RequesterType, bool) {
	switch RequesterType(value) {
	case RequesterTypeMPA, RequesterTypeMNA, RequesterTypeMinister, RequesterTypeSenator,
		RequesterTypeSACM, RequesterTypeAdvisor, RequesterTypePPPLeader, RequesterTypeOther:
		return RequesterType(value), true
	}
	return "", false
}

// Position bounds for drag-and-drop reordering. New tasks are appended at
// lane max + PositionStep; the first task in an empty lane gets PositionStep.
const (
	PositionStep = 1000
	PositionMin  = 1000
	PositionMax  = 1_000_000
)

// Task is the aggregate for tracked directives. Position and SerialNo are
// each scoped to the (workspace, status) lane.
type Task struct {
	ID              string
	WorkspaceID     string
	DepartmentID    string
	Name            string
	Status          TaskStatus
	Position        int
	SerialNo        int
	DueDate         time.Time
	Description     *string
	Designation     *string
	RequesterType   RequesterType
	RequesterName   string
	ReceivedThrough string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
