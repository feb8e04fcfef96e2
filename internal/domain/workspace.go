package domain

import "time"

// Workspace is the top-level tenant boundary. Every department, task, and
// membership is scoped to exactly one workspace.
type Workspace struct {
	ID         string
	Name       string
	ImageURL   *string
	OwnerID    string
	InviteCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
