package dto

import (
	"time"

	"github.com/spec-kit/directive-service/internal/domain"
)

// CreateWorkspaceRequest payload.
type CreateWorkspaceRequest struct {
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

// JoinWorkspaceRequest payload.
type JoinWorkspaceRequest struct {
	InviteCode string `json:"inviteCode"`
}

// WorkspaceResponse is the wire shape of a workspace.
type WorkspaceResponse struct {
	ID         string    `json:"$id"`
	Name       string    `json:"name"`
	ImageURL   *string   `json:"imageUrl,omitempty"`
	OwnerID    string    `json:"ownerId"`
	InviteCode string    `json:"inviteCode"`
	CreatedAt  time.Time `json:"$createdAt"`
	UpdatedAt  time.Time `json:"$updatedAt"`
}

// MemberResponse is a membership joined with user info.
type MemberResponse struct {
	ID          string            `json:"$id"`
	WorkspaceID string            `json:"workspaceId"`
	UserID      string            `json:"userId"`
	Role        domain.MemberRole `json:"role"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	CreatedAt   time.Time         `json:"$createdAt"`
}
