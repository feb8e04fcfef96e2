package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directive-service/internal/api/dto"
	"github.com/spec-kit/directive-service/internal/auth"
	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/repository"
	"github.com/spec-kit/directive-service/internal/service"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

// WorkspacesHandler manages tenant endpoints.
type WorkspacesHandler struct {
	service *service.WorkspaceService
}

// NewWorkspacesHandler constructs handler.
func NewWorkspacesHandler(workspaceService *service.WorkspaceService) *WorkspacesHandler {
	return &WorkspacesHandler{service: workspaceService}
}

// CreateWorkspace POST /workspaces.
func (h *WorkspacesHandler) CreateWorkspace(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateWorkspaceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("name required")
	}

	workspace, err := h.service.Create(c.Context(), principal.User.ID, req.Name, req.ImageURL)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": workspaceResponse(workspace)})
}

// ListWorkspaces GET /workspaces.
func (h *WorkspacesHandler) ListWorkspaces(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	workspaces, err := h.service.List(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.WorkspaceResponse, 0, len(workspaces))
	for i := range workspaces {
		items = append(items, workspaceResponse(&workspaces[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetWorkspace GET /workspaces/:id.
func (h *WorkspacesHandler) GetWorkspace(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	workspace, err := h.service.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workspaceResponse(workspace)})
}

// JoinWorkspace POST /workspaces/:id/join.
func (h *WorkspacesHandler) JoinWorkspace(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.JoinWorkspaceRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.InviteCode) == "" {
		return apperrors.NewValidationError("inviteCode required")
	}

	member, err := h.service.Join(c.Context(), principal.User.ID, c.Params("id"), req.InviteCode)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"$id":         member.ID,
		"workspaceId": member.WorkspaceID,
		"role":        member.Role,
	}})
}

// ResetInviteCode POST /workspaces/:id/reset-invite-code. Admin only.
func (h *WorkspacesHandler) ResetInviteCode(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	workspace, err := h.service.ResetInviteCode(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workspaceResponse(workspace)})
}

// ListMembers GET /workspaces/:id/members.
func (h *WorkspacesHandler) ListMembers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	members, err := h.service.Members(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, memberResponse(member))
	}
	return c.JSON(fiber.Map{"data": items})
}

func workspaceResponse(workspace *domain.Workspace) dto.WorkspaceResponse {
	return dto.WorkspaceResponse{
		ID:         workspace.ID,
		Name:       workspace.Name,
		ImageURL:   workspace.ImageURL,
		OwnerID:    workspace.OwnerID,
		InviteCode: workspace.InviteCode,
		CreatedAt:  workspace.CreatedAt,
		UpdatedAt:  workspace.UpdatedAt,
	}
}

func memberResponse(info repository.MemberInfo) dto.MemberResponse {
	return dto.MemberResponse{
		ID:          info.ID,
		WorkspaceID: info.WorkspaceID,
		UserID:      info.UserID,
		Role:        info.Role,
		Name:        info.UserName,
		Email:       info.UserEmail,
		CreatedAt:   info.CreatedAt,
	}
}
