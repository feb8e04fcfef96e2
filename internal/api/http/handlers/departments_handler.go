package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directive-service/internal/api/dto"
	"github.com/spec-kit/directive-service/internal/auth"
	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/service"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

// DepartmentsHandler manages department endpoints.
type DepartmentsHandler struct {
	departments *service.DepartmentService
	analytics   *service.AnalyticsService
}

// NewDepartmentsHandler constructs handler.
func NewDepartmentsHandler(departmentService *service.DepartmentService, analyticsService *service.AnalyticsService) *DepartmentsHandler {
	return &DepartmentsHandler{departments: departmentService, analytics: analyticsService}
}

// CreateDepartment POST /departments.
func (h *DepartmentsHandler) CreateDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || req.WorkspaceID == "" {
		return apperrors.NewValidationError("name and workspaceId required")
	}

	dept, err := h.departments.Create(c.Context(), principal.User.ID, service.DepartmentCreateInput{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": departmentResponse(dept)})
}

// ListDepartments GET /departments?workspaceId=.
func (h *DepartmentsHandler) ListDepartments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	workspaceID := c.Query("workspaceId")
	if workspaceID == "" {
		return apperrors.NewValidationError("workspaceId required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("pageSize"), 50)

	departments, err := h.departments.List(c.Context(), principal.User.ID, workspaceID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		items = append(items, departmentResponse(&departments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetDepartment GET /departments/:id.
func (h *DepartmentsHandler) GetDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	dept, err := h.departments.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// UpdateDepartment PATCH /departments/:id. Admin only.
func (h *DepartmentsHandler) UpdateDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperrors.NewValidationError("name must not be empty")
	}

	dept, err := h.departments.Update(c.Context(), principal.User.ID, c.Params("id"), service.DepartmentUpdateInput{
		Name:     req.Name,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": departmentResponse(dept)})
}

// DeleteDepartment DELETE /departments/:id. Admin only.
func (h *DepartmentsHandler) DeleteDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := h.departments.Delete(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResponse{ID: id}})
}

// GetAnalytics GET /departments/:id/analytics.
func (h *DepartmentsHandler) GetAnalytics(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	snapshot, err := h.analytics.ForDepartment(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AnalyticsResponse{
		TaskCount:                snapshot.TaskCount,
		TaskDifference:           snapshot.TaskDifference,
		CompletedTaskCount:       snapshot.CompletedTaskCount,
		CompletedTaskDifference:  snapshot.CompletedTaskDifference,
		InCompleteTaskCount:      snapshot.InCompleteTaskCount,
		InCompleteTaskDifference: snapshot.InCompleteTaskDifference,
		OverDueTasksCount:        snapshot.OverdueTaskCount,
	}})
}

func departmentResponse(dept *domain.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:          dept.ID,
		WorkspaceID: dept.WorkspaceID,
		Name:        dept.Name,
		ImageURL:    dept.ImageURL,
		CreatedAt:   dept.CreatedAt,
		UpdatedAt:   dept.UpdatedAt,
	}
}
