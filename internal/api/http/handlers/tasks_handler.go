package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directive-service/internal/api/dto"
	"github.com/spec-kit/directive-service/internal/auth"
	"github.com/spec-kit/directive-service/internal/domain"
	"github.com/spec-kit/directive-service/internal/service"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

// TasksHandler manages directive endpoints.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// CreateTask POST /tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || req.WorkspaceID == "" || req.DepartmentID == "" ||
		strings.TrimSpace(req.CoName) == "" || strings.TrimSpace(req.ReceivedThrough) == "" {
		return apperrors.NewValidationError("name, workspaceId, departmentId, coName, receivedThrough required")
	}
	if req.DueDate.IsZero() {
		return apperrors.NewValidationError("dueDate required")
	}
	status, ok := domain.ParseTaskStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("invalid status")
	}
	coType, ok := domain.ParseRequesterType(req.CoType)
	if !ok {
		return apperrors.NewValidationError("invalid coType")
	}

	task, err := h.service.Create(c.Context(), principal.User.ID, service.TaskCreateInput{
		WorkspaceID:     req.WorkspaceID,
		DepartmentID:    req.DepartmentID,
		Name:            req.Name,
		Status:          status,
		DueDate:         req.DueDate,
		Description:     req.Description,
		Designation:     req.Designation,
		RequesterType:   coType,
		RequesterName:   req.CoName,
		ReceivedThrough: req.ReceivedThrough,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// ListTasks GET /tasks.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter, err := parseTaskListQuery(c)
	if err != nil {
		return err
	}
	tasks, err := h.service.List(c.Context(), principal.User.ID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TaskWithDepartmentResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskWithDepartmentResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTask GET /tasks/:id.
func (h *TasksHandler) GetTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	task, err := h.service.Get(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskWithDepartmentResponse(task)})
}

// UpdateTask PATCH /tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	input := service.TaskUpdateInput{
		Name:            req.Name,
		DepartmentID:    req.DepartmentID,
		DueDate:         req.DueDate,
		Description:     req.Description,
		Designation:     req.Designation,
		RequesterName:   req.CoName,
		ReceivedThrough: req.ReceivedThrough,
	}
	if req.Status != nil {
		status, ok := domain.ParseTaskStatus(*req.Status)
		if !ok {
			return apperrors.NewValidationError("invalid status")
		}
		input.Status = &status
	}
	if req.CoType != nil {
		coType, ok := domain.ParseRequesterType(*req.CoType)
		if !ok {
			return apperrors.NewValidationError("invalid coType")
		}
		input.RequesterType = &coType
	}

	task, err := h.service.Update(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// DeleteTask DELETE /tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	id, err := h.service.Delete(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeleteResponse{ID: id}})
}

// BulkUpdate POST /tasks/bulk-update.
func (h *TasksHandler) BulkUpdate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if len(req.Tasks) == 0 {
		return apperrors.NewValidationError("tasks required")
	}

	items := make([]service.BulkUpdateItem, 0, len(req.Tasks))
	for _, entry := range req.Tasks {
		if entry.ID == "" {
			return apperrors.NewValidationError("$id required for every task")
		}
		status, ok := domain.ParseTaskStatus(entry.Status)
		if !ok {
			return apperrors.NewValidationError("invalid status")
		}
		items = append(items, service.BulkUpdateItem{
			ID:       entry.ID,
			Status:   status,
			Position: entry.Position,
		})
	}

	updated, err := h.service.BulkUpdate(c.Context(), principal.User.ID, items)
	if err != nil {
		return err
	}
	resp := make([]dto.TaskResponse, 0, len(updated))
	for i := range updated {
		resp = append(resp, taskResponse(&updated[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func parseTaskListQuery(c *fiber.Ctx) (service.TaskListFilter, error) {
	filter := service.TaskListFilter{WorkspaceID: c.Query("workspaceId")}
	if filter.WorkspaceID == "" {
		return filter, apperrors.NewValidationError("workspaceId required")
	}
	if departmentID := c.Query("departmentId"); departmentID != "" {
		filter.DepartmentID = &departmentID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		status, ok := domain.ParseTaskStatus(statusStr)
		if !ok {
			return filter, apperrors.NewValidationError("invalid status")
		}
		filter.Status = &status
	}
	if coTypeStr := c.Query("coType"); coTypeStr != "" {
		coType, ok := domain.ParseRequesterType(coTypeStr)
		if !ok {
			return filter, apperrors.NewValidationError("invalid coType")
		}
		filter.RequesterType = &coType
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if coName := c.Query("coName"); coName != "" {
		filter.RequesterName = &coName
	}
	if receivedThrough := c.Query("receivedThrough"); receivedThrough != "" {
		filter.ReceivedThrough = &receivedThrough
	}
	if dueDateStr := c.Query("dueDate"); dueDateStr != "" {
		dueDate, err := time.Parse(time.RFC3339, dueDateStr)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid dueDate")
		}
		filter.DueDate = &dueDate
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("pageSize"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:              task.ID,
		WorkspaceID:     task.WorkspaceID,
		DepartmentID:    task.DepartmentID,
		Name:            task.Name,
		Status:          task.Status,
		Position:        task.Position,
		SerialNo:        task.SerialNo,
		DueDate:         task.DueDate,
		Description:     task.Description,
		Designation:     task.Designation,
		CoType:          task.RequesterType,
		CoName:          task.RequesterName,
		ReceivedThrough: task.ReceivedThrough,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
	}
}

func taskWithDepartmentResponse(task *service.TaskWithDepartment) dto.TaskWithDepartmentResponse {
	resp := dto.TaskWithDepartmentResponse{TaskResponse: taskResponse(&task.Task)}
	if task.Department != nil {
		dept := departmentResponse(task.Department)
		resp.Department = &dept
	}
	return resp
}
