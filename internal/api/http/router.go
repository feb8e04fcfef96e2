package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/directive-service/internal/api/http/handlers"
	"github.com/spec-kit/directive-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Workspaces     *handlers.WorkspacesHandler
	Departments    *handlers.DepartmentsHandler
	Tasks          *handlers.TasksHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/reset/request", cfg.Users.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Users.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Get("/me", cfg.Users.Me)
	authProtected.Post("/logout", cfg.Users.Logout)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	workspaces := app.Group("/workspaces", cfg.AuthMiddleware.Handle)
	workspaces.Post("/", cfg.Workspaces.CreateWorkspace)
	workspaces.Get("/", cfg.Workspaces.ListWorkspaces)
	workspaces.Get("/:id", cfg.Workspaces.GetWorkspace)
	workspaces.Post("/:id/join", cfg.Workspaces.JoinWorkspace)
	workspaces.Post("/:id/reset-invite-code", cfg.Workspaces.ResetInviteCode)
	workspaces.Get("/:id/members", cfg.Workspaces.ListMembers)

	departments := app.Group("/departments", cfg.AuthMiddleware.Handle)
	departments.Post("/", cfg.Departments.CreateDepartment)
	departments.Get("/", cfg.Departments.ListDepartments)
	departments.Get("/:id", cfg.Departments.GetDepartment)
	departments.Patch("/:id", cfg.Departments.UpdateDepartment)
	departments.Delete("/:id", cfg.Departments.DeleteDepartment)
	departments.Get("/:id/analytics", cfg.Departments.GetAnalytics)

	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle)
	tasks.Post("/", cfg.Tasks.CreateTask)
	tasks.Get("/", cfg.Tasks.ListTasks)
	// bulk-update must register before the :id routes so fiber does not
	// match it as a task id.
	tasks.Post("/bulk-update", cfg.Tasks.BulkUpdate)
	tasks.Get("/:id", cfg.Tasks.GetTask)
	tasks.Patch("/:id", cfg.Tasks.UpdateTask)
	tasks.Delete("/:id", cfg.Tasks.DeleteTask)
}
