package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/directive-service/internal/api/http"
	"github.com/spec-kit/directive-service/internal/api/http/handlers"
	"github.com/spec-kit/directive-service/internal/auth"
	"github.com/spec-kit/directive-service/internal/config"
	"github.com/spec-kit/directive-service/internal/events"
	"github.com/spec-kit/directive-service/internal/observability"
	"github.com/spec-kit/directive-service/internal/persistence"
	"github.com/spec-kit/directive-service/internal/repository"
	"github.com/spec-kit/directive-service/internal/service"
	"github.com/spec-kit/directive-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	workspaceRepo := repository.NewWorkspaceRepository(pool)
	memberRepo := repository.NewMemberRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
	})
	workspaceService := service.NewWorkspaceService(service.WorkspaceDependencies{
		WorkspaceRepo: workspaceRepo,
		MemberRepo:    memberRepo,
		Dispatcher:    dispatcher,
	})
	departmentService := service.NewDepartmentService(service.DepartmentDependencies{
		DepartmentRepo: departmentRepo,
		MemberRepo:     memberRepo,
		Dispatcher:     dispatcher,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:       taskRepo,
		DepartmentRepo: departmentRepo,
		MemberRepo:     memberRepo,
		Dispatcher:     dispatcher,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		TaskRepo:       taskRepo,
		DepartmentRepo: departmentRepo,
		MemberRepo:     memberRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Workspaces:     handlers.NewWorkspacesHandler(workspaceService),
		Departments:    handlers.NewDepartmentsHandler(departmentService, analyticsService),
		Tasks:          handlers.NewTasksHandler(taskService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
