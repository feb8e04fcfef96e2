package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/directive-service/internal/observability"
	apperrors "github.com/spec-kit/directive-service/pkg/util"
)

func newTestApp(metrics *observability.Metrics) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second)
	return app
}

func decodeErrorBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload
}

func TestErrorMiddlewareRendersDomainError(t *testing.T) {
	app := newTestApp(observability.NewMetrics())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewUnauthorized("not a workspace member")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	payload := decodeErrorBody(t, resp.Body)
	if payload["error"] != "not a workspace member" {
		t.Fatalf("expected error message string, got %v", payload["error"])
	}
}

func TestErrorMiddlewareRendersValidationError(t *testing.T) {
	app := newTestApp(observability.NewMetrics())
	app.Post("/tasks", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("workspaceId required")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/tasks", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	payload := decodeErrorBody(t, resp.Body)
	if payload["error"] != "workspaceId required" {
		t.Fatalf("expected error message string, got %v", payload["error"])
	}
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app := newTestApp(observability.NewMetrics())
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	payload := decodeErrorBody(t, resp.Body)
	if payload["error"] != "internal server error" {
		t.Fatalf("expected generic message, got %v", payload["error"])
	}
}

func TestRequestLoggerRecordsMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	app := newTestApp(metrics)
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := metrics.RequestCount("/ok", "GET", 200); got != 1 {
		t.Fatalf("expected 1 recorded request, got %d", got)
	}
}
