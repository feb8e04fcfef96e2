package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewValidationError("bad input")
	mapped := ToDomainError(original)
	if mapped.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", mapped.HTTPStatus)
	}
	if mapped.Message != "bad input" {
		t.Fatalf("expected message preserved, got %q", mapped.Message)
	}
}

func TestToDomainErrorMapsNoRowsToNotFound(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", mapped.HTTPStatus)
	}
	if mapped.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %s", mapped.Code)
	}
}

func TestToDomainErrorMapsWrappedNoRows(t *testing.T) {
	wrapped := fmt.Errorf("fetch task: %w", pgx.ErrNoRows)
	if mapped := ToDomainError(wrapped); mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", mapped.HTTPStatus)
	}
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	mapped := ToDomainError(errors.New("connection refused"))
	if mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", mapped.HTTPStatus)
	}
	if !errors.Is(mapped, mapped.Err) {
		t.Fatal("expected original error preserved via Unwrap")
	}
}

func TestUnauthorizedStatus(t *testing.T) {
	mapped := ToDomainError(NewUnauthorized("not a workspace member"))
	if mapped.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", mapped.HTTPStatus)
	}
}
