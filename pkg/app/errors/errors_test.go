package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestBadRequestError(t *testing.T) {
	err := BadRequestError(nil, "days must be a non-negative integer")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected a *ServiceError, got %T", err)
	}
	if svcErr.Category != CategoryDataError {
		t.Fatalf("expected CategoryDataError, got %s", svcErr.Category)
	}
	if svcErr.StatusCode() != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", svcErr.StatusCode())
	}
	if svcErr.Message != "days must be a non-negative integer" {
		t.Fatalf("unexpected client message: %q", svcErr.Message)
	}
}

func TestGeneralError_MasksClientMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := GeneralError(cause)

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected a *ServiceError, got %T", err)
	}
	if svcErr.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", svcErr.StatusCode())
	}
	// The client sees a generic message, the cause stays wrapped for logging.
	if svcErr.Message != "Internal Server Error" {
		t.Fatalf("internal details must not reach the client, got %q", svcErr.Message)
	}
	if !errors.Is(err, cause) {
		t.Fatal("the wrapped cause must remain reachable via errors.Is")
	}
}
