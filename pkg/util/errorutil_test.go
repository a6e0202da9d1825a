package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewConflict("double booking", map[string]any{"client_id": 5})
	mapped := ToDomainError(fmt.Errorf("service: %w", original))

	if mapped.Code != "CONFLICT" || mapped.HTTPStatus != http.StatusConflict {
		t.Fatalf("wrapped DomainError lost: %+v", mapped)
	}
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	if mapped.Code != "NOT_FOUND" || mapped.HTTPStatus != http.StatusNotFound {
		t.Fatalf("expected NOT_FOUND, got %+v", mapped)
	}
}

func TestToDomainErrorUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("boom"))
	if mapped.Code != "INTERNAL_ERROR" || mapped.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected INTERNAL_ERROR, got %+v", mapped)
	}
}

func TestUpstreamFailureUnwraps(t *testing.T) {
	cause := errors.New("provider 401")
	err := NewUpstreamFailure("whatsapp send failed", cause)

	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError")
	}
	if domainErr.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", domainErr.HTTPStatus)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not preserved")
	}
}
