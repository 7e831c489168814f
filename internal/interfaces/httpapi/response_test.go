package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

func TestMapError_Statuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{"invalid input", usecase.ErrInvalidInput, http.StatusBadRequest, "invalidInput"},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"not found", usecase.ErrNotFound, http.StatusNotFound, "notFound"},
		{"duplicate submission", usecase.ErrDuplicateSubmission, http.StatusConflict, "duplicateSubmission"},
		{"already settled", usecase.ErrAlreadySettled, http.StatusConflict, "alreadySettled"},
		{"week locked", usecase.ErrWeekLocked, http.StatusUnprocessableEntity, "weekStateConflict"},
		{"week settled", usecase.ErrWeekSettled, http.StatusUnprocessableEntity, "weekStateConflict"},
		{"matches incomplete", usecase.ErrMatchesIncomplete, http.StatusUnprocessableEntity, "weekStateConflict"},
		{"dependency unavailable", usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := mapError(tc.err)
			if mapped.HTTPStatus != tc.wantStatus {
				t.Fatalf("status: got %d, want %d", mapped.HTTPStatus, tc.wantStatus)
			}
			if mapped.Reason != tc.wantReason {
				t.Fatalf("reason: got %q, want %q", mapped.Reason, tc.wantReason)
			}
		})
	}
}

func TestMapError_WrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("create submission: %w", usecase.ErrWeekLocked)

	mapped := mapError(wrapped)
	if mapped.HTTPStatus != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, want %d", mapped.HTTPStatus, http.StatusUnprocessableEntity)
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeError(context.Background(), rec, fmt.Errorf("week 2026-W36 not found: %w", usecase.ErrNotFound))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected apiVersion: %q", envelope.APIVersion)
	}
	if envelope.Error == nil {
		t.Fatal("expected error body")
	}
	if envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error status: %q", envelope.Error.Status)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("unexpected error items: %+v", envelope.Error.Errors)
	}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()

	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"hello": "mundo"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var envelope struct {
		APIVersion string            `json:"apiVersion"`
		Data       map[string]string `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data["hello"] != "mundo" {
		t.Fatalf("unexpected data: %+v", envelope.Data)
	}
}
