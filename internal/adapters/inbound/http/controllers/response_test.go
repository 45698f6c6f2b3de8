//go:build !integration

package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "blaze/internal/shared_kernel/errors"
)

func TestStatusForAppError(t *testing.T) {
	testCases := []struct {
		name   string
		appErr *apperrors.AppError
		status int
	}{
		{name: "validation", appErr: apperrors.NewValidation("x", "x", nil), status: http.StatusBadRequest},
		{name: "unauthorized", appErr: apperrors.NewUnauthorized("x", "x", nil), status: http.StatusUnauthorized},
		{name: "not found", appErr: apperrors.NewNotFound("x", "x", nil), status: http.StatusNotFound},
		{name: "conflict", appErr: apperrors.NewConflict("x", "x", nil), status: http.StatusConflict},
		{name: "unavailable", appErr: apperrors.NewUnavailable("x", "x", nil), status: http.StatusBadGateway},
		{name: "internal", appErr: apperrors.NewInternal("x", "x", nil), status: http.StatusInternalServerError},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			if got := statusForAppError(testCase.appErr); got != testCase.status {
				t.Fatalf("expected %d, got %d", testCase.status, got)
			}
		})
	}
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Address string `json:"address"`
	}

	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"address":"SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7"}`},
		{name: "unknown field", body: `{"address":"a","extra":1}`, wantErr: "request body must be valid JSON"},
		{name: "trailing object", body: `{"address":"a"}{}`, wantErr: "request body must contain a single JSON object"},
		{name: "oversized", body: `{"address":"` + strings.Repeat("a", maxRequestBodyBytes) + `"}`, wantErr: "request body is too large"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(testCase.body))
			rec := httptest.NewRecorder()

			target := payload{}
			appErr := decodeJSONBody(rec, req, &target)
			if testCase.wantErr == "" {
				if appErr != nil {
					t.Fatalf("expected no error, got %+v", appErr)
				}
				return
			}
			if appErr == nil {
				t.Fatalf("expected error %q", testCase.wantErr)
			}
			if appErr.Message != testCase.wantErr {
				t.Fatalf("expected %q, got %q", testCase.wantErr, appErr.Message)
			}
		})
	}
}
