package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	apperrors "blaze/internal/shared_kernel/errors"
)

const maxRequestBodyBytes = 64 * 1024

type errorResponse struct {
	Error errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func statusForAppError(appErr *apperrors.AppError) int {
	switch appErr.Type {
	case apperrors.TypeValidation:
		return http.StatusBadRequest
	case apperrors.TypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.TypeNotFound:
		return http.StatusNotFound
	case apperrors.TypeConflict:
		return http.StatusConflict
	case apperrors.TypeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	writeJSON(w, statusForAppError(appErr), errorResponse{
		Error: errorEnvelope{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

func logRequestError(logger *log.Logger, path string, r *http.Request, appErr *apperrors.AppError) {
	if logger == nil {
		return
	}
	logger.Printf("request error path=%s method=%s code=%s message=%s", path, r.Method, appErr.Code, appErr.Message)
}

// decodeJSONBody reads exactly one JSON object with no unknown fields.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) *apperrors.AppError {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	decoder.UseNumber()

	if err := decoder.Decode(target); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apperrors.NewValidation(
				"invalid_request",
				"request body is too large",
				map[string]any{"limit_bytes": maxBytesErr.Limit},
			)
		}
		return apperrors.NewValidation(
			"invalid_request",
			"request body must be valid JSON",
			map[string]any{"error": err.Error()},
		)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return apperrors.NewValidation(
			"invalid_request",
			"request body must contain a single JSON object",
			nil,
		)
	}

	return nil
}
