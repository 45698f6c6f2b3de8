package apperrors

type Type string

const (
	TypeValidation   Type = "validation"
	TypeUnauthorized Type = "unauthorized"
	TypeNotFound     Type = "not_found"
	TypeConflict     Type = "conflict"
	TypeUnavailable  Type = "unavailable"
	TypeInternal     Type = "internal"
)

type AppError struct {
	Type    Type           `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func newAppError(errType Type, code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NewInternal(code, message string, details map[string]any) *AppError {
	return newAppError(TypeInternal, code, message, details)
}

func NewValidation(code, message string, details map[string]any) *AppError {
	return newAppError(TypeValidation, code, message, details)
}

func NewUnauthorized(code, message string, details map[string]any) *AppError {
	return newAppError(TypeUnauthorized, code, message, details)
}

func NewNotFound(code, message string, details map[string]any) *AppError {
	return newAppError(TypeNotFound, code, message, details)
}

func NewConflict(code, message string, details map[string]any) *AppError {
	return newAppError(TypeConflict, code, message, details)
}

// NewUnavailable marks failures of an upstream collaborator (chain API, signer relay).
func NewUnavailable(code, message string, details map[string]any) *AppError {
	return newAppError(TypeUnavailable, code, message, details)
}
