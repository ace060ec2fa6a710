package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/store"
	"github.com/diagnosis/clinicdesk/pkg/auth"
	"github.com/diagnosis/clinicdesk/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeNotFound        = "NOT_FOUND"
	CodeEmailExists     = "EMAIL_EXISTS"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeRateLimit       = "RATE_LIMIT_EXCEEDED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// UnauthorizedMessage is the single body every 401 carries, whatever the cause.
const UnauthorizedMessage = "unauthorized"

// WriteJSON writes data as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message string, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

// Unauthorized never varies its body, so callers cannot tell a missing token
// from an expired one or a wrong secret from an unknown email.
func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, UnauthorizedMessage, CodeUnauthorized)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message, CodeNotFound)
}

func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message, CodeInternalError)
}

func PayloadTooLarge(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusRequestEntityTooLarge, message, CodePayloadTooLarge)
}

func RateLimit(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message, CodeRateLimit)
}

func Conflict(w http.ResponseWriter, message, code string) {
	WriteError(w, http.StatusConflict, message, code)
}

// FromError maps a service error onto its HTTP status and body.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   verr.Error(),
			Code:    CodeInvalidInput,
			Details: verr.Fields,
		})
	case errors.Is(err, domain.ErrValidation):
		BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		Conflict(w, "email already registered", CodeEmailExists)
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		Unauthorized(w)
	case errors.Is(err, domain.ErrNotFound):
		NotFound(w, "record not found")
	case errors.Is(err, store.ErrCorrupt):
		logger.ErrorContext(r.Context(), "Stored collection is unreadable", "error", err)
		InternalError(w, "internal error")
	default:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		InternalError(w, "internal error")
	}
}
