package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/employee"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/metrics"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Store reads that aborted an aggregation
	var fetchErr *metrics.DataFetchError
	if errors.As(err, &fetchErr) {
		slog.Error("Metrics aggregation aborted", "store", fetchErr.Store, "error", fetchErr.Err)
		ServiceUnavailable(w, fetchErr.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrWrongTokenType):
		Unauthorized(w, "Access token required")
	case errors.Is(err, user.ErrPrincipalMissing):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrInvalidRole):
		Forbidden(w, "Unknown role")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Metrics domain errors
	case errors.Is(err, metrics.ErrGroupRequired):
		BadRequest(w, "Group parameter is required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmptyBulkUpsert):
		BadRequest(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
