package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Leave domain errors
	case errors.Is(err, leave.ErrUnknownLeaveType):
		NotFound(w, leave.ErrUnknownLeaveType.Error())
	case errors.Is(err, leave.ErrNoMarkingAtDate):
		NotFound(w, leave.ErrNoMarkingAtDate.Error())
	case errors.Is(err, leave.ErrNoDateSelected):
		BadRequest(w, leave.ErrNoDateSelected.Error(), map[string]string{"date": "date is required"})
	case errors.Is(err, leave.ErrIncompleteRequest):
		BadRequest(w, leave.ErrIncompleteRequest.Error(), nil)
	case errors.Is(err, leave.ErrInvalidDate):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		UnprocessableEntity(w, "INVALID_DATE_RANGE", leave.ErrInvalidDateRange.Error())
	case errors.Is(err, leave.ErrRangeTooLong):
		UnprocessableEntity(w, "RANGE_TOO_LONG", leave.ErrRangeTooLong.Error())
	case errors.Is(err, leave.ErrInsufficientBalance):
		Conflict(w, leave.ErrInsufficientBalance.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrUnknownPeriod):
		BadRequest(w, "Unknown period", nil)
	case errors.Is(err, attendance.ErrLogNotLoaded):
		ServiceUnavailable(w, "Attendance log is not available")
	case errors.Is(err, attendance.ErrInvalidClockTime), errors.Is(err, attendance.ErrInvalidEntryDate):
		slog.Error("Attendance log contains invalid entry", "error", err)
		InternalServerError(w, "Attendance log contains an invalid entry")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
