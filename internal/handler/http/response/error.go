package response

import (
	"errors"
	"net/http"

	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/domain/auth"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/validator"
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
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is inactive")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrRFIDTagExists):
		Conflict(w, "RFID tag already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrElevatedRoleRequired):
		Forbidden(w, "Admin or mentor role required")
	case errors.Is(err, user.ErrSelfAccessOnly):
		Forbidden(w, "You can only view your own records")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrUnknownTag):
		NotFound(w, "No user registered for this RFID tag")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUserInactive):
		Forbidden(w, "User account is inactive, attendance not recorded")
	case errors.Is(err, attendance.ErrDayCompleted):
		BadRequest(w, "Already completed entry and exit for today", nil)
	case errors.Is(err, attendance.ErrExitWithoutEntry):
		BadRequest(w, "Cannot record exit time without entry time", nil)
	case errors.Is(err, attendance.ErrInvalidTimestamp):
		BadRequest(w, "Invalid timestamp format, expected YYYY-MM-DDTHH:MM:SS", nil)
	case errors.Is(err, attendance.ErrInvalidActionKind):
		BadRequest(w, "Type must be either entry or exit", nil)
	case errors.Is(err, attendance.ErrActiveSessionExists):
		Conflict(w, "Previous session is still active, record an exit first")
	case errors.Is(err, attendance.ErrNoActiveSession):
		Conflict(w, "Exit already recorded for the current session")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this day")
	case errors.Is(err, attendance.ErrConcurrentUpdate):
		Conflict(w, "Attendance record was modified concurrently, retry the scan")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
