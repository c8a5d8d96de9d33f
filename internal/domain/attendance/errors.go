package attendance

import "errors"

// Attendance domain errors
var (
	// Scan path errors
	ErrDayCompleted = errors.New("already completed entry and exit for today")
	ErrUserInactive = errors.New("user account is inactive, attendance not recorded")
	ErrUnknownTag   = errors.New("no user registered for this rfid tag")

	// Manual path errors
	ErrActiveSessionExists = errors.New("previous session is still active, no exit time recorded")
	ErrNoActiveSession     = errors.New("no active entry session found")
	ErrExitWithoutEntry    = errors.New("cannot record exit time without entry time")

	// General errors
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrDuplicateRecord   = errors.New("attendance record already exists for this day")
	ErrConcurrentUpdate  = errors.New("attendance record was modified concurrently")
	ErrInvalidTimestamp  = errors.New("invalid timestamp format")
	ErrInvalidActionKind = errors.New("type must be either entry or exit")
)
