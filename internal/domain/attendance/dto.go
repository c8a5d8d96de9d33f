package attendance

import (
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/pkg/validator"
)

// ScanRequest is the payload the RFID firmware posts on every tap.
// Timestamp is optional and zone-less ("2006-01-02T15:04:05"); it is
// interpreted in the site-local zone, current time when absent.
type ScanRequest struct {
	RFIDTag   string `json:"rfidTag"`
	Timestamp string `json:"timestamp,omitempty"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RFIDTag) {
		errs = append(errs, validator.ValidationError{
			Field:   "rfidTag",
			Message: "rfidTag is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ActionKind distinguishes manual entry from manual exit.
type ActionKind string

const (
	ActionEntry ActionKind = "entry"
	ActionExit  ActionKind = "exit"
)

// ManualRequest is an admin/mentor-recorded entry or exit on behalf of a
// user, e.g. when a tag was forgotten or a reader was down.
type ManualRequest struct {
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
}

func (r *ManualRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "userId",
			Message: "userId is required",
		})
	}
	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	}
	if kind := ActionKind(r.Type); kind != ActionEntry && kind != ActionExit {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be either \"entry\" or \"exit\"",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RecordResponse is the wire shape of a day record: the authoritative
// sessions array plus the mirrored legacy fields for older readers.
type RecordResponse struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	UserName     string     `json:"userName,omitempty"`
	UserRole     string     `json:"userRole,omitempty"`
	Date         time.Time  `json:"date"`
	Sessions     []Session  `json:"sessions"`
	SessionCount int        `json:"sessionCount"`
	// Legacy mirror fields, recomputed from Sessions on every save.
	EntryTime *time.Time `json:"entryTime"`
	ExitTime  *time.Time `json:"exitTime"`
	Timestamp *time.Time `json:"timestamp"`
}

// ScanResult classifies what a scan or manual action did.
type ScanResult string

const (
	ResultEntry ScanResult = "entry"
	ResultExit  ScanResult = "exit"
	// ResultComplete marks the rejection of a third scan on a day whose
	// single automatic session is already closed.
	ResultComplete ScanResult = "complete"
)

// ScanResponse is returned by the scan and manual endpoints.
type ScanResponse struct {
	Message        string         `json:"message"`
	Type           ScanResult     `json:"type"`
	SessionNumber  int            `json:"sessionNumber,omitempty"`
	Attendance     RecordResponse `json:"attendance"`
	CurrentSession *Session       `json:"currentSession,omitempty"`
}

// TodayEntry is one row of the live "who is inside" view.
type TodayEntry struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	RFIDTag           string     `json:"rfidTag"`
	Role              string     `json:"role"`
	Status            string     `json:"status"`
	Sessions          []Session  `json:"sessions"`
	SessionCount      int        `json:"sessionCount"`
	EntryTime         *time.Time `json:"entryTime"`
	ExitTime          *time.Time `json:"exitTime"`
	Timestamp         *time.Time `json:"timestamp"`
	IsCurrentlyInside bool       `json:"isCurrentlyInside"`
}

// HistoryResponse pages through day records.
type HistoryResponse struct {
	Attendance []RecordResponse `json:"attendance"`
	Pagination Pagination       `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	Limit        int   `json:"limit"`
}

// StatsResponse summarises attendance over a date range.
type StatsResponse struct {
	TotalAttendance      int64      `json:"totalAttendance"`
	UniqueAttendeesCount int64      `json:"uniqueAttendeesCount"`
	AttendanceByDay      []DayCount `json:"attendanceByDay"`
}

// CleanupSummary reports what the daily sweep did. Running the sweep a
// second time on an already-clean day yields an all-zero summary.
type CleanupSummary struct {
	Skipped           bool   `json:"skipped"`
	Message           string `json:"message"`
	RecordsUpdated    int    `json:"recordsUpdated"`
	RecordsDeleted    int    `json:"recordsDeleted"`
	SessionsDiscarded int    `json:"sessionsDiscarded"`
	UsersNotified     int    `json:"usersNotified"`
}

// AuditSummary reports the low-attendance check outcome.
type AuditSummary struct {
	Date            time.Time `json:"date"`
	UsersConsidered int       `json:"usersConsidered"`
	Flagged         int       `json:"flagged"`
	Notified        int       `json:"notified"`
	Message         string    `json:"message"`
}
