package attendance

import (
	"context"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
)

// Recorder translates identification events into session mutations.
type Recorder interface {
	// RecordScan resolves an RFID tap to a user and opens or closes the
	// day's session. First tap of a day opens a session, second closes
	// it, a third is rejected with ErrDayCompleted.
	RecordScan(ctx context.Context, req ScanRequest) (ScanResponse, error)

	// RecordManual records an entry or exit on behalf of a user. Entry
	// appends a new session when the previous one is closed; exit closes
	// the open one. Requires an admin or mentor actor.
	RecordManual(ctx context.Context, req ManualRequest, actorRole user.Role) (ScanResponse, error)
}

// Sweeper runs the scheduled end-of-day jobs.
type Sweeper interface {
	// CleanupIncompleteSessions discards open sessions for the current
	// day after the local cutoff, deleting records left empty, and
	// notifies the affected users. No-op before the cutoff.
	CleanupIncompleteSessions(ctx context.Context, now time.Time) (CleanupSummary, error)

	// CheckLowAttendance computes per-user worked hours for a date and
	// notifies those below the threshold plus the admin recipients.
	CheckLowAttendance(ctx context.Context, date *time.Time) (AuditSummary, error)
}

// Queries serves the read-only attendance views.
type Queries interface {
	Today(ctx context.Context, includeInactive bool) ([]TodayEntry, error)
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
	UserHistory(ctx context.Context, userID string, filter HistoryFilter) (HistoryResponse, error)
	Stats(ctx context.Context, start, end *time.Time) (StatsResponse, error)
	DeleteRecord(ctx context.Context, id string) error
}

// Service is the full attendance surface.
type Service interface {
	Recorder
	Sweeper
	Queries
}
