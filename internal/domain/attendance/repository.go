package attendance

import (
	"context"
	"time"
)

// DayRecordRepository defines data access for per-user-per-day attendance
// records. There is at most one record per (user, date); racing creations
// surface as ErrDuplicateRecord and stale updates as ErrConcurrentUpdate.
type DayRecordRepository interface {
	// Create inserts a new day record. The unique (user, date) constraint
	// turns a racing double-create into ErrDuplicateRecord.
	Create(ctx context.Context, record DayRecord) (DayRecord, error)

	// GetByID retrieves a record by its identifier.
	GetByID(ctx context.Context, id string) (DayRecord, error)

	// GetByUserAndDate retrieves the record for a user on a calendar date.
	// Returns nil when none exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*DayRecord, error)

	// Update persists the record's sessions and recomputed legacy columns.
	// The update is conditional on record.Version; a mismatch returns
	// ErrConcurrentUpdate and writes nothing.
	Update(ctx context.Context, record DayRecord) error

	// Delete removes a record entirely. The cleanup sweep uses this when
	// a record loses its last session.
	Delete(ctx context.Context, id string) error

	// ListByDate returns all records for one calendar date.
	ListByDate(ctx context.Context, date time.Time) ([]DayRecord, error)

	// ListOpenByDate returns the records for a date that still hold an
	// open session. Input to the cleanup sweep.
	ListOpenByDate(ctx context.Context, date time.Time) ([]DayRecord, error)

	// ListByUser returns a user's records within an optional date range,
	// newest first, with pagination.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]DayRecord, int64, error)

	// List returns records across users for the history view.
	List(ctx context.Context, filter HistoryFilter) ([]DayRecord, int64, error)

	// CountByDay aggregates record and distinct-user counts per day over
	// the given range, newest day first.
	CountByDay(ctx context.Context, start, end time.Time, limit int) ([]DayCount, error)

	// CountDistinctUsers counts distinct users with at least one record in
	// the date range.
	CountDistinctUsers(ctx context.Context, start, end time.Time) (int64, error)
}

type HistoryFilter struct {
	UserID    *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

type DayCount struct {
	Date            time.Time `json:"date"`
	AttendanceCount int64     `json:"attendanceCount"`
	UniqueUsers     int64     `json:"uniqueUsersCount"`
}
