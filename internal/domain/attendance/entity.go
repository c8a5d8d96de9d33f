package attendance

import (
	"time"
)

// Session is one entry/exit pair within a calendar day. ExitTime is nil
// while the holder is still inside ("open" session). AutoExitSet is a
// legacy marker kept on the wire for old readers; none of the current
// write paths set it, since the cleanup sweep discards open sessions
// instead of auto-closing them.
type Session struct {
	EntryTime   time.Time  `json:"entryTime"`
	ExitTime    *time.Time `json:"exitTime"`
	AutoExitSet bool       `json:"autoExitSet"`
}

// IsOpen reports whether the session has no exit time yet.
func (s Session) IsOpen() bool {
	return s.ExitTime == nil
}

// Duration returns the closed session length, or zero for an open one.
func (s Session) Duration() time.Duration {
	if s.ExitTime == nil {
		return 0
	}
	return s.ExitTime.Sub(s.EntryTime)
}

// DayRecord aggregates all attendance sessions for one user on one
// calendar date. Sessions is the single source of truth; the legacy
// entry/exit/timestamp mirror fields are derived from it on demand and
// recomputed on every save.
type DayRecord struct {
	ID     string
	UserID string
	// Date is the calendar date (midnight, site-local zone) derived from
	// the first session's entry time. Grouping key together with UserID.
	Date     time.Time
	Sessions []Session
	// Version guards the read-modify-write cycle on a record. Updates
	// carry the version they read; the store rejects stale writes.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly strips the time-of-day from t in the given zone.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// OpenSession returns the record's open session, or nil. Only the last
// session can be open on the automatic scan path; manual edits keep that
// shape because entries are appended and exits always close the tail.
func (r *DayRecord) OpenSession() *Session {
	if len(r.Sessions) == 0 {
		return nil
	}
	last := &r.Sessions[len(r.Sessions)-1]
	if last.IsOpen() {
		return last
	}
	return nil
}

// Completed reports whether the day holds at least one session and the
// latest one is closed.
func (r *DayRecord) Completed() bool {
	return len(r.Sessions) > 0 && !r.Sessions[len(r.Sessions)-1].IsOpen()
}

// Hours sums the closed sessions' durations in hours. Open sessions
// contribute nothing until an exit is recorded.
func (r *DayRecord) Hours() float64 {
	var total time.Duration
	for _, s := range r.Sessions {
		total += s.Duration()
	}
	return total.Hours()
}

// LegacyFields is the backward-compatible top-level view of a record:
// first entry, last exit and the old single-scan timestamp.
type LegacyFields struct {
	EntryTime *time.Time `json:"entryTime"`
	ExitTime  *time.Time `json:"exitTime"`
	Timestamp *time.Time `json:"timestamp"`
}

// LegacyView derives the mirror fields from Sessions. Old API consumers
// still read these; they are never written independently.
func (r *DayRecord) LegacyView() LegacyFields {
	if len(r.Sessions) == 0 {
		return LegacyFields{}
	}
	first := r.Sessions[0].EntryTime
	return LegacyFields{
		EntryTime: &first,
		ExitTime:  r.Sessions[len(r.Sessions)-1].ExitTime,
		Timestamp: &first,
	}
}

// Partition splits the record's sessions into closed and open ones,
// preserving order. The cleanup sweep discards the open partition.
func (r *DayRecord) Partition() (closed, open []Session) {
	for _, s := range r.Sessions {
		if s.IsOpen() {
			open = append(open, s)
		} else {
			closed = append(closed, s)
		}
	}
	return closed, open
}
