package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
)

// AttendanceJobs owns the nightly attendance maintenance jobs: the
// incomplete-session cleanup and the low-attendance audit.
type AttendanceJobs struct {
	sweeper     attendance.Sweeper
	loc         *time.Location
	cleanupHour int
	auditHour   int
}

func NewAttendanceJobs(sweeper attendance.Sweeper, loc *time.Location, cleanupHour, auditHour int) *AttendanceJobs {
	return &AttendanceJobs{
		sweeper:     sweeper,
		loc:         loc,
		cleanupHour: cleanupHour,
		auditHour:   auditHour,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddDailyJob("cleanup_incomplete_sessions", j.cleanupHour, j.loc, j.CleanupIncompleteSessions)
	scheduler.AddDailyJob("check_low_attendance", j.auditHour, j.loc, j.CheckLowAttendance)
}

func (j *AttendanceJobs) CleanupIncompleteSessions(ctx context.Context, now time.Time) error {
	slog.Info("Cron: Starting incomplete session cleanup job")

	summary, err := j.sweeper.CleanupIncompleteSessions(ctx, now)
	if err != nil {
		return err
	}

	slog.Info("Cron: Incomplete session cleanup finished",
		"records_updated", summary.RecordsUpdated,
		"records_deleted", summary.RecordsDeleted,
		"sessions_discarded", summary.SessionsDiscarded,
		"users_notified", summary.UsersNotified,
	)
	return nil
}

func (j *AttendanceJobs) CheckLowAttendance(ctx context.Context, now time.Time) error {
	slog.Info("Cron: Starting low attendance check job")

	summary, err := j.sweeper.CheckLowAttendance(ctx, &now)
	if err != nil {
		return err
	}

	slog.Info("Cron: Low attendance check finished",
		"date", summary.Date,
		"users_considered", summary.UsersConsidered,
		"flagged", summary.Flagged,
		"notified", summary.Notified,
	)
	return nil
}
