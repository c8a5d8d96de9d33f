package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/email"
)

// CheckLowAttendance implements attendance.Sweeper. Every non-admin
// user is considered, inactive ones included; a user with no record at
// all counts as zero hours. Reads only, never mutates records.
func (s *AttendanceServiceImpl) CheckLowAttendance(ctx context.Context, date *time.Time) (attendance.AuditSummary, error) {
	day := attendance.DateOnly(s.now(), s.loc)
	if date != nil {
		day = attendance.DateOnly(*date, s.loc)
	}

	users, err := s.UserRepository.ListNonAdmin(ctx)
	if err != nil {
		return attendance.AuditSummary{}, fmt.Errorf("list users: %w", err)
	}

	records, err := s.DayRecordRepository.ListByDate(ctx, day)
	if err != nil {
		return attendance.AuditSummary{}, fmt.Errorf("list records: %w", err)
	}
	hoursByUser := make(map[string]float64, len(records))
	for _, record := range records {
		hoursByUser[record.UserID] = record.Hours()
	}

	summary := attendance.AuditSummary{
		Date:            day,
		UsersConsidered: len(users),
	}
	var flagged []email.LowAttendanceEntry
	for _, u := range users {
		hours := hoursByUser[u.ID]
		if hours >= s.minDailyHours {
			continue
		}
		summary.Flagged++
		flagged = append(flagged, email.LowAttendanceEntry{
			Name:        u.Name,
			Email:       u.Email,
			HoursWorked: hours,
			Deficit:     s.minDailyHours - hours,
		})

		if s.emailService == nil || u.Email == "" {
			continue
		}
		if err := s.emailService.SendLowAttendanceNotification(u.Email, u.Name, hours, s.minDailyHours, day); err != nil {
			slog.Error("Audit: failed to send low attendance notification",
				"user_id", u.ID, "email", u.Email, "error", err)
			continue
		}
		summary.Notified++
	}

	// The admin report goes out every day, all-clear days included.
	if s.emailService != nil {
		if err := s.emailService.SendAdminLowAttendanceReport(s.adminEmails, flagged, s.minDailyHours, day); err != nil {
			slog.Error("Audit: failed to send admin report", "error", err)
		}
	}

	summary.Message = fmt.Sprintf("%d of %d user(s) below %.2f hours on %s",
		summary.Flagged, summary.UsersConsidered, s.minDailyHours, day.Format("2006-01-02"))
	return summary, nil
}
