package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/email"
)

// CleanupIncompleteSessions implements attendance.Sweeper. Open sessions
// past the cutoff are discarded, not closed: an entry without an exit is
// void and contributes no worked hours. Records left without sessions are
// deleted. The sweep is idempotent; a second run finds nothing open.
func (s *AttendanceServiceImpl) CleanupIncompleteSessions(ctx context.Context, now time.Time) (attendance.CleanupSummary, error) {
	local := now.In(s.loc)
	if local.Hour() < s.cleanupHour {
		return attendance.CleanupSummary{
			Skipped: true,
			Message: fmt.Sprintf("Cleanup only runs after %02d:00 local time", s.cleanupHour),
		}, nil
	}

	day := attendance.DateOnly(local, s.loc)
	records, err := s.DayRecordRepository.ListOpenByDate(ctx, day)
	if err != nil {
		return attendance.CleanupSummary{}, fmt.Errorf("list open records: %w", err)
	}

	summary := attendance.CleanupSummary{}
	for _, record := range records {
		closed, open := record.Partition()
		if len(open) == 0 {
			continue
		}

		if len(closed) == 0 {
			if err := s.DayRecordRepository.Delete(ctx, record.ID); err != nil {
				slog.Error("Cleanup: failed to delete empty record",
					"record_id", record.ID, "user_id", record.UserID, "error", err)
				continue
			}
			summary.RecordsDeleted++
		} else {
			record.Sessions = closed
			if err := s.DayRecordRepository.Update(ctx, record); err != nil {
				slog.Error("Cleanup: failed to update record",
					"record_id", record.ID, "user_id", record.UserID, "error", err)
				continue
			}
			summary.RecordsUpdated++
		}
		summary.SessionsDiscarded += len(open)

		// Notification is fire-and-forget; a failed send never rolls back
		// the cleanup.
		if s.notifyIncompleteSession(ctx, record.UserID, open, day) {
			summary.UsersNotified++
		}
	}

	summary.Message = fmt.Sprintf("Cleanup complete: %d session(s) discarded across %d record(s)",
		summary.SessionsDiscarded, summary.RecordsUpdated+summary.RecordsDeleted)
	return summary, nil
}

func (s *AttendanceServiceImpl) notifyIncompleteSession(ctx context.Context, userID string, discarded []attendance.Session, day time.Time) bool {
	if s.emailService == nil {
		return false
	}

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if err != user.ErrUserNotFound {
			slog.Error("Cleanup: failed to load user for notification", "user_id", userID, "error", err)
		}
		return false
	}
	if u.Email == "" {
		return false
	}

	removed := make([]email.RemovedSession, 0, len(discarded))
	for _, sess := range discarded {
		removed = append(removed, email.RemovedSession{EntryTime: sess.EntryTime.In(s.loc)})
	}

	if err := s.emailService.SendIncompleteSessionNotification(u.Email, u.Name, removed, day); err != nil {
		slog.Error("Cleanup: failed to send incomplete session notification",
			"user_id", userID, "email", u.Email, "error", err)
		return false
	}
	return true
}
