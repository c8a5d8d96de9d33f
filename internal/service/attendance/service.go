package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/email"
)

// firmwareTimeLayout is the zone-less format the RFID readers send.
const firmwareTimeLayout = "2006-01-02T15:04:05"

type AttendanceServiceImpl struct {
	attendance.DayRecordRepository
	user.UserRepository
	emailService email.Service

	loc           *time.Location
	cleanupHour   int
	minDailyHours float64
	adminEmails   []string

	now func() time.Time
}

func NewAttendanceService(
	recordRepo attendance.DayRecordRepository,
	userRepo user.UserRepository,
	emailService email.Service,
	loc *time.Location,
	cleanupHour int,
	minDailyHours float64,
	adminEmails []string,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		DayRecordRepository: recordRepo,
		UserRepository:      userRepo,
		emailService:        emailService,
		loc:                 loc,
		cleanupHour:         cleanupHour,
		minDailyHours:       minDailyHours,
		adminEmails:         adminEmails,
		now:                 time.Now,
	}
}

// parseTimestamp interprets a firmware timestamp in the site-local zone.
// An empty string means "now".
func (s *AttendanceServiceImpl) parseTimestamp(ts string) (time.Time, error) {
	if ts == "" {
		return s.now().In(s.loc), nil
	}
	parsed, err := time.ParseInLocation(firmwareTimeLayout, ts, s.loc)
	if err != nil {
		return time.Time{}, attendance.ErrInvalidTimestamp
	}
	return parsed, nil
}

// RecordScan implements attendance.Recorder. A third scan on a completed
// day returns ErrDayCompleted together with a populated response so the
// handler can render the day's current state.
func (s *AttendanceServiceImpl) RecordScan(ctx context.Context, req attendance.ScanRequest) (attendance.ScanResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ScanResponse{}, err
	}

	u, err := s.UserRepository.GetByRFIDTag(ctx, req.RFIDTag)
	if err != nil {
		if err == user.ErrUserNotFound {
			return attendance.ScanResponse{}, attendance.ErrUnknownTag
		}
		return attendance.ScanResponse{}, fmt.Errorf("resolve rfid tag: %w", err)
	}

	// Status gate comes before any record read or write.
	if !u.IsActive() {
		return attendance.ScanResponse{}, attendance.ErrUserInactive
	}

	t, err := s.parseTimestamp(req.Timestamp)
	if err != nil {
		return attendance.ScanResponse{}, err
	}
	day := attendance.DateOnly(t, s.loc)

	record, err := s.DayRecordRepository.GetByUserAndDate(ctx, u.ID, day)
	if err != nil {
		return attendance.ScanResponse{}, fmt.Errorf("load day record: %w", err)
	}

	if record == nil {
		created, err := s.DayRecordRepository.Create(ctx, attendance.DayRecord{
			UserID:   u.ID,
			Date:     day,
			Sessions: []attendance.Session{{EntryTime: t}},
		})
		if err != nil {
			return attendance.ScanResponse{}, err
		}
		return attendance.ScanResponse{
			Message:        "Entry recorded successfully",
			Type:           attendance.ResultEntry,
			SessionNumber:  1,
			Attendance:     toRecordResponse(created, &u),
			CurrentSession: &created.Sessions[0],
		}, nil
	}

	if open := record.OpenSession(); open != nil {
		open.ExitTime = &t
		if err := s.DayRecordRepository.Update(ctx, *record); err != nil {
			return attendance.ScanResponse{}, err
		}
		return attendance.ScanResponse{
			Message:       "Exit recorded successfully",
			Type:          attendance.ResultExit,
			SessionNumber: len(record.Sessions),
			Attendance:    toRecordResponse(*record, &u),
		}, nil
	}

	// Day already holds a closed session; the automatic path never opens
	// a second one.
	return attendance.ScanResponse{
		Message:    "You have already completed your entry and exit for today",
		Type:       attendance.ResultComplete,
		Attendance: toRecordResponse(*record, &u),
	}, attendance.ErrDayCompleted
}

// RecordManual implements attendance.Recorder. Unlike the scan path,
// manual entry may open a second session after a closed one.
func (s *AttendanceServiceImpl) RecordManual(ctx context.Context, req attendance.ManualRequest, actorRole user.Role) (attendance.ScanResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ScanResponse{}, err
	}
	if actorRole != user.RoleAdmin && actorRole != user.RoleMentor {
		return attendance.ScanResponse{}, user.ErrElevatedRoleRequired
	}

	u, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.ScanResponse{}, err
	}
	if !u.IsActive() {
		return attendance.ScanResponse{}, attendance.ErrUserInactive
	}

	t, err := s.parseTimestamp(req.Timestamp)
	if err != nil {
		return attendance.ScanResponse{}, err
	}
	day := attendance.DateOnly(t, s.loc)

	record, err := s.DayRecordRepository.GetByUserAndDate(ctx, u.ID, day)
	if err != nil {
		return attendance.ScanResponse{}, fmt.Errorf("load day record: %w", err)
	}

	switch attendance.ActionKind(req.Type) {
	case attendance.ActionEntry:
		if record == nil {
			created, err := s.DayRecordRepository.Create(ctx, attendance.DayRecord{
				UserID:   u.ID,
				Date:     day,
				Sessions: []attendance.Session{{EntryTime: t}},
			})
			if err != nil {
				return attendance.ScanResponse{}, err
			}
			return attendance.ScanResponse{
				Message:        "Manual entry recorded successfully",
				Type:           attendance.ResultEntry,
				SessionNumber:  1,
				Attendance:     toRecordResponse(created, &u),
				CurrentSession: &created.Sessions[0],
			}, nil
		}
		if record.OpenSession() != nil {
			return attendance.ScanResponse{}, attendance.ErrActiveSessionExists
		}
		record.Sessions = append(record.Sessions, attendance.Session{EntryTime: t})
		if err := s.DayRecordRepository.Update(ctx, *record); err != nil {
			return attendance.ScanResponse{}, err
		}
		return attendance.ScanResponse{
			Message:        "Manual entry recorded successfully",
			Type:           attendance.ResultEntry,
			SessionNumber:  len(record.Sessions),
			Attendance:     toRecordResponse(*record, &u),
			CurrentSession: &record.Sessions[len(record.Sessions)-1],
		}, nil

	case attendance.ActionExit:
		if record == nil || len(record.Sessions) == 0 {
			return attendance.ScanResponse{}, attendance.ErrExitWithoutEntry
		}
		open := record.OpenSession()
		if open == nil {
			return attendance.ScanResponse{}, attendance.ErrNoActiveSession
		}
		open.ExitTime = &t
		if err := s.DayRecordRepository.Update(ctx, *record); err != nil {
			return attendance.ScanResponse{}, err
		}
		return attendance.ScanResponse{
			Message:       "Manual exit recorded successfully",
			Type:          attendance.ResultExit,
			SessionNumber: len(record.Sessions),
			Attendance:    toRecordResponse(*record, &u),
		}, nil

	default:
		return attendance.ScanResponse{}, attendance.ErrInvalidActionKind
	}
}

// Today implements attendance.Queries. Inactive users' records are
// hidden unless the caller holds an elevated role.
func (s *AttendanceServiceImpl) Today(ctx context.Context, includeInactive bool) ([]attendance.TodayEntry, error) {
	day := attendance.DateOnly(s.now(), s.loc)

	records, err := s.DayRecordRepository.ListByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("list today's records: %w", err)
	}

	entries := make([]attendance.TodayEntry, 0, len(records))
	for _, record := range records {
		u, err := s.UserRepository.GetByID(ctx, record.UserID)
		if err != nil {
			if err == user.ErrUserNotFound {
				continue
			}
			return nil, err
		}
		if !u.IsActive() && !includeInactive {
			continue
		}

		legacy := record.LegacyView()
		entries = append(entries, attendance.TodayEntry{
			ID:                u.ID,
			Name:              u.Name,
			RFIDTag:           u.RFIDTag,
			Role:              string(u.Role),
			Status:            string(u.Status),
			Sessions:          record.Sessions,
			SessionCount:      len(record.Sessions),
			EntryTime:         legacy.EntryTime,
			ExitTime:          legacy.ExitTime,
			Timestamp:         legacy.Timestamp,
			IsCurrentlyInside: record.OpenSession() != nil,
		})
	}
	return entries, nil
}

// History implements attendance.Queries.
func (s *AttendanceServiceImpl) History(ctx context.Context, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	normalizeFilter(&filter)

	records, total, err := s.DayRecordRepository.List(ctx, filter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("list records: %w", err)
	}
	return s.buildHistoryResponse(ctx, records, total, filter)
}

// UserHistory implements attendance.Queries.
func (s *AttendanceServiceImpl) UserHistory(ctx context.Context, userID string, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	normalizeFilter(&filter)

	if uuid.Validate(userID) != nil {
		return attendance.HistoryResponse{}, user.ErrUserNotFound
	}
	if _, err := s.UserRepository.GetByID(ctx, userID); err != nil {
		return attendance.HistoryResponse{}, err
	}

	records, total, err := s.DayRecordRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("list user records: %w", err)
	}
	return s.buildHistoryResponse(ctx, records, total, filter)
}

// Stats implements attendance.Queries. The range defaults to the last
// 30 days ending today.
func (s *AttendanceServiceImpl) Stats(ctx context.Context, start, end *time.Time) (attendance.StatsResponse, error) {
	endDay := attendance.DateOnly(s.now(), s.loc)
	if end != nil {
		endDay = attendance.DateOnly(*end, s.loc)
	}
	startDay := endDay.AddDate(0, 0, -30)
	if start != nil {
		startDay = attendance.DateOnly(*start, s.loc)
	}

	counts, err := s.DayRecordRepository.CountByDay(ctx, startDay, endDay, 366)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("count by day: %w", err)
	}
	unique, err := s.DayRecordRepository.CountDistinctUsers(ctx, startDay, endDay)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("count distinct users: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c.AttendanceCount
	}

	return attendance.StatsResponse{
		TotalAttendance:      total,
		UniqueAttendeesCount: unique,
		AttendanceByDay:      counts,
	}, nil
}

// DeleteRecord implements attendance.Queries.
func (s *AttendanceServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	// Reject malformed ids before they reach the store as a type error.
	if uuid.Validate(id) != nil {
		return attendance.ErrRecordNotFound
	}
	return s.DayRecordRepository.Delete(ctx, id)
}

func (s *AttendanceServiceImpl) buildHistoryResponse(ctx context.Context, records []attendance.DayRecord, total int64, filter attendance.HistoryFilter) (attendance.HistoryResponse, error) {
	// Names resolve through a per-call cache; history pages repeat users.
	users := make(map[string]*user.User)
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, record := range records {
		u, ok := users[record.UserID]
		if !ok {
			found, err := s.UserRepository.GetByID(ctx, record.UserID)
			if err == nil {
				u = &found
			}
			users[record.UserID] = u
		}
		responses = append(responses, toRecordResponse(record, u))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return attendance.HistoryResponse{
		Attendance: responses,
		Pagination: attendance.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   totalPages,
			TotalRecords: total,
			Limit:        filter.Limit,
		},
	}, nil
}

func normalizeFilter(filter *attendance.HistoryFilter) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 30
	}
}

func toRecordResponse(record attendance.DayRecord, u *user.User) attendance.RecordResponse {
	legacy := record.LegacyView()
	resp := attendance.RecordResponse{
		ID:           record.ID,
		UserID:       record.UserID,
		Date:         record.Date,
		Sessions:     record.Sessions,
		SessionCount: len(record.Sessions),
		EntryTime:    legacy.EntryTime,
		ExitTime:     legacy.ExitTime,
		Timestamp:    legacy.Timestamp,
	}
	if u != nil {
		resp.UserName = u.Name
		resp.UserRole = string(u.Role)
	}
	return resp
}
