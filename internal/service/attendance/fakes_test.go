package attendance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/email"
)

// fakeUserRepo is an in-memory user.UserRepository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) GetByRFIDTag(_ context.Context, tag string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.RFIDTag == tag {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, newUser user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if newUser.ID == "" {
		newUser.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ user.ListFilter) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []user.User
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) ListNonAdmin(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var users []user.User
	for _, u := range r.users {
		if u.Role != user.RoleAdmin {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) CountByRoleAndStatus(_ context.Context) (map[user.Role]int64, map[user.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byRole := make(map[user.Role]int64)
	byStatus := make(map[user.Status]int64)
	for _, u := range r.users {
		byRole[u.Role]++
		byStatus[u.Status]++
	}
	return byRole, byStatus, nil
}

// fakeDayRecordRepo is an in-memory attendance.DayRecordRepository with
// the same version-check behavior as the real store. beforeUpdate, when
// set, runs once just before the next Update's version check; tests use
// it to interleave a competing writer between a read and its write.
type fakeDayRecordRepo struct {
	mu           sync.Mutex
	records      map[string]attendance.DayRecord
	nextID       int
	beforeUpdate func()
}

func newFakeDayRecordRepo() *fakeDayRecordRepo {
	return &fakeDayRecordRepo{records: make(map[string]attendance.DayRecord)}
}

func dayKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

func copyRecord(record attendance.DayRecord) attendance.DayRecord {
	sessions := make([]attendance.Session, len(record.Sessions))
	copy(sessions, record.Sessions)
	record.Sessions = sessions
	return record
}

func (r *fakeDayRecordRepo) Create(_ context.Context, record attendance.DayRecord) (attendance.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if dayKey(existing.UserID, existing.Date) == dayKey(record.UserID, record.Date) {
			return attendance.DayRecord{}, attendance.ErrDuplicateRecord
		}
	}
	r.nextID++
	record.ID = fmt.Sprintf("record-%d", r.nextID)
	record.Version = 1
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	r.records[record.ID] = copyRecord(record)
	return copyRecord(record), nil
}

func (r *fakeDayRecordRepo) GetByID(_ context.Context, id string) (attendance.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return attendance.DayRecord{}, attendance.ErrRecordNotFound
	}
	return copyRecord(record), nil
}

func (r *fakeDayRecordRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if dayKey(record.UserID, record.Date) == dayKey(userID, date) {
			c := copyRecord(record)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeDayRecordRepo) Update(_ context.Context, record attendance.DayRecord) error {
	if hook := r.beforeUpdate; hook != nil {
		r.beforeUpdate = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[record.ID]
	if !ok {
		return attendance.ErrRecordNotFound
	}
	if stored.Version != record.Version {
		return attendance.ErrConcurrentUpdate
	}
	record.Version++
	record.CreatedAt = stored.CreatedAt
	record.UpdatedAt = time.Now()
	r.records[record.ID] = copyRecord(record)
	return nil
}

func (r *fakeDayRecordRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return attendance.ErrRecordNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeDayRecordRepo) ListByDate(_ context.Context, date time.Time) ([]attendance.DayRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []attendance.DayRecord
	for _, record := range r.records {
		if record.Date.Format("2006-01-02") == date.Format("2006-01-02") {
			records = append(records, copyRecord(record))
		}
	}
	return records, nil
}

func (r *fakeDayRecordRepo) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.DayRecord, error) {
	all, err := r.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	var open []attendance.DayRecord
	for _, record := range all {
		if record.OpenSession() != nil {
			open = append(open, record)
		}
	}
	return open, nil
}

func (r *fakeDayRecordRepo) ListByUser(_ context.Context, userID string, _ attendance.HistoryFilter) ([]attendance.DayRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []attendance.DayRecord
	for _, record := range r.records {
		if record.UserID == userID {
			records = append(records, copyRecord(record))
		}
	}
	return records, int64(len(records)), nil
}

func (r *fakeDayRecordRepo) List(_ context.Context, _ attendance.HistoryFilter) ([]attendance.DayRecord, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []attendance.DayRecord
	for _, record := range r.records {
		records = append(records, copyRecord(record))
	}
	return records, int64(len(records)), nil
}

func (r *fakeDayRecordRepo) CountByDay(_ context.Context, start, end time.Time, _ int) ([]attendance.DayCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[string]*attendance.DayCount)
	seen := make(map[string]map[string]bool)
	for _, record := range r.records {
		if record.Date.Before(start) || record.Date.After(end) {
			continue
		}
		key := record.Date.Format("2006-01-02")
		if byDay[key] == nil {
			byDay[key] = &attendance.DayCount{Date: record.Date}
			seen[key] = make(map[string]bool)
		}
		byDay[key].AttendanceCount++
		if !seen[key][record.UserID] {
			seen[key][record.UserID] = true
			byDay[key].UniqueUsers++
		}
	}
	var counts []attendance.DayCount
	for _, c := range byDay {
		counts = append(counts, *c)
	}
	return counts, nil
}

func (r *fakeDayRecordRepo) CountDistinctUsers(_ context.Context, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	for _, record := range r.records {
		if record.Date.Before(start) || record.Date.After(end) {
			continue
		}
		seen[record.UserID] = true
	}
	return int64(len(seen)), nil
}

func (r *fakeDayRecordRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *fakeDayRecordRepo) setVersion(id string, version int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record := r.records[id]
	record.Version = version
	r.records[id] = record
}

// fakeEmailService records every notification instead of sending.
type fakeEmailService struct {
	mu              sync.Mutex
	lowAttendance   []string
	incomplete      []string
	adminReports    [][]email.LowAttendanceEntry
	failIncomplete  bool
	incompleteTimes map[string][]time.Time
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{incompleteTimes: make(map[string][]time.Time)}
}

func (f *fakeEmailService) SendLowAttendanceNotification(to, _ string, _, _ float64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lowAttendance = append(f.lowAttendance, to)
	return nil
}

func (f *fakeEmailService) SendAdminLowAttendanceReport(_ []string, entries []email.LowAttendanceEntry, _ float64, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adminReports = append(f.adminReports, entries)
	return nil
}

func (f *fakeEmailService) SendIncompleteSessionNotification(to, _ string, removed []email.RemovedSession, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncomplete {
		return fmt.Errorf("smtp unavailable")
	}
	f.incomplete = append(f.incomplete, to)
	for _, rm := range removed {
		f.incompleteTimes[to] = append(f.incompleteTimes[to], rm.EntryTime)
	}
	return nil
}
