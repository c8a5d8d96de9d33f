package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
)

func TestCheckLowAttendance_FlagsUnderThreshold(t *testing.T) {
	short := activeMember("u3", "T3")
	full := activeMember("u4", "T4")
	absent := activeMember("u5", "T5")
	admin := activeMember("a1", "TA")
	admin.Role = user.RoleAdmin

	svc, recordRepo, _, emailSvc := newTestService(short, full, absent, admin)
	ctx := context.Background()
	day := attendance.DateOnly(svc.now(), testLoc)

	// u3 worked 1.5 hours, u4 worked 3.
	entry3 := time.Date(2025, 8, 19, 9, 0, 0, 0, testLoc)
	exit3 := entry3.Add(90 * time.Minute)
	_, err := recordRepo.Create(ctx, attendance.DayRecord{
		UserID: "u3", Date: day,
		Sessions: []attendance.Session{{EntryTime: entry3, ExitTime: &exit3}},
	})
	require.NoError(t, err)

	entry4 := time.Date(2025, 8, 19, 9, 0, 0, 0, testLoc)
	exit4 := entry4.Add(3 * time.Hour)
	_, err = recordRepo.Create(ctx, attendance.DayRecord{
		UserID: "u4", Date: day,
		Sessions: []attendance.Session{{EntryTime: entry4, ExitTime: &exit4}},
	})
	require.NoError(t, err)

	summary, err := svc.CheckLowAttendance(ctx, nil)
	require.NoError(t, err)

	// Admins are excluded; u3 (1.5h) and u5 (no record) are flagged.
	assert.Equal(t, 3, summary.UsersConsidered)
	assert.Equal(t, 2, summary.Flagged)
	assert.Equal(t, 2, summary.Notified)

	assert.ElementsMatch(t, []string{"u3@xrocketry.in", "u5@xrocketry.in"}, emailSvc.lowAttendance)

	require.Len(t, emailSvc.adminReports, 1)
	report := emailSvc.adminReports[0]
	require.Len(t, report, 2)
	for _, row := range report {
		switch row.Email {
		case "u3@xrocketry.in":
			assert.InDelta(t, 1.5, row.HoursWorked, 1e-9)
			assert.InDelta(t, 0.5, row.Deficit, 1e-9)
		case "u5@xrocketry.in":
			assert.Zero(t, row.HoursWorked)
			assert.InDelta(t, 2.0, row.Deficit, 1e-9)
		default:
			t.Errorf("unexpected user in report: %s", row.Email)
		}
	}
}

func TestCheckLowAttendance_IncludesInactiveUsers(t *testing.T) {
	inactive := activeMember("u1", "T1")
	inactive.Status = user.StatusInactive
	svc, _, _, emailSvc := newTestService(inactive)

	summary, err := svc.CheckLowAttendance(context.Background(), nil)
	require.NoError(t, err)

	// Status does not exempt anyone from the audit; only the admin role
	// is excluded.
	assert.Equal(t, 1, summary.UsersConsidered)
	assert.Equal(t, 1, summary.Flagged)
	require.Len(t, emailSvc.adminReports, 1)
	require.Len(t, emailSvc.adminReports[0], 1)
	assert.Equal(t, "u1@xrocketry.in", emailSvc.adminReports[0][0].Email)
}

func TestCheckLowAttendance_SendsAllClearReport(t *testing.T) {
	u := activeMember("u1", "T1")
	svc, recordRepo, _, emailSvc := newTestService(u)
	ctx := context.Background()
	day := attendance.DateOnly(svc.now(), testLoc)

	entry := time.Date(2025, 8, 19, 9, 0, 0, 0, testLoc)
	exit := entry.Add(3 * time.Hour)
	_, err := recordRepo.Create(ctx, attendance.DayRecord{
		UserID: "u1", Date: day,
		Sessions: []attendance.Session{{EntryTime: entry, ExitTime: &exit}},
	})
	require.NoError(t, err)

	summary, err := svc.CheckLowAttendance(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.Flagged)

	// The admin report still goes out, with no flagged entries.
	require.Len(t, emailSvc.adminReports, 1)
	assert.Empty(t, emailSvc.adminReports[0])
}

func TestCheckLowAttendance_OpenSessionContributesNothing(t *testing.T) {
	u := activeMember("u1", "T1")
	svc, recordRepo, _, emailSvc := newTestService(u)
	ctx := context.Background()
	day := attendance.DateOnly(svc.now(), testLoc)

	_, err := recordRepo.Create(ctx, attendance.DayRecord{
		UserID: "u1", Date: day,
		Sessions: []attendance.Session{{EntryTime: time.Date(2025, 8, 19, 6, 0, 0, 0, testLoc)}},
	})
	require.NoError(t, err)

	summary, err := svc.CheckLowAttendance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Flagged)
	assert.Len(t, emailSvc.lowAttendance, 1)
}

func TestCheckLowAttendance_SkipsUsersWithoutEmail(t *testing.T) {
	noEmail := activeMember("u1", "T1")
	noEmail.Email = ""
	svc, _, _, emailSvc := newTestService(noEmail)

	summary, err := svc.CheckLowAttendance(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Flagged)
	assert.Zero(t, summary.Notified)
	assert.Empty(t, emailSvc.lowAttendance)
	// Flagged users still appear in the admin report.
	require.Len(t, emailSvc.adminReports, 1)
}

func TestCheckLowAttendance_DoesNotMutateRecords(t *testing.T) {
	u := activeMember("u1", "T1")
	svc, recordRepo, _, _ := newTestService(u)
	ctx := context.Background()
	day := attendance.DateOnly(svc.now(), testLoc)

	created, err := recordRepo.Create(ctx, attendance.DayRecord{
		UserID: "u1", Date: day,
		Sessions: []attendance.Session{{EntryTime: time.Date(2025, 8, 19, 9, 0, 0, 0, testLoc)}},
	})
	require.NoError(t, err)

	_, err = svc.CheckLowAttendance(ctx, nil)
	require.NoError(t, err)

	after, err := recordRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Sessions, after.Sessions)
	assert.Equal(t, created.Version, after.Version)
}

func TestCheckLowAttendance_ExplicitDate(t *testing.T) {
	u := activeMember("u1", "T1")
	svc, recordRepo, _, _ := newTestService(u)
	ctx := context.Background()

	past := time.Date(2025, 8, 10, 0, 0, 0, 0, testLoc)
	entry := time.Date(2025, 8, 10, 9, 0, 0, 0, testLoc)
	exit := entry.Add(4 * time.Hour)
	_, err := recordRepo.Create(ctx, attendance.DayRecord{
		UserID: "u1", Date: past,
		Sessions: []attendance.Session{{EntryTime: entry, ExitTime: &exit}},
	})
	require.NoError(t, err)

	summary, err := svc.CheckLowAttendance(ctx, &past)
	require.NoError(t, err)
	assert.Equal(t, past, summary.Date)
	assert.Zero(t, summary.Flagged)
}
