package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		panic(err)
	}
	return loc
}()

func closedSession(entry time.Time, d time.Duration) Session {
	exit := entry.Add(d)
	return Session{EntryTime: entry, ExitTime: &exit}
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, 8, 19, 23, 45, 12, 999, ist)
	day := DateOnly(ts, ist)
	assert.Equal(t, time.Date(2025, 8, 19, 0, 0, 0, 0, ist), day)

	// A UTC instant lands on the local calendar date, not the UTC one.
	utc := time.Date(2025, 8, 19, 20, 0, 0, 0, time.UTC) // 01:30 IST next day
	assert.Equal(t, time.Date(2025, 8, 20, 0, 0, 0, 0, ist), DateOnly(utc, ist))
}

func TestOpenSessionAndCompleted(t *testing.T) {
	entry := time.Date(2025, 8, 19, 9, 0, 0, 0, ist)

	record := DayRecord{Sessions: []Session{{EntryTime: entry}}}
	require.NotNil(t, record.OpenSession())
	assert.False(t, record.Completed())

	record = DayRecord{Sessions: []Session{closedSession(entry, 2*time.Hour)}}
	assert.Nil(t, record.OpenSession())
	assert.True(t, record.Completed())

	assert.Nil(t, (&DayRecord{}).OpenSession())
	assert.False(t, (&DayRecord{}).Completed())
}

func TestHours_AdditiveAndOpenContributesNothing(t *testing.T) {
	entry := time.Date(2025, 8, 19, 9, 0, 0, 0, ist)

	record := DayRecord{Sessions: []Session{closedSession(entry, 90*time.Minute)}}
	assert.InDelta(t, 1.5, record.Hours(), 1e-9)

	// Adding a closed session strictly increases the total.
	record.Sessions = append(record.Sessions, closedSession(entry.Add(3*time.Hour), time.Hour))
	assert.InDelta(t, 2.5, record.Hours(), 1e-9)

	// An open session adds exactly zero.
	record.Sessions = append(record.Sessions, Session{EntryTime: entry.Add(6 * time.Hour)})
	assert.InDelta(t, 2.5, record.Hours(), 1e-9)
}

func TestLegacyView_MirrorsFirstEntryLastExit(t *testing.T) {
	entry1 := time.Date(2025, 8, 19, 9, 0, 0, 0, ist)
	entry2 := time.Date(2025, 8, 19, 14, 0, 0, 0, ist)

	record := DayRecord{Sessions: []Session{
		closedSession(entry1, 2*time.Hour),
		closedSession(entry2, time.Hour),
	}}

	legacy := record.LegacyView()
	require.NotNil(t, legacy.EntryTime)
	require.NotNil(t, legacy.ExitTime)
	require.NotNil(t, legacy.Timestamp)
	assert.Equal(t, record.Sessions[0].EntryTime, *legacy.EntryTime)
	assert.Equal(t, *record.Sessions[1].ExitTime, *legacy.ExitTime)
	assert.Equal(t, *legacy.EntryTime, *legacy.Timestamp)
}

func TestLegacyView_OpenTailHasNilExit(t *testing.T) {
	entry := time.Date(2025, 8, 19, 9, 0, 0, 0, ist)
	record := DayRecord{Sessions: []Session{{EntryTime: entry}}}

	legacy := record.LegacyView()
	require.NotNil(t, legacy.EntryTime)
	assert.Nil(t, legacy.ExitTime)
}

func TestLegacyView_EmptyRecord(t *testing.T) {
	legacy := (&DayRecord{}).LegacyView()
	assert.Nil(t, legacy.EntryTime)
	assert.Nil(t, legacy.ExitTime)
	assert.Nil(t, legacy.Timestamp)
}

func TestPartition(t *testing.T) {
	entry := time.Date(2025, 8, 19, 9, 0, 0, 0, ist)
	record := DayRecord{Sessions: []Session{
		closedSession(entry, time.Hour),
		{EntryTime: entry.Add(2 * time.Hour)},
		closedSession(entry.Add(4*time.Hour), time.Hour),
	}}

	closed, open := record.Partition()
	require.Len(t, closed, 2)
	require.Len(t, open, 1)
	assert.Equal(t, entry, closed[0].EntryTime)
	assert.Equal(t, entry.Add(4*time.Hour), closed[1].EntryTime)
	assert.Equal(t, entry.Add(2*time.Hour), open[0].EntryTime)
}

func TestSessionDuration(t *testing.T) {
	entry := time.Date(2025, 8, 19, 9, 0, 0, 0, ist)
	assert.Equal(t, time.Duration(0), Session{EntryTime: entry}.Duration())
	assert.Equal(t, 90*time.Minute, closedSession(entry, 90*time.Minute).Duration())
}
