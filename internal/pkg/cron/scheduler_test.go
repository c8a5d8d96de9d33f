package cron

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDailyJob_RunsOnlyInsideWindow(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s := NewScheduler()
	s.now = func() time.Time {
		return time.Date(2025, 8, 19, 22, 15, 0, 0, loc)
	}

	var ran atomic.Int32
	s.AddDailyJob("cleanup", 22, loc, func(ctx context.Context, now time.Time) error {
		assert.Equal(t, 22, now.Hour())
		ran.Add(1)
		return nil
	})
	s.AddDailyJob("audit", 23, loc, func(ctx context.Context, now time.Time) error {
		t.Error("audit job must not run at 22:15")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), ran.Load())
}

func TestAddDailyJob_ConvertsToConfiguredZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	s := NewScheduler()
	// 16:30 UTC is 22:00 IST.
	s.now = func() time.Time {
		return time.Date(2025, 8, 19, 16, 30, 0, 0, time.UTC)
	}

	var ran atomic.Int32
	s.AddDailyJob("cleanup", 22, loc, func(ctx context.Context, now time.Time) error {
		ran.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), ran.Load())
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler()

	var ran atomic.Int32
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	s.Start()
	// Jobs run once immediately on start.
	assert.Eventually(t, func() bool {
		return ran.Load() >= 1
	}, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}
