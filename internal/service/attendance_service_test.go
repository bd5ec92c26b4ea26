package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/clock"
	"github.com/huddleapp/huddle/internal/domain"
	memoryrepo "github.com/huddleapp/huddle/internal/repository/memory"
)

func newAttendanceFixture(t *testing.T) (*AttendanceService, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	// tickEvery 0 disables the background ticker; the tests advance the
	// fake clock and call Tick themselves.
	svc := NewAttendanceService(memoryrepo.NewAttendanceRepo(), clk, 0)
	return svc, clk
}

func TestAttendanceFullDay(t *testing.T) {
	svc, clk := newAttendanceFixture(t)
	userID := uuid.New()

	require.NoError(t, svc.ClockIn(userID))

	for i := 0; i < 5; i++ {
		clk.Advance(time.Second)
		svc.Tick(userID)
	}

	require.NoError(t, svc.StartBreak(userID))
	clk.Advance(3 * time.Second)

	require.NoError(t, svc.EndBreak(userID))
	clk.Advance(2 * time.Second)
	svc.Tick(userID)

	entry, err := svc.ClockOut(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, int64(7), entry.WorkedSeconds)
	assert.Equal(t, int64(3), entry.BreakSeconds)
	assert.Equal(t, 70, entry.ActivityPercent)

	// The entry is in the log.
	entries, err := svc.Log(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)

	assert.Equal(t, domain.AttendanceClockedOut, svc.Status(userID).State)
}

func TestAttendanceBreakDoesNotAccrueWork(t *testing.T) {
	svc, clk := newAttendanceFixture(t)
	userID := uuid.New()

	require.NoError(t, svc.ClockIn(userID))
	require.NoError(t, svc.StartBreak(userID))

	// Ticks during a break must not add worked time.
	for i := 0; i < 10; i++ {
		clk.Advance(time.Second)
		svc.Tick(userID)
	}

	status := svc.Status(userID)
	assert.Equal(t, domain.AttendanceOnBreak, status.State)
	assert.Equal(t, int64(0), status.WorkedSeconds)
	assert.Equal(t, int64(10), status.BreakSeconds)
}

func TestAttendanceTickAccruesElapsedTime(t *testing.T) {
	svc, clk := newAttendanceFixture(t)
	userID := uuid.New()

	require.NoError(t, svc.ClockIn(userID))

	// A delayed tick still credits the full elapsed interval.
	clk.Advance(4 * time.Second)
	svc.Tick(userID)

	assert.Equal(t, int64(4), svc.Status(userID).WorkedSeconds)
}

func TestAttendanceInvalidTransitions(t *testing.T) {
	svc, _ := newAttendanceFixture(t)
	userID := uuid.New()

	assert.ErrorIs(t, svc.StartBreak(userID), ErrInvalidTransition)
	assert.ErrorIs(t, svc.EndBreak(userID), ErrInvalidTransition)
	_, err := svc.ClockOut(context.Background(), userID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.ClockIn(userID))
	assert.ErrorIs(t, svc.ClockIn(userID), ErrInvalidTransition)
	assert.ErrorIs(t, svc.EndBreak(userID), ErrInvalidTransition)

	require.NoError(t, svc.StartBreak(userID))
	assert.ErrorIs(t, svc.StartBreak(userID), ErrInvalidTransition)

	_, err = svc.ClockOut(context.Background(), userID)
	require.NoError(t, err)

	// Clocked out allows a fresh clock-in.
	assert.NoError(t, svc.ClockIn(userID))
}

func TestAttendanceStatusIdle(t *testing.T) {
	svc, _ := newAttendanceFixture(t)

	status := svc.Status(uuid.New())
	assert.Equal(t, domain.AttendanceIdle, status.State)
	assert.Equal(t, int64(0), status.WorkedSeconds)
}

func TestAttendanceUpdateEntry(t *testing.T) {
	svc, clk := newAttendanceFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.ClockIn(userID))
	clk.Advance(time.Hour)
	svc.Tick(userID)
	entry, err := svc.ClockOut(ctx, userID)
	require.NoError(t, err)

	newOut := entry.ClockIn.Add(2 * time.Hour)
	updated, err := svc.UpdateEntry(ctx, userID, entry.ID, UpdateEntryInput{ClockOut: &newOut})
	require.NoError(t, err)
	assert.Equal(t, int64(7200), updated.WorkedSeconds)

	// Owner check.
	_, err = svc.UpdateEntry(ctx, uuid.New(), entry.ID, UpdateEntryInput{ClockOut: &newOut})
	assert.ErrorIs(t, err, ErrNotEntryOwner)

	// Clock-out must not precede clock-in.
	badOut := entry.ClockIn.Add(-time.Minute)
	_, err = svc.UpdateEntry(ctx, userID, entry.ID, UpdateEntryInput{ClockOut: &badOut})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateEntry(ctx, userID, uuid.New(), UpdateEntryInput{})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestAttendanceDeleteEntry(t *testing.T) {
	svc, clk := newAttendanceFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.ClockIn(userID))
	clk.Advance(time.Minute)
	entry, err := svc.ClockOut(ctx, userID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteEntry(ctx, uuid.New(), entry.ID), ErrNotEntryOwner)
	require.NoError(t, svc.DeleteEntry(ctx, userID, entry.ID))
	assert.ErrorIs(t, svc.DeleteEntry(ctx, userID, entry.ID), ErrEntryNotFound)

	entries, err := svc.Log(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestActivityPercent(t *testing.T) {
	assert.Equal(t, 100, activityPercent(0, 0))
	assert.Equal(t, 100, activityPercent(time.Hour, 0))
	assert.Equal(t, 0, activityPercent(0, time.Hour))
	assert.Equal(t, 50, activityPercent(time.Hour, time.Hour))
	assert.Equal(t, 67, activityPercent(2*time.Hour, time.Hour))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatDuration(0))
	assert.Equal(t, "0:00:59", FormatDuration(59))
	assert.Equal(t, "0:01:05", FormatDuration(65))
	assert.Equal(t, "1:00:00", FormatDuration(3600))
	assert.Equal(t, "2:05:09", FormatDuration(2*3600+5*60+9))
	assert.Equal(t, "0:00:00", FormatDuration(-10))
}
