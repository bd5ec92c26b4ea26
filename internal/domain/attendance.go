package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AttendanceIdle       = "idle"
	AttendanceWorking    = "working"
	AttendanceOnBreak    = "on-break"
	AttendanceClockedOut = "clocked-out"
)

// AttendanceEntry is one completed work session, written on clock-out.
type AttendanceEntry struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	ClockIn         time.Time `json:"clock_in"`
	ClockOut        time.Time `json:"clock_out"`
	WorkedSeconds   int64     `json:"worked_seconds"`
	BreakSeconds    int64     `json:"break_seconds"`
	ActivityPercent int       `json:"activity_percent"`
}

// AttendanceStatus is the live session snapshot for a user.
type AttendanceStatus struct {
	State         string    `json:"state"`
	ClockIn       time.Time `json:"clock_in,omitzero"`
	WorkedSeconds int64     `json:"worked_seconds"`
	BreakSeconds  int64     `json:"break_seconds"`
}
