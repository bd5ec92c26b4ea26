package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/clock"
	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/repository"
)

var (
	ErrInvalidTransition = errors.New("invalid attendance transition")
	ErrEntryNotFound     = errors.New("attendance entry not found")
	ErrNotEntryOwner     = errors.New("only the entry owner can perform this action")
)

// attendanceSession is one user's live clock state. Worked time accrues
// only in the working state; each accrual adds the actual elapsed time
// since the previous accrual instant, so tick jitter never causes drift.
type attendanceSession struct {
	state       string
	clockIn     time.Time
	lastAccrual time.Time
	breakStart  time.Time
	worked      time.Duration
	onBreak     time.Duration
	stopTick    chan struct{}
}

// AttendanceService drives the per-user work/break state machine
// (idle → working ⇄ on-break → clocked-out) and persists a log entry on
// each clock-out.
type AttendanceService struct {
	repo repository.AttendanceRepository
	clk  clock.Clock
	// tickEvery is the ticker period for live accrual; zero disables the
	// background ticker and accrual happens on transitions and explicit
	// Tick calls (tests drive the fake clock this way).
	tickEvery time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*attendanceSession
}

func NewAttendanceService(repo repository.AttendanceRepository, clk clock.Clock, tickEvery time.Duration) *AttendanceService {
	return &AttendanceService{
		repo:      repo,
		clk:       clk,
		tickEvery: tickEvery,
		sessions:  make(map[uuid.UUID]*attendanceSession),
	}
}

func (s *AttendanceService) ClockIn(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess != nil && sess.state != domain.AttendanceClockedOut {
		return ErrInvalidTransition
	}

	now := s.clk.Now()
	sess = &attendanceSession{
		state:       domain.AttendanceWorking,
		clockIn:     now,
		lastAccrual: now,
	}
	s.sessions[userID] = sess
	s.startTickerLocked(userID, sess)
	return nil
}

func (s *AttendanceService) StartBreak(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil || sess.state != domain.AttendanceWorking {
		return ErrInvalidTransition
	}

	now := s.clk.Now()
	sess.worked += now.Sub(sess.lastAccrual)
	sess.breakStart = now
	sess.state = domain.AttendanceOnBreak
	s.stopTickerLocked(sess)
	return nil
}

func (s *AttendanceService) EndBreak(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil || sess.state != domain.AttendanceOnBreak {
		return ErrInvalidTransition
	}

	now := s.clk.Now()
	sess.onBreak += now.Sub(sess.breakStart)
	sess.lastAccrual = now
	sess.state = domain.AttendanceWorking
	s.startTickerLocked(userID, sess)
	return nil
}

func (s *AttendanceService) ClockOut(ctx context.Context, userID uuid.UUID) (*domain.AttendanceEntry, error) {
	s.mu.Lock()

	sess := s.sessions[userID]
	if sess == nil || (sess.state != domain.AttendanceWorking && sess.state != domain.AttendanceOnBreak) {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}

	now := s.clk.Now()
	switch sess.state {
	case domain.AttendanceWorking:
		sess.worked += now.Sub(sess.lastAccrual)
		s.stopTickerLocked(sess)
	case domain.AttendanceOnBreak:
		sess.onBreak += now.Sub(sess.breakStart)
	}
	sess.state = domain.AttendanceClockedOut

	entry := &domain.AttendanceEntry{
		ID:              uuid.New(),
		UserID:          userID,
		ClockIn:         sess.clockIn,
		ClockOut:        now,
		WorkedSeconds:   int64(sess.worked.Seconds()),
		BreakSeconds:    int64(sess.onBreak.Seconds()),
		ActivityPercent: activityPercent(sess.worked, sess.onBreak),
	}
	s.mu.Unlock()

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("saving attendance entry: %w", err)
	}
	return entry, nil
}

// Status returns a snapshot of the user's live session, accruing any
// pending working interval first so the numbers are current.
func (s *AttendanceService) Status(userID uuid.UUID) domain.AttendanceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessions[userID]
	if sess == nil {
		return domain.AttendanceStatus{State: domain.AttendanceIdle}
	}
	s.accrueLocked(sess)

	status := domain.AttendanceStatus{
		State:         sess.state,
		ClockIn:       sess.clockIn,
		WorkedSeconds: int64(sess.worked.Seconds()),
		BreakSeconds:  int64(sess.onBreak.Seconds()),
	}
	if sess.state == domain.AttendanceOnBreak {
		status.BreakSeconds = int64((sess.onBreak + s.clk.Now().Sub(sess.breakStart)).Seconds())
	}
	return status
}

// Tick accrues elapsed working time for the user. The background ticker
// calls this once per period; tests call it directly after advancing a fake
// clock.
func (s *AttendanceService) Tick(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.sessions[userID]; sess != nil {
		s.accrueLocked(sess)
	}
}

func (s *AttendanceService) accrueLocked(sess *attendanceSession) {
	if sess.state != domain.AttendanceWorking {
		return
	}
	now := s.clk.Now()
	sess.worked += now.Sub(sess.lastAccrual)
	sess.lastAccrual = now
}

// startTickerLocked launches the accrual loop for a working session. The
// loop stops the instant the state leaves working, via the session's stop
// channel, so a session never ticks after a break or clock-out.
func (s *AttendanceService) startTickerLocked(userID uuid.UUID, sess *attendanceSession) {
	if s.tickEvery <= 0 {
		return
	}
	stop := make(chan struct{})
	sess.stopTick = stop
	go func() {
		ticker := time.NewTicker(s.tickEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Tick(userID)
			case <-stop:
				return
			}
		}
	}()
}

func (s *AttendanceService) stopTickerLocked(sess *attendanceSession) {
	if sess.stopTick != nil {
		close(sess.stopTick)
		sess.stopTick = nil
	}
}

func (s *AttendanceService) Log(ctx context.Context, userID uuid.UUID) ([]domain.AttendanceEntry, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.AttendanceEntry{}
	}
	return entries, nil
}

type UpdateEntryInput struct {
	ClockIn  *time.Time `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
}

func (s *AttendanceService) UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, input UpdateEntryInput) (*domain.AttendanceEntry, error) {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	if entry.UserID != userID {
		return nil, ErrNotEntryOwner
	}

	if input.ClockIn != nil {
		entry.ClockIn = *input.ClockIn
	}
	if input.ClockOut != nil {
		entry.ClockOut = *input.ClockOut
	}
	if entry.ClockOut.Before(entry.ClockIn) {
		return nil, fmt.Errorf("%w: clock-out before clock-in", ErrInvalidTransition)
	}
	worked := int64(entry.ClockOut.Sub(entry.ClockIn).Seconds()) - entry.BreakSeconds
	if worked < 0 {
		worked = 0
	}
	entry.WorkedSeconds = worked

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("updating attendance entry: %w", err)
	}
	return entry, nil
}

func (s *AttendanceService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrEntryNotFound
	}
	if entry.UserID != userID {
		return ErrNotEntryOwner
	}
	return s.repo.Delete(ctx, entryID)
}

// activityPercent is the share of the session spent working, derived from
// the measured durations.
func activityPercent(worked, onBreak time.Duration) int {
	total := worked + onBreak
	if total <= 0 {
		return 100
	}
	return int((worked*100 + total/2) / total)
}

// FormatDuration renders whole seconds as H:MM:SS. Pure display helper,
// not part of the state machine.
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	sec := totalSeconds % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}
