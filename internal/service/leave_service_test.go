package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/domain"
	memoryrepo "github.com/huddleapp/huddle/internal/repository/memory"
)

type leaveFixture struct {
	svc     *LeaveService
	adminID uuid.UUID
	userID  uuid.UUID
}

func newLeaveFixture(t *testing.T) *leaveFixture {
	t.Helper()
	ctx := context.Background()
	users := memoryrepo.NewUserRepo()

	admin := &domain.User{ID: uuid.New(), Email: "admin@example.com", Name: "Admin", Role: domain.RoleAdmin}
	member := &domain.User{ID: uuid.New(), Email: "member@example.com", Name: "Member", Role: domain.RoleMember}
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.Create(ctx, member))

	return &leaveFixture{
		svc:     NewLeaveService(memoryrepo.NewLeaveRepo(), users),
		adminID: admin.ID,
		userID:  member.ID,
	}
}

func leaveDates(days int) SubmitLeaveInput {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return SubmitLeaveInput{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days),
		Reason:    "vacation",
	}
}

func TestSubmitLeave(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.userID, leaveDates(3))
	require.NoError(t, err)
	assert.Equal(t, domain.LeavePending, req.Status)
	assert.False(t, req.Decided())

	// Single-day leave is allowed.
	_, err = f.svc.Submit(ctx, f.userID, leaveDates(0))
	assert.NoError(t, err)

	// End before start is not.
	_, err = f.svc.Submit(ctx, f.userID, leaveDates(-1))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	mine, err := f.svc.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestDecideLeaveExactlyOnce(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.userID, leaveDates(2))
	require.NoError(t, err)

	decided, err := f.svc.Decide(ctx, f.adminID, req.ID, true, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	assert.Equal(t, f.adminID, *decided.DecidedBy)
	require.NotNil(t, decided.DecisionNote)
	assert.Equal(t, "enjoy", *decided.DecisionNote)

	// A decided request is terminal, even for the opposite decision.
	_, err = f.svc.Decide(ctx, f.adminID, req.ID, false, "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	stored, err := f.svc.ListByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, stored[0].Status)
}

func TestDecideLeaveIsAdminOnly(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	req, err := f.svc.Submit(ctx, f.userID, leaveDates(1))
	require.NoError(t, err)

	_, err = f.svc.Decide(ctx, f.userID, req.ID, true, "")
	assert.ErrorIs(t, err, ErrNotAdmin)

	_, err = f.svc.Decide(ctx, f.adminID, uuid.New(), true, "")
	assert.ErrorIs(t, err, ErrLeaveNotFound)
}

func TestPendingQueue(t *testing.T) {
	f := newLeaveFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.userID, leaveDates(1))
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, f.userID, leaveDates(2))
	require.NoError(t, err)

	_, err = f.svc.ListPending(ctx, f.userID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	pending, err := f.svc.ListPending(ctx, f.adminID)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = f.svc.Decide(ctx, f.adminID, first.ID, false, "short notice")
	require.NoError(t, err)

	pending, err = f.svc.ListPending(ctx, f.adminID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
