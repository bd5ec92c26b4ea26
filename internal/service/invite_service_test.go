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
	"github.com/huddleapp/huddle/internal/mail"
	memoryrepo "github.com/huddleapp/huddle/internal/repository/memory"
)

type inviteFixture struct {
	svc   *InviteService
	users *memoryrepo.UserRepo
	clk   *clock.Fake
}

func newInviteFixture(t *testing.T) *inviteFixture {
	t.Helper()
	users := memoryrepo.NewUserRepo()
	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	svc := NewInviteService(
		memoryrepo.NewInviteRepo(users),
		users,
		mail.LogSender{},
		clk,
		7*24*time.Hour,
		"http://localhost:8080",
	)
	return &inviteFixture{svc: svc, users: users, clk: clk}
}

func TestInviteLifecycle(t *testing.T) {
	f := newInviteFixture(t)
	ctx := context.Background()
	inviter := uuid.New()

	inv, err := f.svc.Issue(ctx, inviter, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", inv.Email)
	assert.NotEmpty(t, inv.Token)
	assert.Equal(t, inviter, inv.InvitedBy)
	assert.Contains(t, f.svc.JoinLink(inv), inv.Token)

	verified, err := f.svc.Verify(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, verified.ID)

	user, err := f.svc.Accept(ctx, inv.Token, AcceptInviteInput{
		Name:        "Alice",
		Password:    "s3cret-pass",
		Designation: "Eng",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, domain.RoleMember, user.Role)
	require.NotNil(t, user.Designation)
	assert.Equal(t, "Eng", *user.Designation)

	// The token is consumed.
	_, err = f.svc.Verify(ctx, inv.Token)
	assert.ErrorIs(t, err, ErrInviteNotFound)
	_, err = f.svc.Accept(ctx, inv.Token, AcceptInviteInput{Name: "Mallory", Password: "x"})
	assert.ErrorIs(t, err, ErrInviteNotFound)

	// The new password works for login.
	auth := NewAuthService(f.users, "test-secret")
	resp, err := auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestIssueRejectsDuplicates(t *testing.T) {
	f := newInviteFixture(t)
	ctx := context.Background()
	inviter := uuid.New()

	inv, err := f.svc.Issue(ctx, inviter, "bob@example.com")
	require.NoError(t, err)

	// Pending invite blocks a second issue for the same email.
	_, err = f.svc.Issue(ctx, inviter, "bob@example.com")
	assert.ErrorIs(t, err, ErrInvitePending)

	_, err = f.svc.Accept(ctx, inv.Token, AcceptInviteInput{Name: "Bob", Password: "pw-123456"})
	require.NoError(t, err)

	// A registered email cannot be invited again.
	_, err = f.svc.Issue(ctx, inviter, "bob@example.com")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestExpiredInviteIsGone(t *testing.T) {
	f := newInviteFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Issue(ctx, uuid.New(), "carol@example.com")
	require.NoError(t, err)

	f.clk.Advance(7*24*time.Hour + time.Minute)

	_, err = f.svc.Verify(ctx, inv.Token)
	assert.ErrorIs(t, err, ErrInviteNotFound)
	_, err = f.svc.Accept(ctx, inv.Token, AcceptInviteInput{Name: "Carol", Password: "pw-123456"})
	assert.ErrorIs(t, err, ErrInviteNotFound)

	// Expired invites drop out of the listing.
	invites, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, invites)

	// A stale invite no longer blocks a fresh one.
	fresh, err := f.svc.Issue(ctx, uuid.New(), "carol@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, inv.Token, fresh.Token)
}

func TestRevokeInvalidatesToken(t *testing.T) {
	f := newInviteFixture(t)
	ctx := context.Background()

	inv, err := f.svc.Issue(ctx, uuid.New(), "dan@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.Revoke(ctx, inv.ID))

	_, err = f.svc.Verify(ctx, inv.Token)
	assert.ErrorIs(t, err, ErrInviteNotFound)
}

func TestSweepExpired(t *testing.T) {
	f := newInviteFixture(t)
	ctx := context.Background()

	old, err := f.svc.Issue(ctx, uuid.New(), "old@example.com")
	require.NoError(t, err)

	f.clk.Advance(8 * 24 * time.Hour)

	fresh, err := f.svc.Issue(ctx, uuid.New(), "fresh@example.com")
	require.NoError(t, err)

	f.svc.SweepExpired(ctx)

	_, err = f.svc.Verify(ctx, old.Token)
	assert.ErrorIs(t, err, ErrInviteNotFound)

	verified, err := f.svc.Verify(ctx, fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, verified.ID)
}

func TestInviteTokensAreUnique(t *testing.T) {
	f := newInviteFixture(t)
	ctx := context.Background()

	a, err := f.svc.Issue(ctx, uuid.New(), "a@example.com")
	require.NoError(t, err)
	b, err := f.svc.Issue(ctx, uuid.New(), "b@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.Len(t, a.Token, 43) // 32 bytes, base64url without padding
}
