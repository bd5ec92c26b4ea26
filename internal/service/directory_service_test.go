package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/domain"
	memoryrepo "github.com/huddleapp/huddle/internal/repository/memory"
)

type directoryFixture struct {
	svc *DirectoryService
	u1  uuid.UUID
	u2  uuid.UUID
}

func newDirectoryFixture(t *testing.T) *directoryFixture {
	t.Helper()
	ctx := context.Background()
	users := memoryrepo.NewUserRepo()

	u1 := &domain.User{ID: uuid.New(), Email: "u1@example.com", Name: "U1", Role: domain.RoleAdmin}
	u2 := &domain.User{ID: uuid.New(), Email: "u2@example.com", Name: "U2", Role: domain.RoleMember}
	require.NoError(t, users.Create(ctx, u1))
	require.NoError(t, users.Create(ctx, u2))

	return &directoryFixture{
		svc: NewDirectoryService(users, memoryrepo.NewChannelRepo(), memoryrepo.NewDMRepo()),
		u1:  u1.ID,
		u2:  u2.ID,
	}
}

func TestCreateChannel(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	ch, err := f.svc.CreateChannel(ctx, f.u1, CreateChannelInput{
		Name:      "launch",
		MemberIDs: []uuid.UUID{f.u2},
	})
	require.NoError(t, err)
	assert.Equal(t, "launch", ch.Name)
	assert.Equal(t, f.u1, ch.CreatedBy)
	// Creator comes first, then the supplied members.
	assert.Equal(t, []uuid.UUID{f.u1, f.u2}, ch.MemberIDs)

	_, err = f.svc.CreateChannel(ctx, f.u2, CreateChannelInput{Name: "launch"})
	assert.ErrorIs(t, err, ErrChannelNameTaken)

	// The creator is a member even when listed among the input members.
	dup, err := f.svc.CreateChannel(ctx, f.u1, CreateChannelInput{
		Name:      "ops",
		MemberIDs: []uuid.UUID{f.u1, f.u2},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.u1, f.u2}, dup.MemberIDs)
}

func TestChannelMembership(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	ch, err := f.svc.CreateChannel(ctx, f.u1, CreateChannelInput{Name: "launch"})
	require.NoError(t, err)

	require.NoError(t, f.svc.AddChannelMember(ctx, ch.ID, f.u2))
	assert.ErrorIs(t, f.svc.AddChannelMember(ctx, ch.ID, f.u2), ErrAlreadyMember)
	assert.ErrorIs(t, f.svc.AddChannelMember(ctx, ch.ID, uuid.New()), ErrUserNotFound)
	assert.ErrorIs(t, f.svc.AddChannelMember(ctx, uuid.New(), f.u2), ErrChannelNotFound)

	got, err := f.svc.Channel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.u1, f.u2}, got.MemberIDs)

	require.NoError(t, f.svc.RemoveChannelMember(ctx, ch.ID, f.u2))
	got, err = f.svc.Channel(ctx, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.u1}, got.MemberIDs)
}

func TestDMWithFindsOrCreates(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	conv, err := f.svc.DMWith(ctx, f.u1, f.u2)
	require.NoError(t, err)

	// Same pair in either order resolves to the same conversation.
	again, err := f.svc.DMWith(ctx, f.u2, f.u1)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	// A self-DM is its own conversation.
	self, err := f.svc.DMWith(ctx, f.u1, f.u1)
	require.NoError(t, err)
	assert.NotEqual(t, conv.ID, self.ID)
	assert.Equal(t, f.u1, self.UserA)
	assert.Equal(t, f.u1, self.UserB)
}

func TestResolve(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	ch, err := f.svc.CreateChannel(ctx, f.u1, CreateChannelInput{Name: "launch"})
	require.NoError(t, err)

	conv, err := f.svc.Resolve(ctx, f.u1, domain.ConversationChannel, ch.ID)
	require.NoError(t, err)
	assert.Equal(t, ch.ID, conv.ID)
	assert.Equal(t, "launch", conv.DisplayName)

	// DM targets are addressed by the recipient's user id; the display
	// name is the recipient's name.
	dm, err := f.svc.Resolve(ctx, f.u1, domain.ConversationDM, f.u2)
	require.NoError(t, err)
	assert.Equal(t, "U2", dm.DisplayName)
	assert.NotEqual(t, f.u2, dm.ID)

	_, err = f.svc.Resolve(ctx, f.u1, domain.ConversationChannel, uuid.New())
	assert.ErrorIs(t, err, ErrChannelNotFound)
	_, err = f.svc.Resolve(ctx, f.u1, "group", ch.ID)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	designation := "Engineer"
	name := "U-Two"
	user, err := f.svc.UpdateProfile(ctx, f.u2, UpdateProfileInput{
		Name:        &name,
		Designation: &designation,
	})
	require.NoError(t, err)
	assert.Equal(t, "U-Two", user.Name)
	require.NotNil(t, user.Designation)
	assert.Equal(t, "Engineer", *user.Designation)

	// Omitted fields are untouched.
	phone := "555-0100"
	user, err = f.svc.UpdateProfile(ctx, f.u2, UpdateProfileInput{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "U-Two", user.Name)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "555-0100", *user.Phone)
}

func TestSetRole(t *testing.T) {
	f := newDirectoryFixture(t)
	ctx := context.Background()

	user, err := f.svc.SetRole(ctx, f.u1, f.u2, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err = f.svc.SetRole(ctx, f.u1, f.u2, "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)

	// Demote u2 back, then verify a member cannot change roles.
	_, err = f.svc.SetRole(ctx, f.u1, f.u2, domain.RoleMember)
	require.NoError(t, err)
	_, err = f.svc.SetRole(ctx, f.u2, f.u1, domain.RoleMember)
	assert.ErrorIs(t, err, ErrNotAdmin)
}
