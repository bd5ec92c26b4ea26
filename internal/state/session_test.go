package state

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
	"github.com/huddleapp/huddle/internal/service"
)

type sessionFixture struct {
	directory *service.DirectoryService
	messages  *service.MessageService
	invites   *service.InviteService
	userID    uuid.UUID
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	ctx := context.Background()

	users := memoryrepo.NewUserRepo()
	channels := memoryrepo.NewChannelRepo()
	dms := memoryrepo.NewDMRepo()

	user := &domain.User{ID: uuid.New(), Email: "me@example.com", Name: "Me", Role: domain.RoleMember}
	require.NoError(t, users.Create(ctx, user))

	clk := clock.NewFake(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	return &sessionFixture{
		directory: service.NewDirectoryService(users, channels, dms),
		messages:  service.NewMessageService(memoryrepo.NewMessageRepo(), channels, dms),
		invites: service.NewInviteService(
			memoryrepo.NewInviteRepo(users), users, mail.LogSender{}, clk, 7*24*time.Hour, "http://localhost:8080",
		),
		userID: user.ID,
	}
}

func (f *sessionFixture) session() *Session {
	return NewSession(f.userID, f.directory, f.messages, f.invites)
}

func TestSelectDefaultPrefersSelfDM(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.directory.CreateChannel(ctx, f.userID, service.CreateChannelInput{Name: "general"})
	require.NoError(t, err)

	conv := f.session().SelectDefault(ctx)
	require.NotNil(t, conv)
	assert.Equal(t, domain.ConversationDM, conv.Kind)
	require.NotNil(t, conv.Recipient)
	assert.Equal(t, f.userID, conv.Recipient.ID)
}

func TestSelectDefaultFallsBackToFirstChannel(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.directory.CreateChannel(ctx, f.userID, service.CreateChannelInput{Name: "first"})
	require.NoError(t, err)
	_, err = f.directory.CreateChannel(ctx, f.userID, service.CreateChannelInput{Name: "second"})
	require.NoError(t, err)

	// A session for an id outside the directory cannot resolve a self-DM,
	// so the first channel wins.
	sess := NewSession(uuid.New(), f.directory, f.messages, f.invites)
	conv := sess.SelectDefault(ctx)
	require.NotNil(t, conv)
	assert.Equal(t, domain.ConversationChannel, conv.Kind)
	assert.Equal(t, first.ID, conv.ID)
}

func TestSelectDefaultEmptyDirectory(t *testing.T) {
	f := newSessionFixture(t)

	sess := NewSession(uuid.New(), f.directory, f.messages, f.invites)
	assert.Nil(t, sess.SelectDefault(context.Background()))
	assert.Nil(t, sess.Active())
}

func TestSetActiveUnknownIDKeepsSelection(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	ch, err := f.directory.CreateChannel(ctx, f.userID, service.CreateChannelInput{Name: "general"})
	require.NoError(t, err)

	sess := f.session()
	require.True(t, sess.SetActive(ctx, domain.ConversationChannel, ch.ID))

	// A failed selection is silent and leaves the active conversation as is.
	assert.False(t, sess.SetActive(ctx, domain.ConversationChannel, uuid.New()))
	assert.False(t, sess.SetActive(ctx, domain.ConversationDM, uuid.New()))

	active := sess.Active()
	require.NotNil(t, active)
	assert.Equal(t, ch.ID, active.ID)
}

func TestMessagesFollowActiveConversation(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	sess := f.session()

	// Nothing selected: an empty list, not an error.
	messages, err := sess.Messages(ctx)
	require.NoError(t, err)
	assert.Empty(t, messages)

	ch, err := f.directory.CreateChannel(ctx, f.userID, service.CreateChannelInput{Name: "general"})
	require.NoError(t, err)
	require.True(t, sess.SetActive(ctx, domain.ConversationChannel, ch.ID))

	_, err = f.messages.Send(ctx, f.userID, ch.ID, service.SendMessageInput{Content: "hello"})
	require.NoError(t, err)

	messages, err = sess.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Content)
}

func TestRosterCombinesUsersAndInvites(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	inv, err := f.invites.Issue(ctx, f.userID, "new@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, inv.Token)

	roster, err := f.session().Roster(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	require.NotNil(t, roster[0].User)
	assert.Equal(t, f.userID, roster[0].User.ID)

	require.NotNil(t, roster[1].Pending)
	assert.Equal(t, "new@example.com", roster[1].Pending.Email)
	// The invite token is not exposed through the roster.
	assert.Empty(t, roster[1].Pending.Token)
}
