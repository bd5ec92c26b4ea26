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

type messageFixture struct {
	svc      *MessageService
	channels *memoryrepo.ChannelRepo
	dms      *memoryrepo.DMRepo
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	channels := memoryrepo.NewChannelRepo()
	dms := memoryrepo.NewDMRepo()
	return &messageFixture{
		svc:      NewMessageService(memoryrepo.NewMessageRepo(), channels, dms),
		channels: channels,
		dms:      dms,
	}
}

func (f *messageFixture) addChannel(t *testing.T, private bool, members ...uuid.UUID) uuid.UUID {
	t.Helper()
	ch := &domain.Channel{
		ID:        uuid.New(),
		Name:      "general",
		Private:   private,
		CreatedBy: members[0],
		MemberIDs: members,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.channels.Create(context.Background(), ch))
	return ch.ID
}

func TestSendAndListKeepsOrder(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	author := uuid.New()
	convID := f.addChannel(t, false, author)

	first, err := f.svc.Send(ctx, author, convID, SendMessageInput{Content: "hello"})
	require.NoError(t, err)
	second, err := f.svc.Send(ctx, author, convID, SendMessageInput{Content: "world"})
	require.NoError(t, err)

	messages, err := f.svc.List(ctx, author, convID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, second.ID, messages[1].ID)
	assert.Nil(t, messages[0].EditedAt)
}

func TestSendToUnknownConversation(t *testing.T) {
	f := newMessageFixture(t)

	_, err := f.svc.Send(context.Background(), uuid.New(), uuid.New(), SendMessageInput{Content: "hi"})
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestPrivateChannelRequiresMembership(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	member := uuid.New()
	outsider := uuid.New()
	convID := f.addChannel(t, true, member)

	_, err := f.svc.Send(ctx, outsider, convID, SendMessageInput{Content: "let me in"})
	assert.ErrorIs(t, err, ErrNotConversationMember)

	_, err = f.svc.List(ctx, outsider, convID)
	assert.ErrorIs(t, err, ErrNotConversationMember)

	// Public channels are open to the whole team.
	publicID := f.addChannel(t, false, member)
	_, err = f.svc.Send(ctx, outsider, publicID, SendMessageInput{Content: "hi"})
	assert.NoError(t, err)
}

func TestDMAccessLimitedToParticipants(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	eve := uuid.New()

	conv := &domain.DMConversation{ID: uuid.New(), UserA: alice, UserB: bob, CreatedAt: time.Now()}
	require.NoError(t, f.dms.Create(ctx, conv))

	_, err := f.svc.Send(ctx, alice, conv.ID, SendMessageInput{Content: "hey bob"})
	require.NoError(t, err)

	_, err = f.svc.List(ctx, bob, conv.ID)
	require.NoError(t, err)

	_, err = f.svc.List(ctx, eve, conv.ID)
	assert.ErrorIs(t, err, ErrNotConversationMember)
}

func TestEditKeepsCreatedAt(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	author := uuid.New()
	convID := f.addChannel(t, false, author)

	msg, err := f.svc.Send(ctx, author, convID, SendMessageInput{Content: "draft"})
	require.NoError(t, err)

	edited, err := f.svc.Edit(ctx, author, convID, msg.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Content)
	assert.True(t, msg.CreatedAt.Equal(edited.CreatedAt))
	require.NotNil(t, edited.EditedAt)
}

func TestEditAndDeleteAreAuthorOnly(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	author := uuid.New()
	other := uuid.New()
	convID := f.addChannel(t, false, author, other)

	msg, err := f.svc.Send(ctx, author, convID, SendMessageInput{Content: "mine"})
	require.NoError(t, err)

	_, err = f.svc.Edit(ctx, other, convID, msg.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotMessageAuthor)
	assert.ErrorIs(t, f.svc.Delete(ctx, other, convID, msg.ID), ErrNotMessageAuthor)

	// The denied calls left the message untouched.
	messages, err := f.svc.List(ctx, author, convID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "mine", messages[0].Content)
	assert.Nil(t, messages[0].EditedAt)

	require.NoError(t, f.svc.Delete(ctx, author, convID, msg.ID))
	messages, err = f.svc.List(ctx, author, convID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.ErrorIs(t, f.svc.Delete(ctx, author, convID, msg.ID), ErrMessageNotFound)
}

func TestToggleReactionRoundTrip(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	convID := f.addChannel(t, false, alice, bob)

	msg, err := f.svc.Send(ctx, alice, convID, SendMessageInput{Content: "ship it"})
	require.NoError(t, err)

	reacted, err := f.svc.ToggleReaction(ctx, alice, convID, msg.ID, "thumbsup")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{alice}, reacted.Reactions["thumbsup"])

	reacted, err = f.svc.ToggleReaction(ctx, bob, convID, msg.ID, "thumbsup")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{alice, bob}, reacted.Reactions["thumbsup"])

	// Alice toggles off; bob's reaction survives.
	reacted, err = f.svc.ToggleReaction(ctx, alice, convID, msg.ID, "thumbsup")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob}, reacted.Reactions["thumbsup"])

	// Bob toggles off; the emoji disappears entirely.
	reacted, err = f.svc.ToggleReaction(ctx, bob, convID, msg.ID, "thumbsup")
	require.NoError(t, err)
	assert.Nil(t, reacted.Reactions)

	stored, err := f.svc.List(ctx, alice, convID)
	require.NoError(t, err)
	assert.Nil(t, stored[0].Reactions)
}

func TestToggleReactionEvenCountRestores(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	convID := f.addChannel(t, false, alice, bob)

	msg, err := f.svc.Send(ctx, alice, convID, SendMessageInput{Content: "hm"})
	require.NoError(t, err)
	_, err = f.svc.ToggleReaction(ctx, bob, convID, msg.ID, "eyes")
	require.NoError(t, err)

	// An even number of toggles by the same user is a no-op overall.
	for i := 0; i < 4; i++ {
		_, err = f.svc.ToggleReaction(ctx, alice, convID, msg.ID, "eyes")
		require.NoError(t, err)
	}

	stored, err := f.svc.List(ctx, alice, convID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob}, stored[0].Reactions["eyes"])
}

func TestListSnapshotIsACopy(t *testing.T) {
	f := newMessageFixture(t)
	ctx := context.Background()
	author := uuid.New()
	convID := f.addChannel(t, false, author)

	msg, err := f.svc.Send(ctx, author, convID, SendMessageInput{Content: "original"})
	require.NoError(t, err)
	_, err = f.svc.ToggleReaction(ctx, author, convID, msg.ID, "fire")
	require.NoError(t, err)

	snapshot, err := f.svc.List(ctx, author, convID)
	require.NoError(t, err)
	snapshot[0].Content = "mutated"
	snapshot[0].Reactions["fire"] = nil

	fresh, err := f.svc.List(ctx, author, convID)
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[0].Content)
	assert.Equal(t, []uuid.UUID{author}, fresh[0].Reactions["fire"])
}
