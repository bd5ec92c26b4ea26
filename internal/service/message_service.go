package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/repository"
)

var (
	ErrMessageNotFound       = errors.New("message not found")
	ErrNotMessageAuthor      = errors.New("only the message author can perform this action")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrNotConversationMember = errors.New("user has no access to this conversation")
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyEditedMessage(msg *domain.Message)
	NotifyDeletedMessage(conversationID, messageID uuid.UUID)
	NotifyReactionUpdated(msg *domain.Message)
}

// MessageService is the per-conversation message store: ordered append,
// author-only edit and delete, reaction toggling, and snapshot listings.
type MessageService struct {
	messageRepo repository.MessageRepository
	channelRepo repository.ChannelRepository
	dmRepo      repository.DMRepository
	notifier    Notifier
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	channelRepo repository.ChannelRepository,
	dmRepo repository.DMRepository,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		channelRepo: channelRepo,
		dmRepo:      dmRepo,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SendMessageInput struct {
	Content    string             `json:"content"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
}

func (s *MessageService) Send(ctx context.Context, authorID, conversationID uuid.UUID, input SendMessageInput) (*domain.Message, error) {
	if err := s.checkAccess(ctx, authorID, conversationID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		AuthorID:       authorID,
		Content:        input.Content,
		Attachment:     input.Attachment,
		CreatedAt:      time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	full, err := s.messageRepo.GetByID(ctx, conversationID, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}
	return full, nil
}

// List returns a snapshot of the conversation's log in insertion order.
// Messages and their reaction maps are copies; mutating them does not touch
// store state.
func (s *MessageService) List(ctx context.Context, userID, conversationID uuid.UUID) ([]domain.Message, error) {
	if err := s.checkAccess(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *MessageService) Edit(ctx context.Context, userID, conversationID, messageID uuid.UUID, content string) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, conversationID, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.AuthorID != userID {
		return nil, ErrNotMessageAuthor
	}

	now := time.Now()
	msg.Content = content
	msg.EditedAt = &now
	// CreatedAt stays the send time; sort-by-sent order survives edits.

	if err := s.messageRepo.Update(ctx, msg); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyEditedMessage(msg)
	}
	return msg, nil
}

func (s *MessageService) Delete(ctx context.Context, userID, conversationID, messageID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, conversationID, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.AuthorID != userID {
		return ErrNotMessageAuthor
	}

	if err := s.messageRepo.Delete(ctx, conversationID, messageID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(conversationID, messageID)
	}
	return nil
}

// ToggleReaction adds the user under the emoji, or removes them if already
// present. An emoji whose last reactor leaves is dropped entirely, so a
// second toggle by the same user restores the previous reaction map.
func (s *MessageService) ToggleReaction(ctx context.Context, userID, conversationID, messageID uuid.UUID, emoji string) (*domain.Message, error) {
	if err := s.checkAccess(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msg, err := s.messageRepo.GetByID(ctx, conversationID, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}

	if msg.HasReaction(emoji, userID) {
		users := msg.Reactions[emoji]
		for i, id := range users {
			if id == userID {
				users = append(users[:i:i], users[i+1:]...)
				break
			}
		}
		if len(users) == 0 {
			delete(msg.Reactions, emoji)
			if len(msg.Reactions) == 0 {
				msg.Reactions = nil
			}
		} else {
			msg.Reactions[emoji] = users
		}
	} else {
		if msg.Reactions == nil {
			msg.Reactions = make(map[string][]uuid.UUID)
		}
		msg.Reactions[emoji] = append(msg.Reactions[emoji], userID)
	}

	if err := s.messageRepo.SetReactions(ctx, conversationID, messageID, msg.Reactions); err != nil {
		return nil, fmt.Errorf("updating reactions: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyReactionUpdated(msg)
	}
	return msg, nil
}

// checkAccess verifies the conversation exists and the user may post in it:
// membership for private channels and DMs, team-wide for public channels.
func (s *MessageService) checkAccess(ctx context.Context, userID, conversationID uuid.UUID) error {
	ch, err := s.channelRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if ch != nil {
		if ch.Private && !ch.HasMember(userID) {
			return ErrNotConversationMember
		}
		return nil
	}

	conv, err := s.dmRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv == nil {
		return ErrConversationNotFound
	}
	if conv.UserA != userID && conv.UserB != userID {
		return ErrNotConversationMember
	}
	return nil
}
