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
	ErrUserNotFound     = errors.New("user not found")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrChannelNameTaken = errors.New("channel name already exists")
	ErrAlreadyMember    = errors.New("user is already a member")
	ErrNotAdmin         = errors.New("only an admin can perform this action")
	ErrInvalidRole      = errors.New("invalid role")
)

// DirectoryService is the conversation directory: the set of channels and
// known users, plus the DM conversations between them. Listings are stable
// and insertion-ordered.
type DirectoryService struct {
	userRepo    repository.UserRepository
	channelRepo repository.ChannelRepository
	dmRepo      repository.DMRepository
}

func NewDirectoryService(
	userRepo repository.UserRepository,
	channelRepo repository.ChannelRepository,
	dmRepo repository.DMRepository,
) *DirectoryService {
	return &DirectoryService{
		userRepo:    userRepo,
		channelRepo: channelRepo,
		dmRepo:      dmRepo,
	}
}

type CreateChannelInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Private     bool        `json:"private"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

type UpdateProfileInput struct {
	Name        *string `json:"name"`
	Designation *string `json:"designation"`
	Phone       *string `json:"phone"`
	AvatarURL   *string `json:"avatar_url"`
}

func (s *DirectoryService) User(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *DirectoryService) Channel(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	ch, err := s.channelRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	return ch, nil
}

func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *DirectoryService) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	return s.channelRepo.List(ctx)
}

func (s *DirectoryService) CreateChannel(ctx context.Context, creatorID uuid.UUID, input CreateChannelInput) (*domain.Channel, error) {
	existing, err := s.channelRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrChannelNameTaken
	}

	var desc *string
	if input.Description != "" {
		desc = &input.Description
	}

	// Creator is always a member, whatever the caller supplied.
	members := []uuid.UUID{creatorID}
	for _, id := range input.MemberIDs {
		if id != creatorID {
			members = append(members, id)
		}
	}

	ch := &domain.Channel{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: desc,
		Private:     input.Private,
		CreatedBy:   creatorID,
		MemberIDs:   members,
		CreatedAt:   time.Now(),
	}

	if err := s.channelRepo.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("creating channel: %w", err)
	}
	return ch, nil
}

func (s *DirectoryService) AddChannelMember(ctx context.Context, channelID, userID uuid.UUID) error {
	ch, err := s.Channel(ctx, channelID)
	if err != nil {
		return err
	}
	if _, err := s.User(ctx, userID); err != nil {
		return err
	}
	if ch.HasMember(userID) {
		return ErrAlreadyMember
	}
	return s.channelRepo.AddMember(ctx, channelID, userID)
}

func (s *DirectoryService) RemoveChannelMember(ctx context.Context, channelID, userID uuid.UUID) error {
	if _, err := s.Channel(ctx, channelID); err != nil {
		return err
	}
	return s.channelRepo.RemoveMember(ctx, channelID, userID)
}

// DMWith finds or creates the DM conversation between two users. A self-DM
// (a == b) is a valid conversation.
func (s *DirectoryService) DMWith(ctx context.Context, a, b uuid.UUID) (*domain.DMConversation, error) {
	conv, err := s.dmRepo.GetByUsers(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = &domain.DMConversation{
		ID:        uuid.New(),
		UserA:     a,
		UserB:     b,
		CreatedAt: time.Now(),
	}
	if err := s.dmRepo.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("creating dm conversation: %w", err)
	}
	return conv, nil
}

// Resolve turns a (kind, id) target into a display-ready conversation
// descriptor for the viewer. For channels the id is the channel id; for DMs
// it is the recipient's user id.
func (s *DirectoryService) Resolve(ctx context.Context, viewerID uuid.UUID, kind string, id uuid.UUID) (*domain.Conversation, error) {
	switch kind {
	case domain.ConversationChannel:
		ch, err := s.Channel(ctx, id)
		if err != nil {
			return nil, err
		}
		return &domain.Conversation{
			ID:          ch.ID,
			Kind:        domain.ConversationChannel,
			DisplayName: ch.Name,
			Channel:     ch,
		}, nil
	case domain.ConversationDM:
		recipient, err := s.User(ctx, id)
		if err != nil {
			return nil, err
		}
		conv, err := s.DMWith(ctx, viewerID, recipient.ID)
		if err != nil {
			return nil, err
		}
		return &domain.Conversation{
			ID:          conv.ID,
			Kind:        domain.ConversationDM,
			DisplayName: recipient.Name,
			Recipient:   recipient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown conversation kind %q", kind)
	}
}

func (s *DirectoryService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Designation != nil {
		user.Designation = input.Designation
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

func (s *DirectoryService) SetRole(ctx context.Context, requesterID, userID uuid.UUID, role string) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleMember {
		return nil, ErrInvalidRole
	}

	requester, err := s.User(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.Role != domain.RoleAdmin {
		return nil, ErrNotAdmin
	}

	user, err := s.User(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating role: %w", err)
	}
	return user, nil
}

func (s *DirectoryService) SetOnline(ctx context.Context, userID uuid.UUID, online bool) error {
	return s.userRepo.SetOnline(ctx, userID, online)
}
