package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

// Repositories return (nil, nil) when a record does not exist; services turn
// that into their own not-found sentinels.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetOnline(ctx context.Context, id uuid.UUID, online bool) error
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *domain.Channel) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	GetByName(ctx context.Context, name string) (*domain.Channel, error)
	List(ctx context.Context) ([]domain.Channel, error)
	AddMember(ctx context.Context, channelID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error
}

type DMRepository interface {
	Create(ctx context.Context, conv *domain.DMConversation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DMConversation, error)
	GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.DMConversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, conversationID, messageID uuid.UUID) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
	Update(ctx context.Context, msg *domain.Message) error
	Delete(ctx context.Context, conversationID, messageID uuid.UUID) error
	SetReactions(ctx context.Context, conversationID, messageID uuid.UUID, reactions map[string][]uuid.UUID) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) error
	GetByToken(ctx context.Context, token string) (*domain.Invite, error)
	GetByEmail(ctx context.Context, email string) (*domain.Invite, error)
	List(ctx context.Context) ([]domain.Invite, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Consume creates the user and deletes the invite as one atomic step.
	Consume(ctx context.Context, inviteID uuid.UUID, user *domain.User) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, entry *domain.AttendanceEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceEntry, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AttendanceEntry, error)
	Update(ctx context.Context, entry *domain.AttendanceEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type LeaveRepository interface {
	Create(ctx context.Context, req *domain.LeaveRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LeaveRequest, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string) ([]domain.LeaveRequest, error)
	Update(ctx context.Context, req *domain.LeaveRequest) error
}
