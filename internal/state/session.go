// Package state holds the per-user application state that the realtime
// layer serves: the current user, the active conversation, and the derived
// views over the directory and message store. Every authenticated
// connection owns its own Session.
package state

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/service"
)

// Session composes the conversation directory and message store behind one
// mutation/query surface. All mutation goes through the session's single
// lock; reads hand out copies.
type Session struct {
	directory *service.DirectoryService
	messages  *service.MessageService
	invites   *service.InviteService

	mu     sync.Mutex
	userID uuid.UUID
	active *domain.Conversation
}

func NewSession(
	userID uuid.UUID,
	directory *service.DirectoryService,
	messages *service.MessageService,
	invites *service.InviteService,
) *Session {
	return &Session{
		directory: directory,
		messages:  messages,
		invites:   invites,
		userID:    userID,
	}
}

func (s *Session) UserID() uuid.UUID {
	return s.userID
}

// SetActive selects the conversation the session targets. An unknown id
// leaves the previous selection untouched and reports false; selection
// failure is a policy no-op, not an error surfaced to the user.
func (s *Session) SetActive(ctx context.Context, kind string, id uuid.UUID) bool {
	conv, err := s.directory.Resolve(ctx, s.userID, kind, id)
	if err != nil {
		return false
	}
	s.mu.Lock()
	s.active = conv
	s.mu.Unlock()
	return true
}

// Active returns a copy of the active conversation descriptor, or nil when
// nothing is selected.
func (s *Session) Active() *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	conv := *s.active
	return &conv
}

// SelectDefault picks the start-up conversation deterministically: the
// user's self-DM when the directory resolves it, otherwise the first
// channel in insertion order, otherwise nothing.
func (s *Session) SelectDefault(ctx context.Context) *domain.Conversation {
	if s.SetActive(ctx, domain.ConversationDM, s.userID) {
		return s.Active()
	}
	channels, err := s.directory.ListChannels(ctx)
	if err == nil && len(channels) > 0 {
		if s.SetActive(ctx, domain.ConversationChannel, channels[0].ID) {
			return s.Active()
		}
	}
	return nil
}

// Messages returns the message list for the active conversation, empty when
// none is selected.
func (s *Session) Messages(ctx context.Context) ([]domain.Message, error) {
	active := s.Active()
	if active == nil {
		return []domain.Message{}, nil
	}
	return s.messages.List(ctx, s.userID, active.ID)
}

// RosterEntry is one row of the combined directory view: an existing user
// or a still-pending invitation.
type RosterEntry struct {
	User    *domain.User   `json:"user,omitempty"`
	Pending *domain.Invite `json:"pending,omitempty"`
}

// Roster merges directory users with pending invitations, users first,
// each group in insertion order.
func (s *Session) Roster(ctx context.Context) ([]RosterEntry, error) {
	users, err := s.directory.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	invites, err := s.invites.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]RosterEntry, 0, len(users)+len(invites))
	for i := range users {
		entries = append(entries, RosterEntry{User: &users[i]})
	}
	for i := range invites {
		// The token never leaves the server through a roster view.
		inv := invites[i]
		inv.Token = ""
		entries = append(entries, RosterEntry{Pending: &inv})
	}
	return entries, nil
}
