package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

type InviteRepo struct {
	mu      sync.Mutex
	invites []domain.Invite
	// users receives the accepted user so Consume is atomic with the
	// invite removal under this repo's lock.
	users *UserRepo
}

func NewInviteRepo(users *UserRepo) *InviteRepo {
	return &InviteRepo{users: users}
}

func (r *InviteRepo) Create(ctx context.Context, invite *domain.Invite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invites = append(r.invites, *invite)
	return nil
}

func (r *InviteRepo) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.invites {
		if r.invites[i].Token == token {
			inv := r.invites[i]
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *InviteRepo) GetByEmail(ctx context.Context, email string) (*domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.invites {
		if strings.EqualFold(r.invites[i].Email, email) {
			inv := r.invites[i]
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *InviteRepo) List(ctx context.Context) ([]domain.Invite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Invite(nil), r.invites...), nil
}

func (r *InviteRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleteLocked(id)
	return nil
}

func (r *InviteRepo) deleteLocked(id uuid.UUID) bool {
	for i := range r.invites {
		if r.invites[i].ID == id {
			r.invites = append(r.invites[:i:i], r.invites[i+1:]...)
			return true
		}
	}
	return false
}

// Consume removes the invite and creates the user in one step. If the
// invite is already gone (a concurrent accept won), the user is not created.
func (r *InviteRepo) Consume(ctx context.Context, inviteID uuid.UUID, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.deleteLocked(inviteID) {
		return nil
	}
	return r.users.Create(ctx, user)
}

func (r *InviteRepo) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.invites[:0]
	removed := 0
	for _, inv := range r.invites {
		if inv.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, inv)
	}
	r.invites = kept
	return removed, nil
}
