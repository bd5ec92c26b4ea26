// Package memory holds in-process repository implementations. They hold the
// only copy of the data, so every read hands out a copy and every write is
// serialized behind the store lock. All state lives in process memory and is
// lost on restart.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

type UserRepo struct {
	mu    sync.RWMutex
	users []domain.User
	byID  map[uuid.UUID]int
}

func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[uuid.UUID]int)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = len(r.users)
	r.users = append(r.users, *user)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	u := r.users[i]
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.User(nil), r.users...), nil
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[user.ID]
	if !ok {
		return nil
	}
	r.users[i] = *user
	return nil
}

func (r *UserRepo) SetOnline(ctx context.Context, id uuid.UUID, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[id]; ok {
		r.users[i].Online = online
	}
	return nil
}
