package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

type DMRepo struct {
	mu     sync.RWMutex
	convs  []domain.DMConversation
	byID   map[uuid.UUID]int
	byPair map[[2]uuid.UUID]int
}

func NewDMRepo() *DMRepo {
	return &DMRepo{
		byID:   make(map[uuid.UUID]int),
		byPair: make(map[[2]uuid.UUID]int),
	}
}

// pairKey is order-independent so both participants resolve the same
// conversation.
func pairKey(a, b uuid.UUID) [2]uuid.UUID {
	if b.String() < a.String() {
		a, b = b, a
	}
	return [2]uuid.UUID{a, b}
}

func (r *DMRepo) Create(ctx context.Context, conv *domain.DMConversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[conv.ID] = len(r.convs)
	r.byPair[pairKey(conv.UserA, conv.UserB)] = len(r.convs)
	r.convs = append(r.convs, *conv)
	return nil
}

func (r *DMRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DMConversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	c := r.convs[i]
	return &c, nil
}

func (r *DMRepo) GetByUsers(ctx context.Context, userA, userB uuid.UUID) (*domain.DMConversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byPair[pairKey(userA, userB)]
	if !ok {
		return nil, nil
	}
	c := r.convs[i]
	return &c, nil
}

func (r *DMRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.DMConversation
	for _, c := range r.convs {
		if c.UserA == userID || c.UserB == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
