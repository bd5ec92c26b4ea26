package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

type LeaveRepo struct {
	mu       sync.RWMutex
	requests []domain.LeaveRequest
	byID     map[uuid.UUID]int
}

func NewLeaveRepo() *LeaveRepo {
	return &LeaveRepo{byID: make(map[uuid.UUID]int)}
}

func cloneLeave(l *domain.LeaveRequest) *domain.LeaveRequest {
	cp := *l
	if l.DecidedBy != nil {
		id := *l.DecidedBy
		cp.DecidedBy = &id
	}
	if l.DecidedAt != nil {
		t := *l.DecidedAt
		cp.DecidedAt = &t
	}
	if l.DecisionNote != nil {
		n := *l.DecisionNote
		cp.DecisionNote = &n
	}
	return &cp
}

func (r *LeaveRepo) Create(ctx context.Context, req *domain.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[req.ID] = len(r.requests)
	r.requests = append(r.requests, *cloneLeave(req))
	return nil
}

func (r *LeaveRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneLeave(&r.requests[i]), nil
}

func (r *LeaveRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LeaveRequest
	for i := range r.requests {
		if r.requests[i].UserID == userID {
			out = append(out, *cloneLeave(&r.requests[i]))
		}
	}
	return out, nil
}

func (r *LeaveRepo) ListByStatus(ctx context.Context, status string) ([]domain.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LeaveRequest
	for i := range r.requests {
		if r.requests[i].Status == status {
			out = append(out, *cloneLeave(&r.requests[i]))
		}
	}
	return out, nil
}

func (r *LeaveRepo) Update(ctx context.Context, req *domain.LeaveRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[req.ID]; ok {
		r.requests[i] = *cloneLeave(req)
	}
	return nil
}
