package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

type AttendanceRepo struct {
	mu      sync.RWMutex
	entries []domain.AttendanceEntry
	byID    map[uuid.UUID]int
}

func NewAttendanceRepo() *AttendanceRepo {
	return &AttendanceRepo{byID: make(map[uuid.UUID]int)}
}

func (r *AttendanceRepo) Create(ctx context.Context, entry *domain.AttendanceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[entry.ID] = len(r.entries)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	e := r.entries[i]
	return &e, nil
}

func (r *AttendanceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.AttendanceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.AttendanceEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *AttendanceRepo) Update(ctx context.Context, entry *domain.AttendanceEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[entry.ID]; ok {
		r.entries[i] = *entry
	}
	return nil
}

func (r *AttendanceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return nil
	}
	r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
	delete(r.byID, id)
	for j := i; j < len(r.entries); j++ {
		r.byID[r.entries[j].ID] = j
	}
	return nil
}
