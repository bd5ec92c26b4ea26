package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

type ChannelRepo struct {
	mu       sync.RWMutex
	channels []domain.Channel
	byID     map[uuid.UUID]int
}

func NewChannelRepo() *ChannelRepo {
	return &ChannelRepo{byID: make(map[uuid.UUID]int)}
}

func cloneChannel(c *domain.Channel) *domain.Channel {
	cp := *c
	cp.MemberIDs = append([]uuid.UUID(nil), c.MemberIDs...)
	if c.Description != nil {
		d := *c.Description
		cp.Description = &d
	}
	return &cp
}

func (r *ChannelRepo) Create(ctx context.Context, channel *domain.Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[channel.ID] = len(r.channels)
	r.channels = append(r.channels, *cloneChannel(channel))
	return nil
}

func (r *ChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return cloneChannel(&r.channels[i]), nil
}

func (r *ChannelRepo) GetByName(ctx context.Context, name string) (*domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.channels {
		if strings.EqualFold(r.channels[i].Name, name) {
			return cloneChannel(&r.channels[i]), nil
		}
	}
	return nil, nil
}

func (r *ChannelRepo) List(ctx context.Context) ([]domain.Channel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Channel, 0, len(r.channels))
	for i := range r.channels {
		out = append(out, *cloneChannel(&r.channels[i]))
	}
	return out, nil
}

func (r *ChannelRepo) AddMember(ctx context.Context, channelID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[channelID]
	if !ok {
		return nil
	}
	if r.channels[i].HasMember(userID) {
		return nil
	}
	r.channels[i].MemberIDs = append(r.channels[i].MemberIDs, userID)
	return nil
}

func (r *ChannelRepo) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[channelID]
	if !ok {
		return nil
	}
	members := r.channels[i].MemberIDs
	for j, id := range members {
		if id == userID {
			r.channels[i].MemberIDs = append(members[:j:j], members[j+1:]...)
			return nil
		}
	}
	return nil
}
