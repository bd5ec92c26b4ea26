package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

// MessageRepo keeps one append-ordered log per conversation. Insertion
// order is preserved within a conversation; nothing is ordered across
// conversations.
type MessageRepo struct {
	mu   sync.RWMutex
	logs map[uuid.UUID][]domain.Message
}

func NewMessageRepo() *MessageRepo {
	return &MessageRepo{logs: make(map[uuid.UUID][]domain.Message)}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[msg.ConversationID] = append(r.logs[msg.ConversationID], *domain.CloneMessage(msg))
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, conversationID, messageID uuid.UUID) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	log := r.logs[conversationID]
	for i := range log {
		if log[i].ID == messageID {
			return domain.CloneMessage(&log[i]), nil
		}
	}
	return nil, nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	log := r.logs[conversationID]
	out := make([]domain.Message, 0, len(log))
	for i := range log {
		out = append(out, *domain.CloneMessage(&log[i]))
	}
	return out, nil
}

func (r *MessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := r.logs[msg.ConversationID]
	for i := range log {
		if log[i].ID == msg.ID {
			log[i] = *domain.CloneMessage(msg)
			return nil
		}
	}
	return nil
}

func (r *MessageRepo) Delete(ctx context.Context, conversationID, messageID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := r.logs[conversationID]
	for i := range log {
		if log[i].ID == messageID {
			r.logs[conversationID] = append(log[:i:i], log[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *MessageRepo) SetReactions(ctx context.Context, conversationID, messageID uuid.UUID, reactions map[string][]uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := r.logs[conversationID]
	for i := range log {
		if log[i].ID == messageID {
			log[i].Reactions = nil
			if len(reactions) > 0 {
				log[i].Reactions = make(map[string][]uuid.UUID, len(reactions))
				for emoji, users := range reactions {
					log[i].Reactions[emoji] = append([]uuid.UUID(nil), users...)
				}
			}
			return nil
		}
	}
	return nil
}
