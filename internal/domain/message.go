package domain

import (
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type Message struct {
	ID             uuid.UUID   `json:"id"`
	ConversationID uuid.UUID   `json:"conversation_id"`
	AuthorID       uuid.UUID   `json:"author_id"`
	Content        string      `json:"content"`
	Attachment     *Attachment `json:"attachment,omitempty"`
	// Reactions maps emoji to the users who reacted, in toggle order.
	Reactions map[string][]uuid.UUID `json:"reactions,omitempty"`
	// CreatedAt is the send time and never changes; EditedAt is set on
	// the first edit and refreshed on each subsequent one.
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	// Joined fields
	AuthorName string `json:"author_name,omitempty"`
}

// Edited reports whether the message has been edited since it was sent.
func (m *Message) Edited() bool {
	return m.EditedAt != nil
}

// HasReaction reports whether the user currently reacts with the emoji.
func (m *Message) HasReaction(emoji string, userID uuid.UUID) bool {
	for _, id := range m.Reactions[emoji] {
		if id == userID {
			return true
		}
	}
	return false
}

// CloneMessage returns a deep copy so callers cannot alias store state.
func CloneMessage(m *Message) *Message {
	cp := *m
	if m.Attachment != nil {
		att := *m.Attachment
		cp.Attachment = &att
	}
	if m.EditedAt != nil {
		t := *m.EditedAt
		cp.EditedAt = &t
	}
	if m.Reactions != nil {
		cp.Reactions = make(map[string][]uuid.UUID, len(m.Reactions))
		for emoji, users := range m.Reactions {
			cp.Reactions[emoji] = append([]uuid.UUID(nil), users...)
		}
	}
	return &cp
}
