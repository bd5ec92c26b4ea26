package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ConversationChannel = "channel"
	ConversationDM      = "dm"
)

// DMConversation pairs two users. Lookup by pair is order-independent, so
// both participants resolve the same conversation; a self-DM has
// UserA == UserB.
type DMConversation struct {
	ID        uuid.UUID `json:"id"`
	UserA     uuid.UUID `json:"user_a"`
	UserB     uuid.UUID `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`
}

// Other returns the peer of the given user, which is the user itself for a
// self-DM.
func (d *DMConversation) Other(userID uuid.UUID) uuid.UUID {
	if d.UserA == userID {
		return d.UserB
	}
	return d.UserA
}

// Conversation is the resolved descriptor for a messaging target: either a
// channel or a DM recipient, with a display-ready name.
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	DisplayName string    `json:"display_name"`
	Channel     *Channel  `json:"channel,omitempty"`
	Recipient   *User     `json:"recipient,omitempty"`
}
