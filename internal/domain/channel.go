package domain

import (
	"time"

	"github.com/google/uuid"
)

type Channel struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Private     bool      `json:"private"`
	CreatedBy   uuid.UUID `json:"created_by"`
	// MemberIDs keeps join order for display; membership checks treat it as a set.
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedAt time.Time   `json:"created_at"`
}

// HasMember reports whether the user belongs to the channel.
func (c *Channel) HasMember(userID uuid.UUID) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
