package domain

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a pending, not-yet-consumed workspace invitation. The token is
// opaque and single-use; the invite is deleted when accepted.
type Invite struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	InvitedBy uuid.UUID `json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the invite is past its TTL at the given instant.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
