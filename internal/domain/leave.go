package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveRequest struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	DecidedBy    *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	DecisionNote *string    `json:"decision_note,omitempty"`
	RequestedAt  time.Time  `json:"requested_at"`
	// Joined field
	UserName string `json:"user_name,omitempty"`
}

// Decided reports whether the request has reached a terminal status.
func (l *LeaveRequest) Decided() bool {
	return l.Status != LeavePending
}
