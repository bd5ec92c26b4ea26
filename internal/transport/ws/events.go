package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeConversationSelect = "conversation.select"
	EventTypeMessageSend        = "message.send"
	EventTypeTypingStart        = "typing.start"
	EventTypeTypingStop         = "typing.stop"
	EventTypePing               = "ping"
)

// Event types - Server → Client
const (
	EventTypeConversationActive = "conversation.active"
	EventTypeMessageNew         = "message.new"
	EventTypeMessageEdited      = "message.edited"
	EventTypeMessageDeleted     = "message.deleted"
	EventTypeReactionUpdated    = "reaction.updated"
	EventTypeTyping             = "typing"
	EventTypePresence           = "presence"
	EventTypePong               = "pong"
	EventTypeError              = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type           string          `json:"type"`
	ConversationID *uuid.UUID      `json:"conversation_id,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	Timestamp      int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ConversationSelectPayload struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

type MessageSendPayload struct {
	Content    string             `json:"content"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
}

// --- Server → Client payloads ---

type ConversationActivePayload struct {
	Conversation *domain.Conversation `json:"conversation"`
	Messages     []domain.Message     `json:"messages"`
}

type MessagePayload struct {
	Message domain.Message `json:"message"`
}

type MessageDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type TypingPayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type PresencePayload struct {
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent wraps a payload in the event envelope.
func NewEvent(eventType string, conversationID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:           eventType,
		ConversationID: conversationID,
		Payload:        data,
		Timestamp:      time.Now().UnixMilli(),
	}, nil
}
