package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Presence is told when a user connects or disconnects; the directory uses
// it to keep the online flag current.
type Presence interface {
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
}

// Hub manages all active WebSocket clients and routes events to them.
type Hub struct {
	// clients maps userID → client.
	clients  map[uuid.UUID]*Client
	presence Presence

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
}

type broadcastMsg struct {
	conversationID uuid.UUID
	data           []byte
	excludeID      *uuid.UUID // optional: skip this user (e.g. sender)
}

func NewHub(presence Presence) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		presence:   presence,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.UserID()] = client
			log.Printf("ws hub: user %s connected (%d total)", client.UserID(), len(h.clients))
			h.setOnline(client.UserID(), true)
			h.broadcastPresence(client.UserID(), "online")

		case client := <-h.unregister:
			if _, ok := h.clients[client.UserID()]; ok {
				delete(h.clients, client.UserID())
				close(client.send)
				close(client.done)
				log.Printf("ws hub: user %s disconnected (%d total)", client.UserID(), len(h.clients))
				h.setOnline(client.UserID(), false)
				h.broadcastPresence(client.UserID(), "offline")
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if msg.excludeID != nil && client.UserID() == *msg.excludeID {
					continue
				}
				// Only deliver to clients viewing this conversation.
				if !client.IsViewing(msg.conversationID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client.UserID())
					close(client.send)
					close(client.done)
				}
			}
		}
	}
}

// BroadcastToConversation sends an event to every client whose active
// conversation matches.
func (h *Hub) BroadcastToConversation(conversationID uuid.UUID, event *Event, excludeUserID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	h.broadcast <- &broadcastMsg{
		conversationID: conversationID,
		data:           data,
		excludeID:      excludeUserID,
	}
}

// BroadcastToUser sends an event directly to a specific user.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if client, ok := h.clients[userID]; ok {
		select {
		case client.send <- data:
		default:
		}
	}
}

// HandleTyping relays a typing.start to everyone else viewing the sender's
// conversation. typing.stop is not broadcast; the frontend uses a timeout.
func (h *Hub) HandleTyping(sender *Client, event *Event) {
	if event.Type != EventTypeTypingStart || event.ConversationID == nil {
		return
	}
	conversationID := *event.ConversationID

	evt, err := NewEvent(EventTypeTyping, &conversationID, TypingPayload{UserID: sender.UserID()})
	if err != nil {
		return
	}

	senderID := sender.UserID()
	h.BroadcastToConversation(conversationID, evt, &senderID)
}

func (h *Hub) setOnline(userID uuid.UUID, online bool) {
	if h.presence == nil {
		return
	}
	if err := h.presence.SetOnline(context.Background(), userID, online); err != nil {
		log.Printf("ws hub: presence update for %s failed: %v", userID, err)
	}
}

// broadcastPresence sends online/offline to all connected clients.
func (h *Hub) broadcastPresence(userID uuid.UUID, status string) {
	evt, err := NewEvent(EventTypePresence, nil, PresencePayload{
		UserID: userID,
		Status: status,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, client := range h.clients {
		if client.UserID() == userID {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}
