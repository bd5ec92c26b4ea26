package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/huddleapp/huddle/internal/service"
	"github.com/huddleapp/huddle/internal/state"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection. Its selection state
// (current user, active conversation) lives in the state.Session.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	session  *state.Session
	messages *service.MessageService

	send chan []byte
	done chan struct{}
}

func NewClient(hub *Hub, conn *websocket.Conn, session *state.Session, messages *service.MessageService) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		session:  session,
		messages: messages,
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

func (c *Client) UserID() uuid.UUID {
	return c.session.UserID()
}

// IsViewing reports whether the conversation is this client's active one.
func (c *Client) IsViewing(conversationID uuid.UUID) bool {
	active := c.session.Active()
	return active != nil && active.ID == conversationID
}

// ReadPump reads events from the WebSocket and routes them.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client %s disconnected", c.UserID())
			} else {
				log.Printf("ws: read error from %s: %v", c.UserID(), err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes events from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.UserID(), err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.UserID(), err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// SendDefaultConversation pushes the start-up selection to the client.
func (c *Client) SendDefaultConversation(ctx context.Context) {
	conv := c.session.SelectDefault(ctx)
	if conv == nil {
		return
	}
	c.sendActiveConversation(ctx)
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	ctx := context.Background()

	switch event.Type {
	case EventTypeConversationSelect:
		var p ConversationSelectPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid conversation.select payload")
			return
		}
		// An unknown target keeps the previous selection; the client is
		// simply not told of a change.
		if c.session.SetActive(ctx, p.Kind, p.ID) {
			c.sendActiveConversation(ctx)
		}

	case EventTypeMessageSend:
		var p MessageSendPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid message.send payload")
			return
		}
		active := c.session.Active()
		if active == nil {
			c.sendError("NO_CONVERSATION", "no active conversation")
			return
		}
		_, err := c.messages.Send(ctx, c.UserID(), active.ID, service.SendMessageInput{
			Content:    p.Content,
			Attachment: p.Attachment,
		})
		if err != nil {
			c.sendError("SEND_FAILED", "message could not be sent")
		}

	case EventTypeTypingStart, EventTypeTypingStop:
		if event.ConversationID == nil {
			c.sendError("INVALID_PAYLOAD", "conversation_id required for typing events")
			return
		}
		c.hub.HandleTyping(c, event)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendActiveConversation(ctx context.Context) {
	active := c.session.Active()
	if active == nil {
		return
	}
	messages, err := c.session.Messages(ctx)
	if err != nil {
		log.Printf("ws: loading messages for %s: %v", c.UserID(), err)
		messages = nil
	}
	evt, err := NewEvent(EventTypeConversationActive, &active.ID, ConversationActivePayload{
		Conversation: active,
		Messages:     messages,
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
