package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/domain"
	"github.com/huddleapp/huddle/internal/service"
	"github.com/huddleapp/huddle/internal/transport/http/middleware"
)

type SummaryHandler struct {
	directoryService *service.DirectoryService
	messageService   *service.MessageService
	summaryService   *service.SummaryService
}

func NewSummaryHandler(directoryService *service.DirectoryService, messageService *service.MessageService, summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		directoryService: directoryService,
		messageService:   messageService,
		summaryService:   summaryService,
	}
}

// Summarize condenses the recent history of one conversation.
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid conversation ID")
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = domain.ConversationChannel
	}

	conv, err := h.directoryService.Resolve(r.Context(), userID, kind, conversationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChannelNotFound), errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
		default:
			log.Printf("ERROR summarize: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	messages, err := h.messageService.List(r.Context(), userID, conv.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotConversationMember):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Not a member of this conversation")
		case errors.Is(err, service.ErrConversationNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
		default:
			log.Printf("ERROR summarize: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	texts := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		texts = append(texts, msg.AuthorName+": "+msg.Content)
	}

	summary, err := h.summaryService.Summarize(r.Context(), conv.DisplayName, texts)
	if err != nil {
		if errors.Is(err, service.ErrSummaryUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Summaries are not available right now")
			return
		}
		log.Printf("ERROR summarize: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}
