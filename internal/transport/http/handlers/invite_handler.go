package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/service"
	"github.com/huddleapp/huddle/internal/transport/http/middleware"
	"github.com/huddleapp/huddle/pkg/validator"
)

type InviteHandler struct {
	inviteService *service.InviteService
	authService   *service.AuthService
}

func NewInviteHandler(inviteService *service.InviteService, authService *service.AuthService) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		authService:   authService,
	}
}

func (h *InviteHandler) Issue(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateInvite(body.Email); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	inv, err := h.inviteService.Issue(r.Context(), userID, body.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email already belongs to a user")
		case errors.Is(err, service.ErrInvitePending):
			writeError(w, http.StatusConflict, "INVITE_PENDING", "Email already has a pending invitation")
		default:
			log.Printf("ERROR issue invite: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	// The join link is always returned; mail delivery is best-effort.
	writeJSON(w, http.StatusCreated, map[string]any{
		"invite":    inv,
		"join_link": h.inviteService.JoinLink(inv),
	})
}

// Verify is the unauthenticated lookup behind the join page.
func (h *InviteHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TOKEN", "Token is required")
		return
	}

	inv, err := h.inviteService.Verify(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invitation not found or expired")
		} else {
			log.Printf("ERROR verify invite: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	// Only the email is needed to render the join form.
	writeJSON(w, http.StatusOK, map[string]string{"email": inv.Email})
}

func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "MISSING_TOKEN", "Token is required")
		return
	}

	var input service.AcceptInviteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateAcceptInvite(input.Name, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.inviteService.Accept(r.Context(), token, input)
	if err != nil {
		if errors.Is(err, service.ErrInviteNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Invitation not found or expired")
		} else {
			log.Printf("ERROR accept invite: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	accessToken, err := h.authService.GenerateToken(user.ID)
	if err != nil {
		log.Printf("ERROR accept invite token: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, service.AuthResponse{User: user, AccessToken: accessToken})
}

func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	invites, err := h.inviteService.List(r.Context())
	if err != nil {
		log.Printf("ERROR list invites: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, invites)
}

func (h *InviteHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	inviteID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid invite ID")
		return
	}

	if err := h.inviteService.Revoke(r.Context(), inviteID); err != nil {
		log.Printf("ERROR revoke invite: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
