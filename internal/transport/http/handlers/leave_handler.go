package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/service"
	"github.com/huddleapp/huddle/internal/transport/http/middleware"
)

type LeaveHandler struct {
	leaveService *service.LeaveService
}

func NewLeaveHandler(leaveService *service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

func (h *LeaveHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.SubmitLeaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	request, err := h.leaveService.Submit(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDateRange) {
			writeError(w, http.StatusBadRequest, "INVALID_RANGE", "End date must not be before start date")
			return
		}
		log.Printf("ERROR submit leave: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *LeaveHandler) Decide(w http.ResponseWriter, r *http.Request) {
	approverID := middleware.GetUserID(r.Context())
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid request ID")
		return
	}

	var input struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	request, err := h.leaveService.Decide(r.Context(), approverID, requestID, input.Approve, input.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLeaveNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Leave request not found")
		case errors.Is(err, service.ErrNotAdmin):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only admins can decide leave requests")
		case errors.Is(err, service.ErrAlreadyDecided):
			writeError(w, http.StatusConflict, "ALREADY_DECIDED", "Leave request has already been decided")
		default:
			log.Printf("ERROR decide leave: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, request)
}

func (h *LeaveHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	requests, err := h.leaveService.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list leave: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (h *LeaveHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	requests, err := h.leaveService.ListPending(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only admins can view pending requests")
			return
		}
		log.Printf("ERROR list pending leave: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, requests)
}
