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

type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.attendanceService.ClockIn(userID); err != nil {
		h.writeTransitionError(w, "clock in", err)
		return
	}

	writeJSON(w, http.StatusOK, h.attendanceService.Status(userID))
}

func (h *AttendanceHandler) StartBreak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.attendanceService.StartBreak(userID); err != nil {
		h.writeTransitionError(w, "start break", err)
		return
	}

	writeJSON(w, http.StatusOK, h.attendanceService.Status(userID))
}

func (h *AttendanceHandler) EndBreak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.attendanceService.EndBreak(userID); err != nil {
		h.writeTransitionError(w, "end break", err)
		return
	}

	writeJSON(w, http.StatusOK, h.attendanceService.Status(userID))
}

func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entry, err := h.attendanceService.ClockOut(r.Context(), userID)
	if err != nil {
		h.writeTransitionError(w, "clock out", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *AttendanceHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	writeJSON(w, http.StatusOK, h.attendanceService.Status(userID))
}

func (h *AttendanceHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.attendanceService.Log(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR attendance log: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *AttendanceHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID")
		return
	}

	var input service.UpdateEntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	entry, err := h.attendanceService.UpdateEntry(r.Context(), userID, entryID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Attendance entry not found")
		case errors.Is(err, service.ErrNotEntryOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the owner can edit an entry")
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusBadRequest, "INVALID_RANGE", "Clock-out must not be before clock-in")
		default:
			log.Printf("ERROR update attendance entry: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *AttendanceHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid entry ID")
		return
	}

	if err := h.attendanceService.DeleteEntry(r.Context(), userID, entryID); err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Attendance entry not found")
		case errors.Is(err, service.ErrNotEntryOwner):
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the owner can delete an entry")
		default:
			log.Printf("ERROR delete attendance entry: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AttendanceHandler) writeTransitionError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, service.ErrInvalidTransition) {
		writeError(w, http.StatusConflict, "INVALID_TRANSITION", "Action not allowed in the current state")
		return
	}
	log.Printf("ERROR %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
}
