package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bakery-system/internal/app/web/service"
	"bakery-system/internal/common/logger"
	"bakery-system/internal/repository"
)

type Handler struct {
	svc *service.Service
	lg  *logger.Logger
}

func New(svc *service.Service, lg *logger.Logger) *Handler {
	return &Handler{svc: svc, lg: lg}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors onto status codes: validation failures
// become 400, missing rows 404, everything else 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
	case errors.Is(err, repository.ErrNotFound):
		h.respondJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		h.lg.Error("request_failed", err, nil)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
