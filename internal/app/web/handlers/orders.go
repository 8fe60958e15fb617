package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bakery-system/internal/domain"
	"bakery-system/internal/repository"
)

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var f repository.OrderFilter
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid from date"})
			return
		}
		f.From = t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid to date"})
			return
		}
		f.To = t
	}
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))

	orders, err := h.svc.ListOrders(r.Context(), f)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, order)
}

func (h *Handler) ChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req domain.ChangeStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.svc.ChangeOrderStatus(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, order)
}
