package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tacosmaster/taqueria-api/internal/kitchen"
	"github.com/tacosmaster/taqueria-api/internal/models"
	"github.com/tacosmaster/taqueria-api/internal/service"
	"github.com/tacosmaster/taqueria-api/internal/store"
)

// KitchenHandler serves the staff dashboard: the live order board and
// the status transitions.
type KitchenHandler struct {
	sync   *kitchen.Synchronizer
	orders *service.OrderService
	hub    *store.Hub
	log    *slog.Logger
}

// NewKitchenHandler creates a new kitchen handler.
func NewKitchenHandler(sync *kitchen.Synchronizer, orders *service.OrderService, hub *store.Hub, log *slog.Logger) *KitchenHandler {
	return &KitchenHandler{sync: sync, orders: orders, hub: hub, log: log}
}

// ListOrders handles GET /api/kitchen/orders with an optional ?status=
// filter. Served from the synchronizer's local mirror, not the store.
func (h *KitchenHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.sync.Orders()

	if filter := r.URL.Query().Get("status"); filter != "" {
		status := models.OrderStatus(filter)
		if !status.Valid() {
			WriteError(w, http.StatusBadRequest, "Unknown status filter", h.log)
			return
		}
		filtered := make([]models.OrderWithItems, 0, len(orders))
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	active := 0
	for _, o := range h.sync.Orders() {
		if !o.Status.Terminal() {
			active++
		}
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"orders":      orders,
		"activeCount": active,
	}, h.log)
}

// Advance handles POST /api/kitchen/orders/{orderID}/advance.
func (h *KitchenHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")

	updated, err := h.orders.Advance(r.Context(), id)
	if err != nil {
		h.writeStatusError(w, r, id, err)
		return
	}

	// Optimistic local patch so the board does not wait for the stream
	// echo; the echo is a value-equal no-op.
	h.sync.ApplyStatus(updated.ID, updated.Status)

	WriteJSON(w, http.StatusOK, map[string]any{"order": updated}, h.log)
}

// Cancel handles POST /api/kitchen/orders/{orderID}/cancel.
func (h *KitchenHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")

	updated, err := h.orders.Cancel(r.Context(), id)
	if err != nil {
		h.writeStatusError(w, r, id, err)
		return
	}

	h.sync.ApplyStatus(updated.ID, updated.Status)

	WriteJSON(w, http.StatusOK, map[string]any{"order": updated}, h.log)
}

func (h *KitchenHandler) writeStatusError(w http.ResponseWriter, r *http.Request, id string, err error) {
	h.log.Error("status transition failed", "order_id", id, "error", err)

	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", h.log)
	case errors.Is(err, service.ErrNoNextStatus), errors.Is(err, service.ErrAlreadyFinalized):
		WriteError(w, http.StatusConflict, "Order is already in a final state", h.log)
	case errors.Is(err, store.ErrStatusConflict):
		// Another device changed the status first; reconcile the board
		// from the authoritative store before reporting.
		if rerr := h.sync.Refresh(r.Context()); rerr != nil {
			h.log.Error("board reconcile failed", "error", rerr)
		}
		WriteError(w, http.StatusConflict, "Order status changed on another device", h.log)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}

// Refresh handles POST /api/kitchen/refresh, the manual fallback for
// when the live stream is lost.
func (h *KitchenHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Refresh(r.Context()); err != nil {
		h.log.Error("manual refresh failed", "error", err)
		WriteError(w, http.StatusBadGateway, "Could not refresh orders", h.log)
		return
	}
	h.ListOrders(w, r)
}

// Stream handles GET /api/kitchen/orders/stream: a server-sent-events
// feed of order change events for the staff UI.
func (h *KitchenHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "Streaming unsupported", h.log)
		return
	}

	sub := h.hub.Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-sub.C:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Error("failed to encode stream event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}
