package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tacosmaster/taqueria-api/internal/cart"
	"github.com/tacosmaster/taqueria-api/internal/models"
	"github.com/tacosmaster/taqueria-api/internal/notify"
	"github.com/tacosmaster/taqueria-api/internal/service"
)

// CheckoutHandler turns the session cart plus customer details into a
// placed order.
type CheckoutHandler struct {
	sessions       *Sessions
	orders         *service.OrderService
	whatsappNumber string
	log            *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(sessions *Sessions, orders *service.OrderService, whatsappNumber string, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sessions:       sessions,
		orders:         orders,
		whatsappNumber: whatsappNumber,
		log:            log,
	}
}

// Checkout handles POST /api/checkout.
//
// Side effects are strictly ordered: persist, then clear the cart and
// close the panel, then fire the notification side channel. On any
// persistence or validation failure the cart stays intact so the
// customer can retry without re-entering everything.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(w, r)

	// A second tap while a submit is in flight is a no-op.
	if !h.sessions.BeginSubmit(sid) {
		WriteError(w, http.StatusConflict, "Order submission already in progress", h.log)
		return
	}
	defer h.sessions.EndSubmit(sid)

	var details models.CheckoutDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		h.log.Error("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	var lines []models.CartLine
	h.sessions.Do(sid, func(c *cart.Cart) {
		lines = c.Lines()
	})

	order, err := h.orders.Submit(r.Context(), lines, details)
	if err != nil {
		h.log.Error("failed to submit order", "error", err)

		var fe service.FieldErrors
		switch {
		case errors.As(err, &fe):
			WriteJSON(w, http.StatusBadRequest, map[string]any{
				"error":  "Checkout details are invalid",
				"fields": fe,
			}, h.log)
		case errors.Is(err, service.ErrEmptyOrder):
			WriteError(w, http.StatusBadRequest, "The cart is empty", h.log)
		default:
			// The order was not placed; the cart is left untouched for
			// a user-initiated retry.
			WriteError(w, http.StatusBadGateway, "The order could not be placed, please try again", h.log)
		}
		return
	}

	h.sessions.Do(sid, func(c *cart.Cart) {
		c.Clear()
		c.Close()
	})

	h.orders.Notify(order)

	WriteJSON(w, http.StatusCreated, map[string]any{
		"order":       order,
		"whatsappUrl": notify.WhatsAppLink(h.whatsappNumber, *order),
	}, h.log)
}
