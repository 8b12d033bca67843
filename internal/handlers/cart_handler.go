package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tacosmaster/taqueria-api/internal/cart"
	"github.com/tacosmaster/taqueria-api/internal/catalog"
	"github.com/tacosmaster/taqueria-api/internal/models"
)

// CartHandler exposes the session cart over HTTP.
type CartHandler struct {
	sessions *Sessions
	catalog  *catalog.Catalog
	log      *slog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(sessions *Sessions, cat *catalog.Catalog, log *slog.Logger) *CartHandler {
	return &CartHandler{sessions: sessions, catalog: cat, log: log}
}

// cartView is the cart state returned to the storefront after every
// cart operation.
type cartView struct {
	Items           []models.CartLine `json:"items"`
	TotalItems      int               `json:"totalItems"`
	Subtotal        float64           `json:"subtotal"`
	IsOpen          bool              `json:"isOpen"`
	SuggestBeverage bool              `json:"suggestBeverage"`
}

func viewOf(c *cart.Cart) cartView {
	return cartView{
		Items:           c.Lines(),
		TotalItems:      c.TotalItems(),
		Subtotal:        c.Subtotal(),
		IsOpen:          c.IsOpen(),
		SuggestBeverage: !c.ContainsCategory(models.CategoryBeverages),
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, r, func(c *cart.Cart) {})
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.respondWithCart(w, r, func(c *cart.Cart) {
		c.AddItem(*product)
	})
}

// UpdateItem handles PUT /api/cart/items/{productID}. A quantity of
// zero or less removes the line; unknown product ids are a no-op.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	productID := chi.URLParam(r, "productID")
	h.respondWithCart(w, r, func(c *cart.Cart) {
		c.SetQuantity(productID, req.Quantity)
	})
}

// RemoveItem handles DELETE /api/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	h.respondWithCart(w, r, func(c *cart.Cart) {
		c.RemoveItem(productID)
	})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, r, func(c *cart.Cart) {
		c.Clear()
	})
}

// OpenCart handles POST /api/cart/open
func (h *CartHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, r, func(c *cart.Cart) {
		c.Open()
	})
}

// CloseCart handles POST /api/cart/close
func (h *CartHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, r, func(c *cart.Cart) {
		c.Close()
	})
}

func (h *CartHandler) respondWithCart(w http.ResponseWriter, r *http.Request, op func(c *cart.Cart)) {
	var view cartView
	h.sessions.Do(sessionID(w, r), func(c *cart.Cart) {
		op(c)
		view = viewOf(c)
	})
	WriteJSON(w, http.StatusOK, view, h.log)
}
