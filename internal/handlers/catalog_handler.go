package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tacosmaster/taqueria-api/internal/catalog"
)

// CatalogHandler serves the static menu reference data.
type CatalogHandler struct {
	catalog *catalog.Catalog
	log     *slog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(cat *catalog.Catalog, log *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, log: log}
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"products": h.catalog.Products(),
	}, h.log)
}

// GetProduct handles GET /api/products/{productID}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	product, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			WriteError(w, http.StatusNotFound, "Product not found", h.log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.log)
}

// ListPickupTimes handles GET /api/pickup-times
func (h *CatalogHandler) ListPickupTimes(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"pickupTimes": h.catalog.PickupTimes(),
	}, h.log)
}
