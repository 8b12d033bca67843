package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tacosmaster/taqueria-api/internal/catalog"
	"github.com/tacosmaster/taqueria-api/internal/models"
)

func newCatalogRouter() *chi.Mux {
	h := NewCatalogHandler(catalog.Default(), testLogger())
	r := chi.NewRouter()
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{productID}", h.GetProduct)
	r.Get("/api/pickup-times", h.ListPickupTimes)
	return r
}

func TestListProducts(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Products []models.Product `json:"products"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Products) != 7 {
		t.Errorf("expected 7 products, got %d", len(resp.Products))
	}
}

func TestGetProduct(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/horchata", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var p models.Product
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if p.Name != "Agua de Horchata" || p.Price != 25 {
		t.Errorf("unexpected product: %+v", p)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/sushi", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestListPickupTimes(t *testing.T) {
	r := newCatalogRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pickup-times", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		PickupTimes []string `json:"pickupTimes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.PickupTimes) != 19 {
		t.Fatalf("expected 19 pickup slots, got %d", len(resp.PickupTimes))
	}
	if resp.PickupTimes[0] != "10:00 AM" || resp.PickupTimes[18] != "7:00 PM" {
		t.Errorf("unexpected slot boundaries: %s .. %s", resp.PickupTimes[0], resp.PickupTimes[18])
	}
}
