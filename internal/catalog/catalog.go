package catalog

import (
	"errors"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// Catalog holds the static menu reference data: products and pickup-time
// slots. Loaded once at startup and read-only afterwards.
type Catalog struct {
	products    []models.Product
	byID        map[string]models.Product
	pickupTimes []string
}

// New creates a catalog from the given product list and pickup-time slots.
func New(products []models.Product, pickupTimes []string) *Catalog {
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{
		products:    products,
		byID:        byID,
		pickupTimes: pickupTimes,
	}
}

// Default creates a catalog seeded with the house menu.
func Default() *Catalog {
	return New(defaultProducts, defaultPickupTimes)
}

// Products returns all menu products in display order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *Catalog) Get(id string) (*models.Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &p, nil
}

// PickupTimes returns the selectable pickup-time slots.
func (c *Catalog) PickupTimes() []string {
	out := make([]string, len(c.pickupTimes))
	copy(out, c.pickupTimes)
	return out
}

// ValidPickupTime reports whether s is one of the configured slots.
// The empty string is valid: selecting a pickup time is optional.
func (c *Catalog) ValidPickupTime(s string) bool {
	if s == "" {
		return true
	}
	for _, t := range c.pickupTimes {
		if t == s {
			return true
		}
	}
	return false
}

var defaultProducts = []models.Product{
	{
		ID:          "taco-asada",
		Name:        "Tacos de Carne Asada",
		Description: "Diezmillo premium marinado, asado al carbón, servido con guacamole y salsa martajada.",
		Price:       45,
		Image:       "/images/taco-asada.jpg",
		Category:    models.CategoryTacos,
	},
	{
		ID:          "taco-pastor",
		Name:        "Tacos al Pastor",
		Description: "Cerdo en adobo tradicional, piña asada, cilantro y cebolla picada.",
		Price:       35,
		Image:       "/images/taco-pastor.jpg",
		Category:    models.CategoryTacos,
	},
	{
		ID:          "gringa-pastor",
		Name:        "Gringa de Pastor",
		Description: "Tortilla de harina gigante, queso fundido y carne al pastor.",
		Price:       65,
		Image:       "/images/gringa.jpg",
		Category:    models.CategoryFeatured,
	},
	{
		ID:          "coca-cola",
		Name:        "Coca-Cola de Vidrio",
		Description: "La clásica, bien fría.",
		Price:       30,
		Image:       "/images/coca-cola.jpg",
		Category:    models.CategoryBeverages,
	},
	{
		ID:           "horchata",
		Name:         "Agua de Horchata",
		Description:  "Receta de la casa, cremosa y con canela.",
		Price:        25,
		Image:        "/images/horchata.jpg",
		Category:     models.CategoryBeverages,
		IsVegetarian: true,
	},
	{
		ID:           "guacamole-extra",
		Name:         "Guacamole Extra",
		Description:  "Aguacate fresco machacado con cilantro, cebolla y limón.",
		Price:        20,
		Image:        "/images/guacamole.jpg",
		Category:     models.CategoryExtras,
		IsVegetarian: true,
	},
	{
		ID:           "salsa-habanero",
		Name:         "Salsa de Habanero",
		Description:  "Para los valientes. Picante extremo con notas cítricas.",
		Price:        15,
		Image:        "/images/salsa-habanero.jpg",
		Category:     models.CategoryExtras,
		IsVegetarian: true,
	},
}

var defaultPickupTimes = []string{
	"10:00 AM", "10:30 AM",
	"11:00 AM", "11:30 AM",
	"12:00 PM", "12:30 PM",
	"1:00 PM", "1:30 PM",
	"2:00 PM", "2:30 PM",
	"3:00 PM", "3:30 PM",
	"4:00 PM", "4:30 PM",
	"5:00 PM", "5:30 PM",
	"6:00 PM", "6:30 PM",
	"7:00 PM",
}
