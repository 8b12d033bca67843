package models

// Category groups products on the storefront menu
type Category string

const (
	CategoryFeatured  Category = "featured"
	CategoryTacos     Category = "tacos"
	CategoryBeverages Category = "beverages"
	CategoryExtras    Category = "extras"
)

// Product represents a menu item available for order.
// Reference data only, loaded once at startup and never mutated.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Image        string   `json:"image"`
	Category     Category `json:"category"`
	IsVegetarian bool     `json:"isVegetarian,omitempty"`
}

// CartLine pairs a product with the quantity selected by the customer.
// Quantity is always >= 1; a line that would reach zero is removed instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity at the current catalog price.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
