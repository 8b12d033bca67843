// Package cart implements the in-memory shopping cart for one browsing
// session. The cart is an owned, constructor-injected value: it never
// touches the network or the durable store, and it is not safe for
// concurrent use on its own (callers synchronize access per session).
package cart

import "github.com/tacosmaster/taqueria-api/internal/models"

// Cart holds the customer's transient selections plus the visibility
// state of the cart panel. Lines keep insertion order: one line per
// product id, quantity always >= 1.
type Cart struct {
	lines  []models.CartLine
	isOpen bool
}

// New creates an empty, closed cart.
func New() *Cart {
	return &Cart{}
}

// Open marks the cart panel visible.
func (c *Cart) Open() { c.isOpen = true }

// Close marks the cart panel hidden.
func (c *Cart) Close() { c.isOpen = false }

// IsOpen reports whether the cart panel is visible.
func (c *Cart) IsOpen() bool { return c.isOpen }

// AddItem adds one unit of the product. An existing line is incremented,
// otherwise a new line with quantity 1 is appended. No upper bound.
func (c *Cart) AddItem(product models.Product) {
	for i := range c.lines {
		if c.lines[i].Product.ID == product.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{Product: product, Quantity: 1})
}

// SetQuantity replaces the quantity of the product's line. A quantity
// of zero or less removes the line. Unknown product ids are a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes the product's line if present. Idempotent.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called after a successful submission.
func (c *Cart) Clear() {
	c.lines = nil
}

// QuantityOf returns the quantity for the product, or 0 if absent.
func (c *Cart) QuantityOf(productID string) int {
	for _, l := range c.lines {
		if l.Product.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// TotalItems returns the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// Subtotal returns the running total at current catalog prices. This is
// the pre-submission figure shown to the customer; prices are frozen
// only at submission time.
func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// ContainsCategory reports whether any line belongs to the category.
// Drives the beverage upsell prompt.
func (c *Cart) ContainsCategory(category models.Category) bool {
	for _, l := range c.lines {
		if l.Product.Category == category {
			return true
		}
	}
	return false
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
