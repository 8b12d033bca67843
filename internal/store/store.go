// Package store is the durable-store boundary: order persistence plus a
// change stream over the orders table.
package store

import (
	"context"
	"errors"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrStatusConflict means the guarded status update matched no row:
	// another writer changed the status first.
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderStore defines the persistence operations for orders and their
// line items. Implementations publish a change event after every
// successful write.
type OrderStore interface {
	// CreateOrder persists the order and its line items atomically.
	// Either everything is written or nothing is.
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error

	// ListOrders returns all orders, newest first.
	ListOrders(ctx context.Context) ([]models.Order, error)

	// ListItems returns all line items across all orders.
	ListItems(ctx context.Context) ([]models.OrderItem, error)

	// GetOrder returns the order with the given id.
	GetOrder(ctx context.Context, id string) (*models.Order, error)

	// UpdateStatus performs a targeted update of the status field only.
	// When from is non-empty the write is guarded: it applies only if
	// the stored status still equals from, otherwise ErrStatusConflict.
	// When from is empty the write applies to any non-terminal status.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error)

	// DeleteOrder removes the order and its line items.
	DeleteOrder(ctx context.Context, id string) error
}
