package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

// Memory is an in-memory OrderStore. It backs tests and DSN-less
// development runs, with the same all-or-nothing write contract as the
// MySQL implementation.
type Memory struct {
	hub *Hub

	mu     sync.RWMutex
	orders map[string]models.Order
	items  map[string][]models.OrderItem
}

// NewMemory creates an empty in-memory store publishing to hub.
func NewMemory(hub *Hub) *Memory {
	return &Memory{
		hub:    hub,
		orders: make(map[string]models.Order),
		items:  make(map[string][]models.OrderItem),
	}
}

func (m *Memory) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}
	for i := range items {
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
	}

	m.mu.Lock()
	m.orders[order.ID] = *order
	m.items[order.ID] = append([]models.OrderItem(nil), items...)
	m.mu.Unlock()

	m.hub.Publish(Event{Type: EventInserted, Order: *order})
	return nil
}

func (m *Memory) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.RLock()
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	m.mu.RUnlock()

	// Newest first, stable.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) ListItems(ctx context.Context) ([]models.OrderItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.OrderItem
	for _, items := range m.items {
		out = append(out, items...)
	}
	return out, nil
}

func (m *Memory) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return &o, nil
}

func (m *Memory) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	o, ok := m.orders[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrOrderNotFound
	}

	if from != "" && o.Status != from {
		m.mu.Unlock()
		return nil, ErrStatusConflict
	}
	if from == "" && o.Status.Terminal() {
		m.mu.Unlock()
		return nil, ErrStatusConflict
	}

	o.Status = to
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	m.mu.Unlock()

	m.hub.Publish(Event{Type: EventUpdated, Order: o})
	return &o, nil
}

func (m *Memory) DeleteOrder(ctx context.Context, id string) error {
	m.mu.Lock()
	o, ok := m.orders[id]
	if !ok {
		m.mu.Unlock()
		return ErrOrderNotFound
	}
	delete(m.orders, id)
	delete(m.items, id)
	m.mu.Unlock()

	m.hub.Publish(Event{Type: EventDeleted, Order: o})
	return nil
}
