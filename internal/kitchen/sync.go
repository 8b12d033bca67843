// Package kitchen maintains the live order board for the staff
// dashboard: a local mirror of all orders kept consistent with the
// durable store through an initial bulk load plus the change stream.
package kitchen

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/tacosmaster/taqueria-api/internal/models"
	"github.com/tacosmaster/taqueria-api/internal/store"
)

// Synchronizer mirrors the orders table (with joined line items) in
// memory, newest first. Multiple staff screens read the same mirror.
type Synchronizer struct {
	store store.OrderStore
	hub   *store.Hub
	log   *slog.Logger

	mu        sync.RWMutex
	orders    []models.OrderWithItems
	loaded    bool
	lastCount int

	onNewOrders func(delta int)

	sub  *store.Subscription
	once sync.Once
}

// New creates a synchronizer reading from st and listening on hub.
func New(st store.OrderStore, hub *store.Hub, log *slog.Logger) *Synchronizer {
	return &Synchronizer{store: st, hub: hub, log: log}
}

// OnNewOrders registers the one-shot alert fired when the order count
// rises after the first successful load. Set before Start.
func (s *Synchronizer) OnNewOrders(fn func(delta int)) {
	s.onNewOrders = fn
}

// Start performs the initial load and begins consuming the change
// stream. A failed initial load degrades to an empty board with manual
// refresh still available; it never takes the view down.
func (s *Synchronizer) Start(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.log.Warn("initial order load failed, serving empty board", "error", err)
	}

	s.sub = s.hub.Subscribe()
	go s.run(ctx)
}

// Stop releases the change-stream subscription.
func (s *Synchronizer) Stop() {
	s.once.Do(func() {
		if s.sub != nil {
			s.sub.Close()
		}
	})
}

func (s *Synchronizer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case ev, ok := <-s.sub.C:
			if !ok {
				return
			}
			s.handleEvent(ctx, ev)
		}
	}
}

func (s *Synchronizer) handleEvent(ctx context.Context, ev store.Event) {
	switch ev.Type {
	case store.EventInserted:
		// A new order brings line items we have never seen; refetching
		// everything is simpler and correctness-preserving.
		if err := s.Refresh(ctx); err != nil {
			s.log.Error("refetch after insert failed", "order_id", ev.Order.ID, "error", err)
		}
	case store.EventUpdated:
		s.patch(ev.Order)
	case store.EventDeleted:
		s.remove(ev.Order.ID)
	default:
		s.log.Warn("ignoring unknown stream event", "type", ev.Type)
	}
}

// Refresh bulk-fetches orders and line items, joins them by order id
// and replaces the local mirror. Also invoked for manual refresh; both
// paths are idempotent replacements from the same source of truth, so
// racing invocations converge.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return err
	}
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return err
	}

	byOrder := make(map[string][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	joined := make([]models.OrderWithItems, 0, len(orders))
	for _, o := range orders {
		joined = append(joined, models.OrderWithItems{Order: o, Items: byOrder[o.ID]})
	}

	var delta int
	s.mu.Lock()
	if s.loaded && len(joined) > s.lastCount {
		delta = len(joined) - s.lastCount
	}
	s.orders = joined
	s.lastCount = len(joined)
	s.loaded = true
	fn := s.onNewOrders
	s.mu.Unlock()

	// The baseline load is not "new orders": only later increases alert.
	if delta > 0 && fn != nil {
		fn(delta)
	}
	return nil
}

// patch applies an update event to the matching local order. Line
// items are immutable post-creation and stay untouched. Unknown ids
// are a no-op: the next insert refetch or manual refresh converges.
// Re-applying an echo of an optimistic local update is a no-op by
// value equality.
func (s *Synchronizer) patch(updated models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == updated.ID {
			if reflect.DeepEqual(s.orders[i].Order, updated) {
				return
			}
			s.orders[i].Order = updated
			return
		}
	}
	s.log.Debug("update event for unknown order", "order_id", updated.ID)
}

func (s *Synchronizer) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			s.lastCount = len(s.orders)
			return
		}
	}
}

// ApplyStatus applies a status change locally right after a successful
// write acknowledgment, so the board does not lag behind the stream
// echo. The echo itself re-applies the same value and causes no
// visible change.
func (s *Synchronizer) ApplyStatus(id string, status models.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			return
		}
	}
}

// Orders returns a snapshot copy of the board, newest first.
func (s *Synchronizer) Orders() []models.OrderWithItems {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.OrderWithItems, len(s.orders))
	copy(out, s.orders)
	return out
}

// Count returns the number of mirrored orders.
func (s *Synchronizer) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}
