package store

import (
	"context"
	"testing"
	"time"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

func newTestOrder(id string, created time.Time) *models.Order {
	return &models.Order{
		ID:            id,
		CustomerName:  "Ana",
		CustomerPhone: "6441234567",
		Mode:          models.ModePickup,
		Subtotal:      45,
		Total:         45,
		Status:        models.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestMemory_CreateOrder(t *testing.T) {
	hub := NewHub()
	m := NewMemory(hub)
	ctx := context.Background()

	order := newTestOrder("o1", time.Time{})
	items := []models.OrderItem{
		{ID: "i1", OrderID: "o1", ProductName: "Tacos de Carne Asada", ProductPrice: 45, Quantity: 1, Subtotal: 45},
	}

	if err := m.CreateOrder(ctx, order, items); err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}
	if order.CreatedAt.IsZero() {
		t.Error("CreateOrder() did not set CreatedAt")
	}

	got, err := m.GetOrder(ctx, "o1")
	if err != nil {
		t.Fatalf("GetOrder() error: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}

	all, err := m.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error: %v", err)
	}
	if len(all) != 1 || all[0].ProductName != "Tacos de Carne Asada" {
		t.Errorf("ListItems() = %+v, want the single snapshot item", all)
	}
}

func TestMemory_ListOrders_NewestFirst(t *testing.T) {
	hub := NewHub()
	m := NewMemory(hub)
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		o := newTestOrder(id, base.Add(time.Duration(i)*time.Minute))
		if err := m.CreateOrder(ctx, o, nil); err != nil {
			t.Fatalf("CreateOrder(%s) error: %v", id, err)
		}
	}

	orders, err := m.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders() error: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("ListOrders() returned %d orders, want 3", len(orders))
	}
	for i, want := range []string{"new", "mid", "old"} {
		if orders[i].ID != want {
			t.Errorf("orders[%d].ID = %q, want %q", i, orders[i].ID, want)
		}
	}
}

func TestMemory_UpdateStatus_Guard(t *testing.T) {
	hub := NewHub()
	m := NewMemory(hub)
	ctx := context.Background()

	if err := m.CreateOrder(ctx, newTestOrder("o1", time.Now()), nil); err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}

	updated, err := m.UpdateStatus(ctx, "o1", models.StatusPending, models.StatusPreparing)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.Status != models.StatusPreparing {
		t.Errorf("Status = %q, want preparing", updated.Status)
	}

	// Stale expected status: another device already advanced.
	if _, err := m.UpdateStatus(ctx, "o1", models.StatusPending, models.StatusPreparing); err != ErrStatusConflict {
		t.Errorf("stale guard error = %v, want ErrStatusConflict", err)
	}

	if _, err := m.UpdateStatus(ctx, "missing", models.StatusPending, models.StatusPreparing); err != ErrOrderNotFound {
		t.Errorf("unknown id error = %v, want ErrOrderNotFound", err)
	}
}

func TestMemory_UpdateStatus_UnguardedCancel(t *testing.T) {
	hub := NewHub()
	m := NewMemory(hub)
	ctx := context.Background()

	if err := m.CreateOrder(ctx, newTestOrder("o1", time.Now()), nil); err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}

	// Empty "from" applies to any non-terminal status.
	if _, err := m.UpdateStatus(ctx, "o1", "", models.StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus(cancel) error: %v", err)
	}

	// But never to a terminal one.
	if _, err := m.UpdateStatus(ctx, "o1", "", models.StatusCancelled); err != ErrStatusConflict {
		t.Errorf("cancel of terminal order error = %v, want ErrStatusConflict", err)
	}
}

func TestMemory_DeleteOrder(t *testing.T) {
	hub := NewHub()
	m := NewMemory(hub)
	ctx := context.Background()

	items := []models.OrderItem{{ID: "i1", OrderID: "o1", ProductName: "Gringa de Pastor", ProductPrice: 65, Quantity: 1, Subtotal: 65}}
	if err := m.CreateOrder(ctx, newTestOrder("o1", time.Now()), items); err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}

	if err := m.DeleteOrder(ctx, "o1"); err != nil {
		t.Fatalf("DeleteOrder() error: %v", err)
	}
	if _, err := m.GetOrder(ctx, "o1"); err != ErrOrderNotFound {
		t.Errorf("GetOrder() after delete error = %v, want ErrOrderNotFound", err)
	}

	// Line items never outlive their order.
	remaining, _ := m.ListItems(ctx)
	if len(remaining) != 0 {
		t.Errorf("ListItems() after delete = %d items, want 0", len(remaining))
	}

	if err := m.DeleteOrder(ctx, "o1"); err != ErrOrderNotFound {
		t.Errorf("second DeleteOrder() error = %v, want ErrOrderNotFound", err)
	}
}

func TestMemory_PublishesEvents(t *testing.T) {
	hub := NewHub()
	m := NewMemory(hub)
	ctx := context.Background()

	sub := hub.Subscribe()
	defer sub.Close()

	if err := m.CreateOrder(ctx, newTestOrder("o1", time.Now()), nil); err != nil {
		t.Fatalf("CreateOrder() error: %v", err)
	}
	if _, err := m.UpdateStatus(ctx, "o1", models.StatusPending, models.StatusPreparing); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if err := m.DeleteOrder(ctx, "o1"); err != nil {
		t.Fatalf("DeleteOrder() error: %v", err)
	}

	want := []EventType{EventInserted, EventUpdated, EventDeleted}
	for i, wantType := range want {
		select {
		case ev := <-sub.C:
			if ev.Type != wantType {
				t.Errorf("event %d type = %q, want %q", i, ev.Type, wantType)
			}
			if ev.Order.ID != "o1" {
				t.Errorf("event %d order id = %q, want o1", i, ev.Order.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d (%q)", i, wantType)
		}
	}
}

func TestHub_CloseStopsDelivery(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()

	sub.Close()
	sub.Close() // safe to call twice

	// Publishing after close must not panic or block.
	hub.Publish(Event{Type: EventInserted})

	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel after Close()")
	}
}

func TestHub_SlowSubscriberDropsEvents(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer sub.Close()

	// Overfill the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(Event{Type: EventUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
