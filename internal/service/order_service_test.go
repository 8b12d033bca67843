package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tacosmaster/taqueria-api/internal/catalog"
	"github.com/tacosmaster/taqueria-api/internal/models"
	"github.com/tacosmaster/taqueria-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, notifier Notifier) (*OrderService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory(store.NewHub())
	svc := NewOrderService(mem, catalog.Default(), notifier, 25, testLogger())
	return svc, mem
}

func testLines() []models.CartLine {
	return []models.CartLine{
		{Product: models.Product{ID: "taco-asada", Name: "Tacos de Carne Asada", Price: 45, Category: models.CategoryTacos}, Quantity: 2},
		{Product: models.Product{ID: "horchata", Name: "Agua de Horchata", Price: 25, Category: models.CategoryBeverages}, Quantity: 1},
	}
}

func deliveryDetails() models.CheckoutDetails {
	return models.CheckoutDetails{
		Mode:         models.ModeDelivery,
		Name:         "Ana López",
		Phone:        "6441234567",
		Street:       "Av. Obregón",
		HouseNumber:  "123",
		Neighborhood: "Centro",
		References:   "Portón negro",
	}
}

func pickupDetails() models.CheckoutDetails {
	return models.CheckoutDetails{
		Mode:       models.ModePickup,
		Name:       "Ana López",
		Phone:      "6441234567",
		PickupTime: "1:30 PM",
	}
}

func TestOrderService_Submit_Delivery(t *testing.T) {
	svc, _ := newTestService(t, nil)

	order, err := svc.Submit(context.Background(), testLines(), deliveryDetails())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if order.Subtotal != 115 {
		t.Errorf("Subtotal = %v, want 115", order.Subtotal)
	}
	if order.DeliveryFee != 25 {
		t.Errorf("DeliveryFee = %v, want 25", order.DeliveryFee)
	}
	if order.Total != 140 {
		t.Errorf("Total = %v, want 140", order.Total)
	}
	if order.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", order.Status)
	}

	wantItems := []struct {
		name     string
		price    float64
		quantity int
		subtotal float64
	}{
		{"Tacos de Carne Asada", 45, 2, 90},
		{"Agua de Horchata", 25, 1, 25},
	}
	if len(order.Items) != len(wantItems) {
		t.Fatalf("got %d items, want %d", len(order.Items), len(wantItems))
	}
	for i, want := range wantItems {
		item := order.Items[i]
		if item.ProductName != want.name || item.ProductPrice != want.price ||
			item.Quantity != want.quantity || item.Subtotal != want.subtotal {
			t.Errorf("item %d = {%s %v x%d = %v}, want {%s %v x%d = %v}",
				i, item.ProductName, item.ProductPrice, item.Quantity, item.Subtotal,
				want.name, want.price, want.quantity, want.subtotal)
		}
		if item.OrderID != order.ID {
			t.Errorf("item %d order id = %q, want %q", i, item.OrderID, order.ID)
		}
	}

	// Delivery orders carry address fields and no pickup time.
	if order.Street == nil || *order.Street != "Av. Obregón" {
		t.Error("delivery order missing street")
	}
	if order.PickupTime != nil {
		t.Error("delivery order must not carry a pickup time")
	}
}

func TestOrderService_Submit_Pickup(t *testing.T) {
	svc, _ := newTestService(t, nil)

	order, err := svc.Submit(context.Background(), testLines(), pickupDetails())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if order.DeliveryFee != 0 {
		t.Errorf("DeliveryFee = %v, want 0 for pickup", order.DeliveryFee)
	}
	if order.Total != order.Subtotal {
		t.Errorf("Total = %v, want subtotal %v for pickup", order.Total, order.Subtotal)
	}
	if order.PickupTime == nil || *order.PickupTime != "1:30 PM" {
		t.Error("pickup order missing pickup time")
	}
	if order.Street != nil || order.HouseNumber != nil || order.Neighborhood != nil {
		t.Error("pickup order must not carry address fields")
	}
}

func TestOrderService_Submit_Persisted(t *testing.T) {
	svc, mem := newTestService(t, nil)

	order, err := svc.Submit(context.Background(), testLines(), pickupDetails())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	stored, err := mem.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetOrder() error: %v", err)
	}
	if stored.Total != order.Total {
		t.Errorf("stored total = %v, want %v", stored.Total, order.Total)
	}

	items, _ := mem.ListItems(context.Background())
	if len(items) != 2 {
		t.Errorf("stored %d items, want 2", len(items))
	}
}

func TestOrderService_Submit_EmptyCart(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, err := svc.Submit(context.Background(), nil, pickupDetails()); !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("Submit(empty cart) error = %v, want ErrEmptyOrder", err)
	}
}

func TestOrderService_Submit_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.CheckoutDetails)
		wantField string
	}{
		{
			name:      "missing name",
			mutate:    func(d *models.CheckoutDetails) { d.Name = "" },
			wantField: "name",
		},
		{
			name:      "phone too short",
			mutate:    func(d *models.CheckoutDetails) { d.Phone = "644123" },
			wantField: "phone",
		},
		{
			name:      "phone not numeric",
			mutate:    func(d *models.CheckoutDetails) { d.Phone = "64412345ab" },
			wantField: "phone",
		},
		{
			name:      "phone with decimal point",
			mutate:    func(d *models.CheckoutDetails) { d.Phone = "12.3456789" },
			wantField: "phone",
		},
		{
			name:      "phone with plus sign",
			mutate:    func(d *models.CheckoutDetails) { d.Phone = "+144512345" },
			wantField: "phone",
		},
		{
			name:      "phone with minus sign",
			mutate:    func(d *models.CheckoutDetails) { d.Phone = "-123456789" },
			wantField: "phone",
		},
		{
			name:      "unknown mode",
			mutate:    func(d *models.CheckoutDetails) { d.Mode = "drone" },
			wantField: "mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, nil)
			details := deliveryDetails()
			tt.mutate(&details)

			_, err := svc.Submit(context.Background(), testLines(), details)
			if !errors.Is(err, ErrInvalidDetails) {
				t.Fatalf("Submit() error = %v, want ErrInvalidDetails", err)
			}

			var fe FieldErrors
			if !errors.As(err, &fe) {
				t.Fatalf("error %v is not FieldErrors", err)
			}
			if _, ok := fe[tt.wantField]; !ok {
				t.Errorf("FieldErrors = %v, want entry for %q", fe, tt.wantField)
			}
		})
	}
}

func TestOrderService_Submit_DeliveryRequiresAddress(t *testing.T) {
	svc, _ := newTestService(t, nil)

	details := deliveryDetails()
	details.Street = ""
	details.HouseNumber = ""
	details.Neighborhood = ""

	_, err := svc.Submit(context.Background(), testLines(), details)
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("Submit() error = %v, want FieldErrors", err)
	}
	for _, field := range []string{"street", "number", "neighborhood"} {
		if _, ok := fe[field]; !ok {
			t.Errorf("FieldErrors = %v, want entry for %q", fe, field)
		}
	}
}

func TestOrderService_Submit_PickupFieldsOptional(t *testing.T) {
	svc, _ := newTestService(t, nil)

	// Pickup needs no address and no pickup time.
	details := pickupDetails()
	details.PickupTime = ""

	if _, err := svc.Submit(context.Background(), testLines(), details); err != nil {
		t.Errorf("Submit() error = %v, want success", err)
	}
}

func TestOrderService_Submit_UnknownPickupSlot(t *testing.T) {
	svc, _ := newTestService(t, nil)

	details := pickupDetails()
	details.PickupTime = "3:17 AM"

	_, err := svc.Submit(context.Background(), testLines(), details)
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("Submit() error = %v, want FieldErrors", err)
	}
	if _, ok := fe["pickupTime"]; !ok {
		t.Errorf("FieldErrors = %v, want entry for pickupTime", fe)
	}
}

type failingStore struct {
	store.OrderStore
}

func (failingStore) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return errors.New("connection reset")
}

func TestOrderService_Submit_PersistenceFailure(t *testing.T) {
	st := failingStore{store.NewMemory(store.NewHub())}
	svc := NewOrderService(st, catalog.Default(), nil, 25, testLogger())

	if _, err := svc.Submit(context.Background(), testLines(), pickupDetails()); err == nil {
		t.Fatal("Submit() succeeded with a failing store")
	}
}

type recordingNotifier struct {
	calls chan models.OrderWithItems
	err   error
}

func (n *recordingNotifier) SendOrderNotification(ctx context.Context, order models.OrderWithItems) error {
	n.calls <- order
	return n.err
}

func TestOrderService_Notify(t *testing.T) {
	notifier := &recordingNotifier{calls: make(chan models.OrderWithItems, 1)}
	svc, _ := newTestService(t, notifier)

	order, err := svc.Submit(context.Background(), testLines(), pickupDetails())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	svc.Notify(order)

	select {
	case got := <-notifier.calls:
		if got.ID != order.ID {
			t.Errorf("notified order id = %q, want %q", got.ID, order.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("notifier was not invoked")
	}
}

func TestOrderService_Notify_FailureSwallowed(t *testing.T) {
	notifier := &recordingNotifier{calls: make(chan models.OrderWithItems, 1), err: errors.New("smtp down")}
	svc, mem := newTestService(t, notifier)

	order, err := svc.Submit(context.Background(), testLines(), pickupDetails())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	// A failing side channel must neither panic nor touch the order.
	svc.Notify(order)
	<-notifier.calls

	stored, err := mem.GetOrder(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetOrder() error: %v", err)
	}
	if stored.Status != models.StatusPending {
		t.Errorf("order status = %q after notify failure, want pending", stored.Status)
	}
}
