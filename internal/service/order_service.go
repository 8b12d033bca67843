package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tacosmaster/taqueria-api/internal/catalog"
	"github.com/tacosmaster/taqueria-api/internal/models"
	"github.com/tacosmaster/taqueria-api/internal/store"
)

var (
	ErrEmptyOrder     = errors.New("order must contain at least one item")
	ErrInvalidDetails = errors.New("checkout details are invalid")
)

// FieldErrors maps offending field names (json names) to messages, so
// the storefront can surface them inline next to each field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	return fmt.Sprintf("checkout details are invalid: %s", strings.Join(fields, ", "))
}

func (fe FieldErrors) Unwrap() error { return ErrInvalidDetails }

// Notifier is the best-effort side channel fired after submission.
type Notifier interface {
	SendOrderNotification(ctx context.Context, order models.OrderWithItems) error
}

// OrderService handles order submission and the status lifecycle.
type OrderService struct {
	store       store.OrderStore
	catalog     *catalog.Catalog
	notifier    Notifier
	deliveryFee float64
	validate    *validator.Validate
	log         *slog.Logger
}

// NewOrderService creates an order service. notifier may be nil when no
// side channel is configured.
func NewOrderService(st store.OrderStore, cat *catalog.Catalog, notifier Notifier, deliveryFee float64, log *slog.Logger) *OrderService {
	v := validator.New()
	// Report json field names so errors line up with request fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &OrderService{
		store:       st,
		catalog:     cat,
		notifier:    notifier,
		deliveryFee: deliveryFee,
		validate:    v,
		log:         log,
	}
}

// Submit converts the cart lines plus customer details into a persisted
// order with snapshotted line items. Prices are frozen here: the order
// records what was actually charged even if the catalog changes later.
// The order and its items are written atomically; on any persistence
// error the order is not placed and the caller keeps the cart intact.
func (s *OrderService) Submit(ctx context.Context, lines []models.CartLine, details models.CheckoutDetails) (*models.OrderWithItems, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	if fe := s.validateDetails(details); len(fe) > 0 {
		return nil, fe
	}

	subtotal := 0.0
	for _, line := range lines {
		subtotal += line.Subtotal()
	}

	fee := 0.0
	if details.Mode == models.ModeDelivery {
		fee = s.deliveryFee
	}

	order := models.Order{
		ID:            uuid.New().String(),
		CustomerName:  details.Name,
		CustomerPhone: details.Phone,
		Mode:          details.Mode,
		KitchenNotes:  details.Notes,
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Total:         subtotal + fee,
		Status:        models.StatusPending,
	}

	// Only the active mode's location fields are stored; the other set
	// stays null.
	switch details.Mode {
	case models.ModeDelivery:
		order.Street = optional(details.Street)
		order.HouseNumber = optional(details.HouseNumber)
		order.Neighborhood = optional(details.Neighborhood)
		order.DeliveryReferences = optional(details.References)
	case models.ModePickup:
		order.PickupTime = optional(details.PickupTime)
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ID:           uuid.New().String(),
			OrderID:      order.ID,
			ProductName:  line.Product.Name,
			ProductPrice: line.Product.Price,
			Quantity:     line.Quantity,
			Subtotal:     line.Subtotal(),
		})
	}

	if err := s.store.CreateOrder(ctx, &order, items); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"mode", order.Mode,
		"items", len(items),
		"total", order.Total,
	)

	return &models.OrderWithItems{Order: order, Items: items}, nil
}

// Notify fires the notification side channel for a placed order.
// Best-effort and asynchronous: failures are logged and swallowed, and
// never affect the already-successful order.
func (s *OrderService) Notify(order *models.OrderWithItems) {
	if s.notifier == nil {
		return
	}
	o := *order
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.SendOrderNotification(ctx, o); err != nil {
			s.log.Error("order notification failed", "order_id", o.ID, "error", err)
		}
	}()
}

func (s *OrderService) validateDetails(details models.CheckoutDetails) FieldErrors {
	fe := FieldErrors{}

	if err := s.validate.Struct(details); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			fe["details"] = "invalid request"
			return fe
		}
		for _, e := range verrs {
			fe[e.Field()] = fieldMessage(e)
		}
	}

	if details.Mode == models.ModePickup && !s.catalog.ValidPickupTime(details.PickupTime) {
		fe["pickupTime"] = "not an available pickup slot"
	}

	return fe
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "required_if":
		return "required"
	case "len":
		return "must be exactly 10 digits"
	case "number":
		return "must contain only digits"
	case "oneof":
		return "must be delivery or pickup"
	default:
		return "invalid"
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
