package models

import "time"

// OrderMode selects how the customer receives the order.
type OrderMode string

const (
	ModeDelivery OrderMode = "delivery"
	ModePickup   OrderMode = "pickup"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// statusFlow is the only forward progression staff can drive.
// Cancellation is handled separately and never appears in the flow.
var statusFlow = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivered}

// Next returns the status immediately following s in the fixed
// progression. It returns false when s is terminal or not part of
// the forward flow (cancelled).
func (s OrderStatus) Next() (OrderStatus, bool) {
	for i, st := range statusFlow {
		if st == s && i < len(statusFlow)-1 {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order is the durable record of a customer's request. It is created
// once at submission and afterwards mutated only through status
// transitions. Location fields are mode-specific: the inactive set is
// null.
type Order struct {
	ID                 string      `json:"id" gorm:"primaryKey;size:36"`
	CustomerName       string      `json:"customer_name" gorm:"size:100"`
	CustomerPhone      string      `json:"customer_phone" gorm:"size:20"`
	Mode               OrderMode   `json:"order_mode" gorm:"column:order_mode;size:10"`
	Street             *string     `json:"street" gorm:"size:150"`
	HouseNumber        *string     `json:"house_number" gorm:"size:20"`
	Neighborhood       *string     `json:"neighborhood" gorm:"size:100"`
	DeliveryReferences *string     `json:"delivery_references" gorm:"size:255"`
	PickupTime         *string     `json:"pickup_time" gorm:"size:20"`
	KitchenNotes       string      `json:"kitchen_notes" gorm:"size:255"`
	Subtotal           float64     `json:"subtotal"`
	DeliveryFee        float64     `json:"delivery_fee"`
	Total              float64     `json:"total"`
	Status             OrderStatus `json:"status" gorm:"size:16;index"`
	CreatedAt          time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is a frozen snapshot of a cart line taken at submission
// time. Name and price are copied from the catalog, not referenced, so
// the order remains a record of what was actually charged. Immutable
// after creation.
type OrderItem struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	OrderID      string    `json:"order_id" gorm:"size:36;index"`
	ProductName  string    `json:"product_name" gorm:"size:100"`
	ProductPrice float64   `json:"product_price"`
	Quantity     int       `json:"quantity"`
	Subtotal     float64   `json:"subtotal"`
	CreatedAt    time.Time `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderWithItems joins an order with its line items for the kitchen view.
type OrderWithItems struct {
	Order
	Items []OrderItem `json:"order_items"`
}
