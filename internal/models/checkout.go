package models

// CheckoutDetails carries the customer-supplied fulfillment details for
// an order submission. Validation tags express the mode-dependent
// requirements: address fields only matter for delivery, pickup time
// only for pickup.
type CheckoutDetails struct {
	Mode         OrderMode `json:"mode" validate:"required,oneof=delivery pickup"`
	Name         string    `json:"name" validate:"required"`
	Phone        string    `json:"phone" validate:"required,len=10,number"`
	Street       string    `json:"street" validate:"required_if=Mode delivery"`
	HouseNumber  string    `json:"number" validate:"required_if=Mode delivery"`
	Neighborhood string    `json:"neighborhood" validate:"required_if=Mode delivery"`
	References   string    `json:"references"`
	PickupTime   string    `json:"pickupTime"`
	Notes        string    `json:"notes"`
}
