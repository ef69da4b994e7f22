package models

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutState string

const (
	CheckoutIdle                 CheckoutState = "idle"
	CheckoutAwaitingConfirmation CheckoutState = "awaiting_confirmation"
	CheckoutSubmitting           CheckoutState = "submitting"
	CheckoutSucceeded            CheckoutState = "succeeded"
	CheckoutFailed               CheckoutState = "failed"
)

type OrderSummary struct {
	Items           []CartItem `json:"items"`
	ItemCount       int        `json:"item_count"`
	Total           float64    `json:"total"`
	ShippingAddress *Address   `json:"shipping_address,omitempty"`
}

type CheckoutView struct {
	ID        uuid.UUID     `json:"id"`
	State     CheckoutState `json:"state"`
	Summary   *OrderSummary `json:"summary,omitempty"`
	Order     *OrderRecord  `json:"order,omitempty"`
	Error     string        `json:"error,omitempty"`
	Attempts  int           `json:"attempts"`
	UpdatedAt time.Time     `json:"updated_at"`
}
