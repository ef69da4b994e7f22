package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusPaid       OrderStatus = "Paid"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusDelivered  OrderStatus = "Delivered"
)

// OrderRecord is written once per successful checkout and never mutated by the client.
type OrderRecord struct {
	ID              string      `json:"id"`
	OwnerID         uuid.UUID   `json:"owner_id"`
	Items           []CartItem  `json:"items"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// OrderPlacedEvent is published after an order record has been persisted.
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	PlacedAt    time.Time `json:"placed_at"`
}

type OrderHistoryResponse struct {
	Orders []OrderRecord `json:"orders"`
	Total  int           `json:"total"`
}
