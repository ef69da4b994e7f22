package models

type CartItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	ImageRef  string  `json:"image_ref,omitempty"`
}

// CartView is the derived, read-only state of a cart store.
type CartView struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"item_count"`
	Version   uint64     `json:"version"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

// UpdateQuantityRequest carries either an absolute quantity or a +/-1 delta from a stepper control.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required_without=Delta,omitempty,gte=0"`
	Delta    *int `json:"delta" validate:"required_without=Quantity,omitempty,oneof=-1 1"`
}
