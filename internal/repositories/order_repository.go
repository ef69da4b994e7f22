package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/google/uuid"
)

const defaultOrderHistoryLimit = 50

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.OrderRecord) error
	ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.OrderRecord, error)
}

// orders are append-only documents in the orders collection
type orderRepository struct {
	docs DocumentStore
}

func NewOrderRepository(docs DocumentStore) OrderRepository {
	return &orderRepository{docs: docs}
}

// CreateOrder persists order and fills in its generated id and server timestamp.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.OrderRecord) error {

	id, createdAt, err := r.docs.Add(ctx, OrdersCollection, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	order.ID = id
	order.CreatedAt = createdAt

	return nil
}

func (r *orderRepository) ListOrdersByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.OrderRecord, error) {

	if limit <= 0 {
		limit = defaultOrderHistoryLimit
	}

	docs, err := r.docs.Query(ctx, OrdersCollection, QueryOptions{
		Filters:    []Filter{{Field: "owner_id", Value: ownerID.String()}},
		OrderBy:    "created_at",
		Descending: true,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders := make([]models.OrderRecord, 0, len(docs))

	for _, doc := range docs {

		var order models.OrderRecord

		if err := json.Unmarshal(doc.Data, &order); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order %s: %w", doc.ID, err)
		}

		// the row owns identity and timestamp
		order.ID = doc.ID
		order.CreatedAt = doc.CreatedAt

		orders = append(orders, order)
	}

	return orders, nil
}
