package service

import (
	"context"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/google/uuid"
)

const (
	defaultOrderHistory = 20
	maxOrderHistory     = 100
)

type OrderService interface {
	ListOrders(ctx context.Context, ownerID uuid.UUID, limit int) (*models.OrderHistoryResponse, error)
}

type orderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) OrderService {
	return &orderService{orders: orders}
}

// ListOrders returns the owner's orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, ownerID uuid.UUID, limit int) (*models.OrderHistoryResponse, error) {

	if limit < 1 {
		limit = defaultOrderHistory
	}

	limit = min(limit, maxOrderHistory)

	orders, err := s.orders.ListOrdersByOwner(ctx, ownerID, limit)
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to list orders", slog.String("ownerId", ownerID.String()), slog.String("error", err.Error()))
		return nil, errors.DatabaseError("Failed to retrieve orders").WithError(err)
	}

	if orders == nil {
		orders = []models.OrderRecord{}
	}

	return &models.OrderHistoryResponse{Orders: orders, Total: len(orders)}, nil
}
