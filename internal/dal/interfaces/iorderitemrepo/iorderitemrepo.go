package iorderitemrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]orderitem.OrderItem, error)
	ListByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]orderitem.OrderItem, error)
}
