package ihistoryrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
)

// IStatusHistoryRepository appends and reads the immutable order status log.
type IStatusHistoryRepository interface {
	Insert(ctx context.Context, entry order.StatusHistoryEntry) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusHistoryEntry, error)
}
