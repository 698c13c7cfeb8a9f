package iassignmentrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/assignment"
)

// IAssignmentRepository is an interface for the delivery assignment postgres
// repository.
type IAssignmentRepository interface {
	Insert(ctx context.Context, a assignment.Assignment) error
	GetByOrder(ctx context.Context, orderID uuid.UUID) (*assignment.Assignment, error)
	// CountActiveByDriver counts the driver's assignments in an active status
	// (accepted, picked_up, in_transit).
	CountActiveByDriver(ctx context.Context, driverID uuid.UUID) (int, error)
	Update(ctx context.Context, a *assignment.Assignment) error
}
