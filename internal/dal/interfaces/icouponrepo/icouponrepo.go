package icouponrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/coupon"
)

// ICouponRepository is an interface for the coupon postgres repository.
type ICouponRepository interface {
	Insert(ctx context.Context, c coupon.Coupon) (coupon.Coupon, error)
	// GetActiveByCode looks a coupon up by exact uppercased code, vendor and
	// is_active = true.
	GetActiveByCode(ctx context.Context, code string, vendorID uuid.UUID) (*coupon.Coupon, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]coupon.Coupon, error)
	// IncrementUsage adds exactly 1 to used_count.
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}
