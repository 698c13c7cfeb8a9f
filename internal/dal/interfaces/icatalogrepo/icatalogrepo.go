package icatalogrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/catalog"
)

// IProductRepository reads products and adjusts stock.
type IProductRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error)
	// DecrementStock subtracts quantity from the product stock, flooring at
	// zero, as a single conditional update.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error
}

// IVendorRepository reads vendor profiles.
type IVendorRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Vendor, error)
}

// IDriverRepository reads driver profiles.
type IDriverRepository interface {
	// ListAvailable returns approved drivers currently accepting orders.
	ListAvailable(ctx context.Context) ([]catalog.Driver, error)
}
