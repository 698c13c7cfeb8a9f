package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/currency"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVendorNotFound  = errors.New("vendor not found")
)

// Product is the live catalog row; orders snapshot its fields rather than
// referencing it.
type Product struct {
	ID                 uuid.UUID         `json:"id"`
	VendorID           uuid.UUID         `json:"vendorId"`
	Name               string            `json:"name"`
	NameAr             string            `json:"nameAr,omitempty"`
	ImageURL           string            `json:"imageUrl,omitempty"`
	PriceCents         int64             `json:"priceCents"`
	DiscountPriceCents int64             `json:"discountPriceCents,omitempty"`
	PriceCurrency      currency.Currency `json:"priceCurrency"`
	Stock              int               `json:"stock"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// EffectivePriceCents is the unit price entering pricing: the discount price
// when present, the regular price otherwise.
func (p *Product) EffectivePriceCents() int64 {
	if p.DiscountPriceCents > 0 {
		return p.DiscountPriceCents
	}

	return p.PriceCents
}

// Vendor is a selling party (store or restaurant).
type Vendor struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"userId"`
	Name            string    `json:"name"`
	City            string    `json:"city"`
	InstantDelivery bool      `json:"instantDelivery"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Driver is a delivery driver profile.
type Driver struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	ApprovalStatus string    `json:"approvalStatus"`
	IsAvailable    bool      `json:"isAvailable"`
	CreatedAt      time.Time `json:"createdAt"`
}
