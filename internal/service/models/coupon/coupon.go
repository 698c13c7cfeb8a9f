package coupon

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiscountType is the shape of a coupon's discount.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrExpired       = errors.New("coupon outside its validity window")
	ErrUsageExceeded = errors.New("coupon usage limit reached")
	ErrBelowMinimum  = errors.New("order subtotal below coupon minimum purchase")
)

// Coupon is a vendor-scoped discount code. Codes are case-normalized to
// uppercase and unique within a vendor.
type Coupon struct {
	ID       uuid.UUID `json:"id"`
	VendorID uuid.UUID `json:"vendorId"`
	Code     string    `json:"code"`

	DiscountType DiscountType `json:"discountType"`
	// DiscountValue is whole percent for percentage coupons and cents for
	// fixed ones.
	DiscountValue    int64  `json:"discountValue"`
	MaxDiscountCents *int64 `json:"maxDiscountCents,omitempty"`
	MinPurchaseCents int64  `json:"minPurchaseCents"`

	UsageLimit int `json:"usageLimit"`
	UsedCount  int `json:"usedCount"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DerivedStatus is computed at read time and never stored.
type DerivedStatus string

const (
	StatusScheduled DerivedStatus = "scheduled"
	StatusActive    DerivedStatus = "active"
	StatusExpired   DerivedStatus = "expired"
	StatusInactive  DerivedStatus = "inactive"
)

// NormalizeCode uppercases and trims a user-entered coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// StatusAt derives the display status of the coupon at the given time.
func (c *Coupon) StatusAt(now time.Time) DerivedStatus {
	switch {
	case !c.IsActive:
		return StatusInactive
	case now.Before(c.StartDate):
		return StatusScheduled
	case now.After(c.EndDate):
		return StatusExpired
	default:
		return StatusActive
	}
}

// Validate checks redemption eligibility for the given subtotal at the given
// time. It does not consume usage.
func (c *Coupon) Validate(now time.Time, subtotalCents int64) error {
	if now.Before(c.StartDate) || now.After(c.EndDate) {
		return ErrExpired
	}
	if c.UsedCount >= c.UsageLimit {
		return ErrUsageExceeded
	}
	if subtotalCents < c.MinPurchaseCents {
		return ErrBelowMinimum
	}

	return nil
}

// Discount computes the discount in cents for the given subtotal. Percentage
// discounts are capped at MaxDiscountCents when set; every discount is clamped
// to the subtotal so the discount term alone can never push a total negative.
// Idempotent for identical inputs.
func (c *Coupon) Discount(subtotalCents int64) int64 {
	var discount int64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = subtotalCents * c.DiscountValue / 100
		if c.MaxDiscountCents != nil && discount > *c.MaxDiscountCents {
			discount = *c.MaxDiscountCents
		}
	case DiscountFixed:
		discount = c.DiscountValue
	}

	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}

	return discount
}
