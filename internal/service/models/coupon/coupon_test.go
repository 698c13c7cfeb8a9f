package coupon

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func activeCoupon() *Coupon {
	now := time.Now()
	return &Coupon{
		ID:            uuid.New(),
		VendorID:      uuid.New(),
		Code:          "SAVE10",
		DiscountType:  DiscountPercentage,
		DiscountValue: 10,
		UsageLimit:    100,
		StartDate:     now.Add(-time.Hour),
		EndDate:       now.Add(time.Hour),
		IsActive:      true,
	}
}

func TestNormalizeCode(t *testing.T) {
	if got := NormalizeCode("  save10 "); got != "SAVE10" {
		t.Fatalf("got %q", got)
	}
}

func TestDiscountPercentage(t *testing.T) {
	c := activeCoupon()

	if got := c.Discount(20000); got != 2000 {
		t.Fatalf("10%% of 20000: got %d", got)
	}

	cap := int64(1500)
	c.MaxDiscountCents = &cap
	if got := c.Discount(20000); got != 1500 {
		t.Fatalf("capped discount: got %d", got)
	}
}

func TestDiscountFixedClampsToSubtotal(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = DiscountFixed
	c.DiscountValue = 5000

	if got := c.Discount(20000); got != 5000 {
		t.Fatalf("fixed discount: got %d", got)
	}
	if got := c.Discount(3000); got != 3000 {
		t.Fatalf("discount should clamp to subtotal: got %d", got)
	}
}

func TestDiscountNeverNegative(t *testing.T) {
	c := activeCoupon()
	c.DiscountType = DiscountFixed
	c.DiscountValue = -100

	if got := c.Discount(20000); got != 0 {
		t.Fatalf("negative discount should clamp to zero: got %d", got)
	}
}

func TestValidate(t *testing.T) {
	now := time.Now()

	c := activeCoupon()
	if err := c.Validate(now, 20000); err != nil {
		t.Fatalf("valid coupon rejected: %v", err)
	}

	c = activeCoupon()
	c.StartDate = now.Add(time.Hour)
	c.EndDate = now.Add(2 * time.Hour)
	if err := c.Validate(now, 20000); !errors.Is(err, ErrExpired) {
		t.Fatalf("scheduled coupon: expected ErrExpired, got %v", err)
	}

	c = activeCoupon()
	c.EndDate = now.Add(-time.Minute)
	if err := c.Validate(now, 20000); !errors.Is(err, ErrExpired) {
		t.Fatalf("expired coupon: expected ErrExpired, got %v", err)
	}

	c = activeCoupon()
	c.UsedCount = c.UsageLimit
	if err := c.Validate(now, 20000); !errors.Is(err, ErrUsageExceeded) {
		t.Fatalf("expected ErrUsageExceeded, got %v", err)
	}

	c = activeCoupon()
	c.MinPurchaseCents = 50000
	if err := c.Validate(now, 20000); !errors.Is(err, ErrBelowMinimum) {
		t.Fatalf("expected ErrBelowMinimum, got %v", err)
	}
}

func TestStatusAt(t *testing.T) {
	now := time.Now()

	c := activeCoupon()
	if got := c.StatusAt(now); got != StatusActive {
		t.Fatalf("got %s", got)
	}

	c.IsActive = false
	if got := c.StatusAt(now); got != StatusInactive {
		t.Fatalf("got %s", got)
	}

	c = activeCoupon()
	c.StartDate = now.Add(time.Hour)
	if got := c.StatusAt(now); got != StatusScheduled {
		t.Fatalf("got %s", got)
	}

	c = activeCoupon()
	c.EndDate = now.Add(-time.Hour)
	if got := c.StatusAt(now); got != StatusExpired {
		t.Fatalf("got %s", got)
	}
}
