package pricing

import "testing"

func TestNewQuote(t *testing.T) {
	lines := []Line{
		{UnitPriceCents: 5000, Quantity: 3},
	}
	settings := ShippingSettings{BaseFeeCents: 2000, FreeShippingThresholdCents: 50000}

	q := NewQuote(lines, settings, 0)
	if q.SubtotalCents != 15000 {
		t.Fatalf("subtotal: got %d", q.SubtotalCents)
	}
	if q.ShippingCents != 2000 {
		t.Fatalf("shipping: got %d", q.ShippingCents)
	}
	if q.TaxCents != 1500 {
		t.Fatalf("tax: got %d", q.TaxCents)
	}
	if q.TotalCents != 18500 {
		t.Fatalf("total: got %d", q.TotalCents)
	}
}

func TestNewQuoteWithDiscount(t *testing.T) {
	lines := []Line{{UnitPriceCents: 10000, Quantity: 2}}
	settings := ShippingSettings{BaseFeeCents: 1500, FreeShippingThresholdCents: 100000}

	q := NewQuote(lines, settings, 2000)
	if q.DiscountCents != 2000 {
		t.Fatalf("discount: got %d", q.DiscountCents)
	}
	// 20000 + 1500 + 2000 - 2000
	if q.TotalCents != 21500 {
		t.Fatalf("total: got %d", q.TotalCents)
	}
}

func TestShippingFee(t *testing.T) {
	settings := ShippingSettings{BaseFeeCents: 2000, FreeShippingThresholdCents: 50000}

	if got := ShippingFee(49999, settings); got != 2000 {
		t.Fatalf("below threshold: got %d", got)
	}
	if got := ShippingFee(50000, settings); got != 0 {
		t.Fatalf("at threshold: got %d", got)
	}
	if got := ShippingFee(100, ShippingSettings{BaseFeeCents: 2000, FreeShippingThresholdCents: 50000, IsFree: true}); got != 0 {
		t.Fatalf("globally free: got %d", got)
	}
}

func TestSubtotalEmptyCart(t *testing.T) {
	if got := Subtotal(nil); got != 0 {
		t.Fatalf("got %d", got)
	}
}
