package pricing

// TaxRatePercent is the fixed checkout tax rate.
const TaxRatePercent = 10

// Line is one cart line entering the quote. UnitPriceCents is the discount
// price when the product carries one, the regular price otherwise.
type Line struct {
	UnitPriceCents int64
	Quantity       int
}

// ShippingSettings is the platform-wide shipping configuration snapshot used
// at quote time.
type ShippingSettings struct {
	BaseFeeCents               int64 `json:"baseFeeCents"`
	FreeShippingThresholdCents int64 `json:"freeShippingThresholdCents"`
	IsFree                     bool  `json:"isFree"`
}

// Quote is the checkout price breakdown. All fields are integer cents.
type Quote struct {
	SubtotalCents int64 `json:"subtotalCents"`
	ShippingCents int64 `json:"shippingCents"`
	TaxCents      int64 `json:"taxCents"`
	DiscountCents int64 `json:"discountCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Subtotal sums the cart lines.
func Subtotal(lines []Line) int64 {
	var subtotal int64
	for _, l := range lines {
		subtotal += l.UnitPriceCents * int64(l.Quantity)
	}

	return subtotal
}

// ShippingFee returns the shipping charge for a subtotal: zero when shipping
// is globally free or the subtotal reaches the free-shipping threshold, the
// base fee otherwise.
func ShippingFee(subtotalCents int64, settings ShippingSettings) int64 {
	if settings.IsFree || subtotalCents >= settings.FreeShippingThresholdCents {
		return 0
	}

	return settings.BaseFeeCents
}

// NewQuote computes the full checkout breakdown:
// total = subtotal + shipping + tax - discount.
func NewQuote(lines []Line, settings ShippingSettings, discountCents int64) Quote {
	subtotal := Subtotal(lines)
	shipping := ShippingFee(subtotal, settings)
	tax := subtotal * TaxRatePercent / 100

	return Quote{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    subtotal + shipping + tax - discountCents,
	}
}
