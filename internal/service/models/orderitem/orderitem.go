package orderitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/currency"
)

// CommissionRatePercent is the platform commission taken from each line item.
const CommissionRatePercent = 10

// OrderItem is an order-time immutable snapshot of a purchased product line,
// including the commission split used for vendor earnings accounting.
type OrderItem struct {
	ID                 uuid.UUID         `json:"id"`
	OrderID            uuid.UUID         `json:"orderId"`
	ProductID          uuid.UUID         `json:"productId"`
	VendorID           uuid.UUID         `json:"vendorId"`
	ProductName        string            `json:"productName"`
	ProductImage       string            `json:"productImage,omitempty"`
	Quantity           int               `json:"quantity"`
	UnitPriceCents     int64             `json:"unitPriceCents"`
	TotalCents         int64             `json:"totalCents"`
	CommissionCents    int64             `json:"commissionCents"`
	VendorEarningCents int64             `json:"vendorEarningCents"`
	PriceCurrency      currency.Currency `json:"priceCurrency"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

// NewSnapshot builds an order item from a product line, computing the line
// total and the platform commission split.
func NewSnapshot(orderID, productID, vendorID uuid.UUID, name, image string, quantity int, unitPriceCents int64, cur currency.Currency, now time.Time) OrderItem {
	total := unitPriceCents * int64(quantity)
	commission := total * CommissionRatePercent / 100

	return OrderItem{
		ID:                 uuid.New(),
		OrderID:            orderID,
		ProductID:          productID,
		VendorID:           vendorID,
		ProductName:        name,
		ProductImage:       image,
		Quantity:           quantity,
		UnitPriceCents:     unitPriceCents,
		TotalCents:         total,
		CommissionCents:    commission,
		VendorEarningCents: total - commission,
		PriceCurrency:      cur,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
