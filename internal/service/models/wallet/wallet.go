package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a wallet credit.
type Category string

const (
	CategoryOrderPayment    Category = "order_payment"
	CategoryDeliveryPayment Category = "delivery_payment"
	CategoryRefund          Category = "refund"
)

// Transaction is a single wallet credit entry.
type Transaction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	AmountCents int64     `json:"amountCents"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LoyaltyPointsRatePercent is the share of an order total granted as loyalty
// points on completion.
const LoyaltyPointsRatePercent = 1

// LoyaltyEntry records points earned or spent by a customer.
type LoyaltyEntry struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Points      int64     `json:"points"`
	Type        string    `json:"type"`
	Source      string    `json:"source"`
	ReferenceID uuid.UUID `json:"referenceId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PointsForOrderTotal converts an order total into loyalty points:
// floor of 1% of the total in whole currency units.
func PointsForOrderTotal(totalCents int64) int64 {
	return totalCents / 100 * LoyaltyPointsRatePercent / 100
}
