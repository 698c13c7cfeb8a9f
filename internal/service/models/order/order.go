package order

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/currency"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/orderitem"
)

// Order represents a single customer purchase from one vendor. The financial
// fields are a snapshot frozen at checkout time; later coupon or shipping
// setting changes never alter a placed order.
type Order struct {
	ID          uuid.UUID  `json:"id"`
	OrderNumber string     `json:"orderNumber"`
	CustomerID  uuid.UUID  `json:"customerId"`
	VendorID    uuid.UUID  `json:"vendorId"`
	DriverID    *uuid.UUID `json:"driverId,omitempty"`
	CouponID    *uuid.UUID `json:"couponId,omitempty"`

	DeliveryAddress string `json:"deliveryAddress"`
	City            string `json:"city"`

	SubtotalCents    int64             `json:"subtotalCents"`
	DeliveryFeeCents int64             `json:"deliveryFeeCents"`
	TaxCents         int64             `json:"taxCents"`
	DiscountCents    int64             `json:"discountCents"`
	TotalCents       int64             `json:"totalCents"`
	Currency         currency.Currency `json:"currency"`

	Status Status `json:"status"`

	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	ProcessingAt     *time.Time `json:"processingAt,omitempty"`
	ReadyAt          *time.Time `json:"readyAt,omitempty"`
	PickedUpAt       *time.Time `json:"pickedUpAt,omitempty"`
	ShippedAt        *time.Time `json:"shippedAt,omitempty"`
	OutForDeliveryAt *time.Time `json:"outForDeliveryAt,omitempty"`
	DeliveredAt      *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	RefundedAt       *time.Time `json:"refundedAt,omitempty"`

	PickupQRCode         string     `json:"pickupQrCode,omitempty"`
	PickupOTP            string     `json:"pickupOtp,omitempty"`
	PickupOTPExpiresAt   *time.Time `json:"pickupOtpExpiresAt,omitempty"`
	DeliveryQRCode       string     `json:"deliveryQrCode,omitempty"`
	DeliveryOTP          string     `json:"deliveryOtp,omitempty"`
	DeliveryOTPExpiresAt *time.Time `json:"deliveryOtpExpiresAt,omitempty"`

	PickedUpBy  *uuid.UUID `json:"pickedUpBy,omitempty"`
	DeliveredTo *uuid.UUID `json:"deliveredTo,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []orderitem.OrderItem `json:"items"`
}

// SetStatus moves the order to newStatus and stamps the timestamp field
// associated with it. preparing shares processing_at and ready_for_pickup
// shares ready_at; in_transit and completed stamp nothing beyond updated_at.
func (o *Order) SetStatus(newStatus Status, now time.Time) {
	o.Status = newStatus
	o.UpdatedAt = now

	ts := now
	switch newStatus {
	case StatusConfirmed:
		o.ConfirmedAt = &ts
	case StatusProcessing, StatusPreparing:
		o.ProcessingAt = &ts
	case StatusReady, StatusReadyForPickup:
		o.ReadyAt = &ts
	case StatusPickedUp:
		o.PickedUpAt = &ts
	case StatusShipped:
		o.ShippedAt = &ts
	case StatusOutForDelivery:
		o.OutForDeliveryAt = &ts
	case StatusDelivered:
		o.DeliveredAt = &ts
	case StatusCancelled:
		o.CancelledAt = &ts
	case StatusRefunded:
		o.RefundedAt = &ts
	}
}

// NewOrderNumber builds a human readable order number from the wall clock and
// a 3-digit random suffix. Not collision proof by construction; the orders
// table carries a unique index so a collision surfaces as an insert error.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), rand.Intn(1000))
}

// StatusHistoryEntry is an immutable audit row appended on every status change.
type StatusHistoryEntry struct {
	ID        int64     `json:"id"`
	OrderID   uuid.UUID `json:"orderId"`
	Status    Status    `json:"status"`
	CreatedBy uuid.UUID `json:"createdBy"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
