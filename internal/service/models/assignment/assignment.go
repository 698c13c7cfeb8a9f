package assignment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status is the delivery assignment lifecycle status.
type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusPickedUp  Status = "picked_up"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAccepted, StatusPickedUp, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}

// ActiveStatuses are the statuses counting toward the one-active-delivery-per-
// driver invariant.
var ActiveStatuses = []Status{StatusAccepted, StatusPickedUp, StatusInTransit}

// PlatformFeePercent is the platform's cut of each delivery fee.
const PlatformFeePercent = 20

var (
	ErrNotFound   = errors.New("delivery assignment not found")
	ErrNotReady   = errors.New("order not ready for pickup")
	ErrDriverBusy = errors.New("driver already has an active delivery")
)

// Assignment records a driver taking on an order's delivery, with the fee
// split computed at acceptance time.
type Assignment struct {
	ID                 uuid.UUID  `json:"id"`
	OrderID            uuid.UUID  `json:"orderId"`
	DriverID           uuid.UUID  `json:"driverId"`
	Status             Status     `json:"status"`
	DeliveryFeeCents   int64      `json:"deliveryFeeCents"`
	PlatformFeeCents   int64      `json:"platformFeeCents"`
	DriverEarningCents int64      `json:"driverEarningCents"`
	AssignedAt         time.Time  `json:"assignedAt"`
	AcceptedAt         time.Time  `json:"acceptedAt"`
	PickedUpAt         *time.Time `json:"pickedUpAt,omitempty"`
	DeliveredAt        *time.Time `json:"deliveredAt,omitempty"`
}

// SplitFee divides a delivery fee into the platform fee and the driver
// earning: platform_fee = fee x 20%, driver_earning = fee - platform_fee.
func SplitFee(deliveryFeeCents int64) (platformCents, earningCents int64) {
	platformCents = deliveryFeeCents * PlatformFeePercent / 100

	return platformCents, deliveryFeeCents - platformCents
}

// New builds an accepted assignment for the order and driver.
func New(orderID, driverID uuid.UUID, deliveryFeeCents int64, now time.Time) Assignment {
	platform, earning := SplitFee(deliveryFeeCents)

	return Assignment{
		ID:                 uuid.New(),
		OrderID:            orderID,
		DriverID:           driverID,
		Status:             StatusAccepted,
		DeliveryFeeCents:   deliveryFeeCents,
		PlatformFeeCents:   platform,
		DriverEarningCents: earning,
		AssignedAt:         now,
		AcceptedAt:         now,
	}
}
