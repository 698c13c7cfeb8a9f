package order

import "errors"

// Status is an order lifecycle status.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusPickedUp       Status = "picked_up"
	StatusShipped        Status = "shipped"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusRefunded       Status = "refunded"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// allowedTransitions maps each status to the statuses reachable from it.
// cancelled and refunded are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusProcessing, StatusPreparing, StatusCancelled},
	StatusProcessing:     {StatusPreparing, StatusReady, StatusReadyForPickup, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusReadyForPickup, StatusCancelled},
	StatusReady:          {StatusReadyForPickup, StatusShipped, StatusCancelled},
	StatusReadyForPickup: {StatusPickedUp, StatusCancelled},
	StatusPickedUp:       {StatusInTransit, StatusOutForDelivery, StatusCancelled},
	StatusShipped:        {StatusInTransit, StatusOutForDelivery, StatusCancelled},
	StatusInTransit:      {StatusOutForDelivery, StatusDelivered, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {StatusCompleted, StatusRefunded},
	StatusCompleted:      {StatusRefunded},
	StatusCancelled:      {},
	StatusRefunded:       {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

// AllStatuses returns every valid status. Useful for exhaustive checks.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusConfirmed, StatusProcessing, StatusPreparing,
		StatusReady, StatusReadyForPickup, StatusPickedUp, StatusShipped,
		StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusCompleted,
		StatusCancelled, StatusRefunded,
	}
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}

	return status, nil
}
