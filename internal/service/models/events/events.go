package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/outbox"
)

// Queue names for the marketplace event streams.
const (
	QueueOrderCreated       = "marketplace.order.created"
	QueueOrderStatusChanged = "marketplace.order.status_changed"
	QueueNotifications      = "marketplace.notifications"
)

const defaultMaxRetries = 5

// OrderCreatedEvent is published when checkout places a new order.
type OrderCreatedEvent struct {
	EventID     string    `json:"event_id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	TotalCents  int64     `json:"total_cents"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent is published on every order status transition.
type OrderStatusChangedEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Status    string    `json:"status"`
	ChangedBy uuid.UUID `json:"changed_by"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationEvent mirrors a stored notification onto the realtime push
// queue, keyed by recipient.
type NotificationEvent struct {
	EventID   string                `json:"event_id"`
	UserID    uuid.UUID             `json:"user_id"`
	Type      notification.Type     `json:"type"`
	Title     string                `json:"title"`
	Message   string                `json:"message"`
	Priority  notification.Priority `json:"priority"`
	Data      notification.Payload  `json:"data"`
	Timestamp time.Time             `json:"timestamp"`
}

// NewOrderCreatedMessage builds the outbox row for an order placement.
func NewOrderCreatedMessage(o *order.Order, now time.Time) (outbox.Message, error) {
	return newMessage(QueueOrderCreated, OrderCreatedEvent{
		EventID:     uuid.NewString(),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		VendorID:    o.VendorID,
		TotalCents:  o.TotalCents,
		Status:      o.Status.String(),
		Timestamp:   now,
	}, now)
}

// NewOrderStatusMessage builds the outbox row for a status transition.
func NewOrderStatusMessage(o *order.Order, changedBy uuid.UUID, now time.Time) (outbox.Message, error) {
	return newMessage(QueueOrderStatusChanged, OrderStatusChangedEvent{
		EventID:   uuid.NewString(),
		OrderID:   o.ID,
		Status:    o.Status.String(),
		ChangedBy: changedBy,
		Timestamp: now,
	}, now)
}

// NewNotificationMessage builds the outbox row pushing a notification to the
// realtime channel.
func NewNotificationMessage(n notification.Notification, now time.Time) (outbox.Message, error) {
	return newMessage(QueueNotifications, NotificationEvent{
		EventID:   uuid.NewString(),
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Data:      n.Data,
		Timestamp: now,
	}, now)
}

func newMessage(queue string, payload any, now time.Time) (outbox.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return outbox.Message{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return outbox.Message{
		QueueName:   queue,
		RoutingKey:  queue,
		Payload:     body,
		ContentType: "application/json",
		MaxRetries:  defaultMaxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}, nil
}
