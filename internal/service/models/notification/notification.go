package notification

import (
	"time"

	"github.com/google/uuid"
)

// Type is the closed set of notification kinds the platform emits.
type Type string

const (
	TypeNewOrder        Type = "new_order"
	TypeOrderUpdate     Type = "order_update"
	TypeOrderDelivered  Type = "order_delivered"
	TypeProductApproved Type = "product_approved"
	TypeProductRejected Type = "product_rejected"
	TypeSystem          Type = "system"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

type Category string

const (
	CategoryOrders   Category = "orders"
	CategoryProducts Category = "products"
	CategorySystem   Category = "system"
)

// Payload carries the structured context of a notification. A typed struct
// instead of an open key-value bag so consumers keep exhaustiveness checking.
type Payload struct {
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	OrderStatus string     `json:"status,omitempty"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
}

// Notification is a per-user message created in response to a domain event.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	Type      Type       `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Link      string     `json:"link,omitempty"`
	Priority  Priority   `json:"priority"`
	Category  Category   `json:"category"`
	Data      Payload    `json:"data"`
	IsRead    bool       `json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// New builds an unread notification for a user.
func New(userID uuid.UUID, typ Type, title, message string, priority Priority, category Category, data Payload, now time.Time) Notification {
	return Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Priority:  priority,
		Category:  category,
		Data:      data,
		IsRead:    false,
		CreatedAt: now,
	}
}
