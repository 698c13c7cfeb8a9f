package inotificationrepo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
)

// INotificationRepository is an interface for the notification postgres
// repository.
type INotificationRepository interface {
	Insert(ctx context.Context, n notification.Notification) error
	BulkInsert(ctx context.Context, ns []notification.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error
}
