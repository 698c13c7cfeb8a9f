package notificationsvc

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/inotificationrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ioutboxrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/outbox"
)

type fakeStore struct {
	notifications []notification.Notification
	outbox        []outbox.Message

	commits int
}

func (f *fakeStore) Begin(context.Context) error { return nil }

func (f *fakeStore) Commit(context.Context) error {
	f.commits++
	return nil
}

func (f *fakeStore) Rollback(context.Context) error { return nil }

func (f *fakeStore) NotificationRepository() inotificationrepo.INotificationRepository {
	return &fakeNotificationRepo{f}
}

func (f *fakeStore) OutboxRepository() ioutboxrepo.IOutboxRepository { return &fakeOutboxRepo{f} }

type fakeNotificationRepo struct{ f *fakeStore }

func (r *fakeNotificationRepo) Insert(_ context.Context, n notification.Notification) error {
	r.f.notifications = append(r.f.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) BulkInsert(_ context.Context, ns []notification.Notification) error {
	r.f.notifications = append(r.f.notifications, ns...)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID, readAt time.Time) error {
	for i := range r.f.notifications {
		if r.f.notifications[i].ID == id && r.f.notifications[i].UserID == userID {
			r.f.notifications[i].IsRead = true
			r.f.notifications[i].ReadAt = &readAt
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID, readAt time.Time) error {
	for i := range r.f.notifications {
		if r.f.notifications[i].UserID == userID && !r.f.notifications[i].IsRead {
			r.f.notifications[i].IsRead = true
			r.f.notifications[i].ReadAt = &readAt
		}
	}
	return nil
}

type fakeOutboxRepo struct{ f *fakeStore }

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.f.outbox = append(r.f.outbox, msg)
	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

func setup(t *testing.T) (*NotificationService, *fakeStore) {
	t.Helper()
	f := &fakeStore{}
	s := MustNewNotificationService()
	s.newUOW = func() unitOfWork { return f }
	return s, f
}

func TestCreateMirrorsToOutbox(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	userID := uuid.New()

	n, err := s.Create(ctx, userID, notification.TypeSystem, "Welcome", "Thanks for joining.",
		notification.PriorityNormal, notification.CategorySystem, notification.Payload{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if n.IsRead {
		t.Fatalf("new notification should be unread")
	}
	if len(f.notifications) != 1 {
		t.Fatalf("notification not stored")
	}
	if len(f.outbox) != 1 {
		t.Fatalf("outbox message not written")
	}
	if f.commits != 1 {
		t.Fatalf("expected 1 commit, got %d", f.commits)
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	ctx := context.Background()
	s, f := setup(t)
	userID := uuid.New()

	first, _ := s.Create(ctx, userID, notification.TypeOrderUpdate, "A", "a",
		notification.PriorityNormal, notification.CategoryOrders, notification.Payload{})
	if _, err := s.Create(ctx, userID, notification.TypeOrderUpdate, "B", "b",
		notification.PriorityNormal, notification.CategoryOrders, notification.Payload{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := s.UnreadCount(ctx, userID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 unread, got %d", count)
	}

	if err := s.MarkRead(ctx, first.ID, userID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	count, _ = s.UnreadCount(ctx, userID)
	if count != 1 {
		t.Fatalf("expected 1 unread, got %d", count)
	}
	if f.notifications[0].ReadAt == nil {
		t.Fatalf("read_at not stamped")
	}

	if err := s.MarkAllRead(ctx, userID); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	count, _ = s.UnreadCount(ctx, userID)
	if count != 0 {
		t.Fatalf("expected 0 unread, got %d", count)
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	s, _ := setup(t)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		if _, err := s.Create(ctx, userID, notification.TypeSystem, "N", "n",
			notification.PriorityLow, notification.CategorySystem, notification.Payload{}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	page, err := s.List(ctx, userID, 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2, got %d", len(page))
	}

	page, _ = s.List(ctx, userID, 10, 4)
	if len(page) != 1 {
		t.Fatalf("expected 1, got %d", len(page))
	}

	page, _ = s.List(ctx, uuid.New(), 10, 0)
	if len(page) != 0 {
		t.Fatalf("expected none for other user, got %d", len(page))
	}
}
