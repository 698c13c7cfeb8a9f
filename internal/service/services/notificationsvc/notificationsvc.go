package notificationsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/inotificationrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/interfaces/ioutboxrepo"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/uow"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/events"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
)

// NotificationService reads and mutates per-user notifications.
type NotificationService struct {
	pgClient *postgres.Client
	newUOW   func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	NotificationRepository() inotificationrepo.INotificationRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// option is a function that configures the NotificationService.
type option func(*NotificationService)

// MustNewNotificationService creates a new NotificationService.
func MustNewNotificationService(opts ...option) *NotificationService {
	s := &NotificationService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the NotificationService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *NotificationService) {
		s.pgClient = pgClient
	}
}

// Create stores a notification and mirrors it onto the realtime queue through
// the outbox, in one transaction.
func (s *NotificationService) Create(ctx context.Context, userID uuid.UUID, typ notification.Type, title, message string, priority notification.Priority, category notification.Category, data notification.Payload) (*notification.Notification, error) {
	now := time.Now()
	n := notification.New(userID, typ, title, message, priority, category, data, now)

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	if err := work.NotificationRepository().Insert(ctx, n); err != nil {
		return nil, err
	}

	msg, err := events.NewNotificationMessage(n, now)
	if err != nil {
		return nil, err
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to insert outbox message: %w", err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &n, nil
}

// List retrieves a page of the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	work := s.newUOW()

	return work.NotificationRepository().ListByUser(ctx, userID, limit, offset)
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	work := s.newUOW()

	return work.NotificationRepository().UnreadCount(ctx, userID)
}

// MarkRead marks one notification as read for the user.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	work := s.newUOW()

	return work.NotificationRepository().MarkRead(ctx, id, userID, time.Now())
}

// MarkAllRead marks all of the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	work := s.newUOW()

	return work.NotificationRepository().MarkAllRead(ctx, userID, time.Now())
}
