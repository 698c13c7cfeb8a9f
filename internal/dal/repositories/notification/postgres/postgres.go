package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/notification"
)

var notificationColumns = []string{
	"id",
	"user_id",
	"type",
	"title",
	"message",
	"link",
	"priority",
	"category",
	"data",
	"is_read",
	"read_at",
	"created_at",
}

// PostgresNotificationRepository represents a Postgres notification repository.
type PostgresNotificationRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresNotificationRepository creates a new notification repository.
func NewPostgresNotificationRepository(conn postgres.GenericConn) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func notificationValues(n notification.Notification) ([]any, error) {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification data: %w", err)
	}

	return []any{
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, n.Link,
		string(n.Priority), string(n.Category), data, n.IsRead, n.ReadAt, n.CreatedAt,
	}, nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var (
		n                       notification.Notification
		typ, priority, category string
		data                    []byte
	)
	err := row.Scan(
		&n.ID, &n.UserID, &typ, &n.Title, &n.Message, &n.Link,
		&priority, &category, &data, &n.IsRead, &n.ReadAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Type = notification.Type(typ)
	n.Priority = notification.Priority(priority)
	n.Category = notification.Category(category)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &n.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification data: %w", err)
		}
	}

	return &n, nil
}

// Insert stores a single notification.
func (r *PostgresNotificationRepository) Insert(ctx context.Context, n notification.Notification) error {
	values, err := notificationValues(n)
	if err != nil {
		return err
	}

	query, args, err := r.sb.Insert("notifications").
		Columns(notificationColumns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// BulkInsert stores several notifications in one statement.
func (r *PostgresNotificationRepository) BulkInsert(ctx context.Context, notifications []notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	builder := r.sb.Insert("notifications").Columns(notificationColumns...)
	for _, n := range notifications {
		values, err := notificationValues(n)
		if err != nil {
			return err
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert notifications: %w", err)
	}

	return nil
}

// ListByUser retrieves a page of the user's notifications, newest first.
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.Notification, error) {
	builder := r.sb.Select(notificationColumns...).
		From("notifications").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Offset(uint64(offset))
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var result []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	return result, nil
}

// UnreadCount counts the user's unread notifications.
func (r *PostgresNotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("notifications").
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead marks one of the user's notifications as read. Marking an already
// read notification again is a no-op.
func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, readAt time.Time) error {
	query, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", readAt).
		Where(sq.Eq{"id": id, "user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, readAt time.Time) error {
	query, args, err := r.sb.Update("notifications").
		Set("is_read", true).
		Set("read_at", readAt).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}
