package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/muhammadkh97/bawwabty-marketplace/internal/dal/postgres"
	"github.com/muhammadkh97/bawwabty-marketplace/internal/service/models/order"
)

// PostgresStatusHistoryRepository appends and reads the order status audit log.
type PostgresStatusHistoryRepository struct {
	conn postgres.GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresStatusHistoryRepository creates a new status history repository.
func NewPostgresStatusHistoryRepository(conn postgres.GenericConn) *PostgresStatusHistoryRepository {
	return &PostgresStatusHistoryRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert appends one immutable history row. Rows are never updated or deleted.
func (r *PostgresStatusHistoryRepository) Insert(ctx context.Context, entry order.StatusHistoryEntry) error {
	query, args, err := r.sb.Insert("order_status_history").
		Columns("order_id", "status", "created_by", "notes", "created_at").
		Values(entry.OrderID, entry.Status.String(), entry.CreatedBy, entry.Notes, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert status history entry: %w", err)
	}

	return nil
}

// ListByOrder returns the status history of an order, oldest first.
func (r *PostgresStatusHistoryRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusHistoryEntry, error) {
	query, args, err := r.sb.Select("id", "order_id", "status", "created_by", "notes", "created_at").
		From("order_status_history").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var result []order.StatusHistoryEntry
	for rows.Next() {
		var (
			entry     order.StatusHistoryEntry
			status    string
			createdAt time.Time
		)
		if err := rows.Scan(&entry.ID, &entry.OrderID, &status, &entry.CreatedBy, &entry.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history entry: %w", err)
		}
		parsed, err := order.ParseStatus(status)
		if err != nil {
			return nil, fmt.Errorf("failed to parse status history entry: %w", err)
		}
		entry.Status = parsed
		entry.CreatedAt = createdAt
		result = append(result, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
